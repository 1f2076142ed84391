package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/docsplit/docsplit/internal/split"
)

// JobStatus represents the state of a split job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusAnalyzing JobStatus = "analyzing"
	StatusSplitting JobStatus = "splitting"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job tracks the state of one document split from upload to report.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress    `json:"progress"`
	Plan     []PlanRange `json:"plan,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	inputPath string
	outDir    string
	cancelled bool
}

// PlanRange is the read-only preview form of one split range.
type PlanRange struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Start int    `json:"start_page"`
	End   int    `json:"end_page"`
	Pages int    `json:"pages"`
}

// Progress tracks split progress. Ranges arrive in plan order.
type Progress struct {
	TotalRanges  int      `json:"total_ranges"`
	RangesDone   int      `json:"ranges_done"`
	CurrentRange string   `json:"current_range,omitempty"`
	Outputs      []string `json:"outputs"`
	Errors       []string `json:"errors"`
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetPlan stores the preview form of an analyzed plan.
func (j *Job) SetPlan(plan *split.Plan) {
	ranges := make([]PlanRange, len(plan.Ranges))
	for i, r := range plan.Ranges {
		ranges[i] = PlanRange{
			Name:  r.Name,
			Kind:  string(r.Kind),
			Title: r.Title,
			Start: r.Start,
			End:   r.End,
			Pages: r.Pages(),
		}
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Plan = ranges
	j.Progress.TotalRanges = len(ranges)
	j.UpdatedAt = time.Now()
}

// RangeDone records one processed range, successful or not.
func (j *Job) RangeDone(done, total int, name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.RangesDone = done
	j.Progress.TotalRanges = total
	j.Progress.CurrentRange = name
	j.UpdatedAt = time.Now()
}

// AddOutput records one written output file name.
func (j *Job) AddOutput(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Outputs = append(j.Progress.Outputs, name)
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Errors = append(j.Progress.Errors, err)
	j.UpdatedAt = time.Now()
}

// RequestCancel asks the executor to stop at the next range boundary.
func (j *Job) RequestCancel() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cancelled = true
	j.UpdatedAt = time.Now()
}

// Cancelled reports whether cancellation was requested. Used as the
// executor's cancel predicate.
func (j *Job) Cancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelled
}

// SetPaths records where the uploaded file lives and where outputs go.
func (j *Job) SetPaths(inputPath, outDir string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inputPath = inputPath
	j.outDir = outDir
}

// InputPath returns the uploaded document's path.
func (j *Job) InputPath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inputPath
}

// OutDir returns the job's output directory.
func (j *Job) OutDir() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.outDir
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string      `json:"job_id"`
	DocID    string      `json:"doc_id"`
	Status   JobStatus   `json:"status"`
	Phase    string      `json:"phase"`
	Filename string      `json:"filename"`
	Progress Progress    `json:"progress"`
	Plan     []PlanRange `json:"plan,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	outs := j.Progress.Outputs
	if outs == nil {
		outs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		DocID:    j.DocID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Plan:     append([]PlanRange(nil), j.Plan...),
		Progress: Progress{
			TotalRanges:  j.Progress.TotalRanges,
			RangesDone:   j.Progress.RangesDone,
			CurrentRange: j.Progress.CurrentRange,
			Outputs:      append([]string(nil), outs...),
			Errors:       append([]string(nil), errs...),
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
// Used as stable document identity for uploads.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
