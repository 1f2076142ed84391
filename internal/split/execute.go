package split

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Document is the read-only view of an open document the executor needs.
// Implementations are not safe for concurrent use; one executor at a
// time per handle.
type Document interface {
	// PageCount reports the total number of pages.
	PageCount() int
	// ExtractRange writes pages [start, end] (zero-based, inclusive)
	// as a standalone document to w.
	ExtractRange(ctx context.Context, start, end int, w io.Writer) error
}

// ProgressFunc receives one update per processed range, in plan order,
// whether the range succeeded or failed.
type ProgressFunc func(done, total int, name string)

// ExecOptions tune an Execute run. The zero value is usable.
type ExecOptions struct {
	// Progress, if set, is invoked after each processed range.
	Progress ProgressFunc
	// Cancel, if set, is polled once before each range. Cancellation is
	// cooperative: the in-flight range always completes.
	Cancel func() bool
	// Extension is the output file extension without dot. Defaults to "pdf".
	Extension string
}

func (o ExecOptions) ext() string {
	if o.Extension != "" {
		return o.Extension
	}
	return "pdf"
}

// Output records one successfully written range.
type Output struct {
	Range Range  `json:"range"`
	Path  string `json:"path"`
}

// Failure records one range that could not be written. The run
// continues past failures.
type Failure struct {
	Range Range  `json:"range"`
	Err   string `json:"error"`
}

// Report is the complete outcome of an Execute run. Completed and
// Failed are each in plan order; ranges skipped after cancellation
// appear in neither.
type Report struct {
	Completed []Output  `json:"completed"`
	Failed    []Failure `json:"failed"`
	Cancelled bool      `json:"cancelled"`
}

// Success reports whether every range was written and the run was not
// cancelled. Partial success (some failures, some outputs) is a
// distinct state and must be surfaced as such.
func (r *Report) Success() bool {
	return len(r.Failed) == 0 && !r.Cancelled
}

// Execute realizes plan against doc, writing one file per range into
// outDir. Each range is attempted at most once; a failing range is
// recorded and the run moves on. The only fatal conditions, returned as
// an error with no ranges attempted, are an invalid plan, a plan/document
// page-count mismatch, and an unusable output directory. Re-running with
// the same plan and a clean output directory reproduces the same files.
func Execute(ctx context.Context, plan *Plan, doc Document, outDir string, opts ExecOptions) (*Report, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if got := doc.PageCount(); got != plan.PageCount {
		return nil, fmt.Errorf("%w: plan covers %d pages, document has %d",
			ErrInvalidPartition, plan.PageCount, got)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if err := probeWritable(outDir); err != nil {
		return nil, fmt.Errorf("output directory not writable: %w", err)
	}

	report := &Report{}
	total := len(plan.Ranges)
	names := make(map[string]bool, total)
	done := 0

	for _, r := range plan.Ranges {
		if ctx.Err() != nil || (opts.Cancel != nil && opts.Cancel()) {
			report.Cancelled = true
			break
		}

		path := filepath.Join(outDir, uniqueName(names, r.Name)+"."+opts.ext())
		if err := extractOne(ctx, doc, r, path); err != nil {
			report.Failed = append(report.Failed, Failure{Range: r, Err: err.Error()})
		} else {
			report.Completed = append(report.Completed, Output{Range: r, Path: path})
		}

		done++
		if opts.Progress != nil {
			opts.Progress(done, total, r.Name)
		}
	}

	return report, nil
}

func extractOne(ctx context.Context, doc Document, r Range, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := doc.ExtractRange(ctx, r.Start, r.End, f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("extract pages %d-%d: %w", r.Start, r.End, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// uniqueName resolves sanitized-name collisions with a numeric suffix,
// deterministic in plan order. Analyze never produces duplicates (the
// ordinal prefix differs), so this only fires for hand-built plans.
func uniqueName(seen map[string]bool, name string) string {
	candidate := name
	for n := 2; seen[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
	seen[candidate] = true
	return candidate
}

// probeWritable verifies the directory accepts new files before any
// range is attempted.
func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".docsplit-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
