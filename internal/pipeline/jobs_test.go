package pipeline

import (
	"testing"
	"time"

	"github.com/docsplit/docsplit/internal/split"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusAnalyzing, "building split plan"},
		{StatusSplitting, "extracting ranges"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		job.SetStatus(tr.status, tr.phase)
		snap := job.Snapshot()
		if snap.Status != tr.status {
			t.Errorf("status = %s, want %s", snap.Status, tr.status)
		}
		if snap.Phase != tr.phase {
			t.Errorf("phase = %s, want %s", snap.Phase, tr.phase)
		}
	}
}

func TestJob_SetPlanExposesPreview(t *testing.T) {
	job := &Job{ID: "test-2"}
	plan := &split.Plan{
		PageCount: 20,
		Ranges: []split.Range{
			{Name: "00_front_matter", Kind: split.KindLeading, Title: "front_matter", Start: 0, End: 4},
			{Name: "01_Ch1", Kind: split.KindChapter, Title: "Ch1", Start: 5, End: 19},
		},
	}
	job.SetPlan(plan)

	snap := job.Snapshot()
	if len(snap.Plan) != 2 {
		t.Fatalf("plan ranges = %d, want 2", len(snap.Plan))
	}
	if snap.Plan[0].Kind != "leading" || snap.Plan[0].Pages != 5 {
		t.Errorf("plan[0] = %+v", snap.Plan[0])
	}
	if snap.Progress.TotalRanges != 2 {
		t.Errorf("total ranges = %d, want 2", snap.Progress.TotalRanges)
	}
}

func TestJob_CancelFlag(t *testing.T) {
	job := &Job{ID: "test-3"}
	if job.Cancelled() {
		t.Fatal("fresh job should not be cancelled")
	}
	job.RequestCancel()
	if !job.Cancelled() {
		t.Fatal("expected cancelled after request")
	}
}

func TestJob_ProgressArrivesInOrder(t *testing.T) {
	job := &Job{ID: "test-4"}
	for i := 1; i <= 3; i++ {
		job.RangeDone(i, 3, "range")
	}
	snap := job.Snapshot()
	if snap.Progress.RangesDone != 3 || snap.Progress.TotalRanges != 3 {
		t.Errorf("progress = %+v", snap.Progress)
	}
}

func TestJobStore_Cleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	stale := &Job{ID: "stale", UpdatedAt: time.Now().Add(-time.Minute)}
	fresh := &Job{ID: "fresh", UpdatedAt: time.Now()}
	store.Put(stale)
	store.Put(fresh)

	expired := store.Cleanup()
	if len(expired) != 1 || expired[0] != "stale" {
		t.Fatalf("expired = %v, want [stale]", expired)
	}
	if store.Get("stale") != nil {
		t.Error("stale job should be evicted")
	}
	if store.Get("fresh") == nil {
		t.Error("fresh job should survive")
	}
}
