package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/docsplit/docsplit/internal/config"
	"github.com/docsplit/docsplit/internal/engine"
	"github.com/docsplit/docsplit/internal/report"
	"github.com/docsplit/docsplit/internal/split"
)

// Worker processes a single split job.
type Worker struct {
	log   *slog.Logger
	cfg   config.Config
	stats *SplitStats
}

func NewWorker(log *slog.Logger, cfg config.Config, stats *SplitStats) *Worker {
	return &Worker{log: log, cfg: cfg, stats: stats}
}

// Process runs the full split pipeline for a job: open, analyze,
// execute, manifest. Per-range failures leave the job partial; only
// open/analyze/setup errors fail it outright.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "file", job.Filename)
	start := time.Now()

	job.SetStatus(StatusAnalyzing, "opening document")
	doc, err := engine.Open(job.InputPath())
	if err != nil {
		log.Error("open failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "opening")
		return
	}
	defer doc.Close()

	toc := doc.TOC()
	if len(toc) == 0 && w.cfg.TOCFallbackPrinted {
		log.Info("no embedded bookmarks, scanning printed contents")
		entries, scanErr := engine.ScanPrintedTOC(job.InputPath(), w.cfg.TOCScanPages, w.cfg.TOCPageOffset)
		if scanErr != nil {
			log.Warn("printed toc scan failed", "error", scanErr)
		} else {
			doc.SetTOC(entries)
			toc = entries
		}
	}

	job.SetStatus(StatusAnalyzing, "building split plan")
	plan, err := split.Analyze(toc, doc.PageCount(), split.Options{NameMaxRunes: w.cfg.NameMaxRunes})
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "analyzing")
		return
	}
	job.SetPlan(plan)
	log.Info("plan built", "ranges", len(plan.Ranges), "pages", plan.PageCount)

	job.SetStatus(StatusSplitting, "extracting ranges")
	rep, err := split.Execute(ctx, plan, doc, job.OutDir(), split.ExecOptions{
		Progress: job.RangeDone,
		Cancel:   job.Cancelled,
	})
	if err != nil {
		log.Error("execution failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "splitting")
		return
	}

	for _, out := range rep.Completed {
		job.AddOutput(filepath.Base(out.Path))
	}
	for _, f := range rep.Failed {
		log.Error("range failed", "range", f.Range.Name, "error", f.Err)
		job.AddError(fmt.Sprintf("%s: %s", f.Range.Name, f.Err))
	}

	if err := report.Write(job.OutDir(), report.Manifest(job.Filename, plan, rep)); err != nil {
		log.Warn("manifest write failed", "error", err)
	}

	w.stats.Record(time.Since(start).Milliseconds(), plan.PageCount)

	switch {
	case rep.Cancelled:
		job.SetStatus(StatusCancelled, "done")
	case rep.Success():
		job.SetStatus(StatusCompleted, "done")
	case len(rep.Completed) > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusFailed, "splitting")
	}
	log.Info("split finished",
		"status", job.Snapshot().Status,
		"written", len(rep.Completed),
		"failed", len(rep.Failed),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
