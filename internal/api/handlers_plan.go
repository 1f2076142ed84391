package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/docsplit/docsplit/internal/engine"
	"github.com/docsplit/docsplit/internal/split"
)

// handlePlanPreview analyzes an uploaded PDF and returns the split plan
// without executing anything. This is the preview surface a caller uses
// before authorizing a run.
func (s *Server) handlePlanPreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if ext := filepath.Ext(sanitizeUploadName(header.Filename)); !strings.EqualFold(ext, ".pdf") {
		jsonError(w, "unsupported file type: "+ext, http.StatusBadRequest)
		return
	}

	tmp, err := os.CreateTemp("", "docsplit-preview-*.pdf")
	if err != nil {
		jsonError(w, "failed to buffer upload", http.StatusInternalServerError)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, err = io.Copy(tmp, io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		jsonError(w, "failed to buffer upload", http.StatusInternalServerError)
		return
	}

	doc, err := engine.Open(tmpPath)
	if err != nil {
		jsonError(w, "failed to open document: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	defer doc.Close()

	toc := doc.TOC()
	if len(toc) == 0 && s.cfg.TOCFallbackPrinted {
		if entries, scanErr := engine.ScanPrintedTOC(tmpPath, s.cfg.TOCScanPages, s.cfg.TOCPageOffset); scanErr == nil {
			toc = entries
		}
	}

	plan, err := split.Analyze(toc, doc.PageCount(), split.Options{NameMaxRunes: s.cfg.NameMaxRunes})
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, split.ErrInvalidPartition) {
			status = http.StatusInternalServerError
		}
		jsonError(w, err.Error(), status)
		return
	}

	type previewRange struct {
		Name  string `json:"name"`
		Kind  string `json:"kind"`
		Title string `json:"title"`
		Start int    `json:"start_page"`
		End   int    `json:"end_page"`
		Pages int    `json:"pages"`
	}
	ranges := make([]previewRange, len(plan.Ranges))
	for i, pr := range plan.Ranges {
		ranges[i] = previewRange{
			Name:  pr.Name,
			Kind:  string(pr.Kind),
			Title: pr.Title,
			Start: pr.Start,
			End:   pr.End,
			Pages: pr.Pages(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":   sanitizeUploadName(header.Filename),
		"page_count": plan.PageCount,
		"ranges":     ranges,
	})
}
