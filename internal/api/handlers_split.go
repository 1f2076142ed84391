package api

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/docsplit/docsplit/internal/pipeline"
	"github.com/docsplit/docsplit/internal/report"
)

// handleSplit accepts a PDF upload and queues a split job.
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

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

	filename := sanitizeUploadName(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	jobID := uuid.NewString()
	inputPath, docID, err := s.storeUpload(jobID, file)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		} else {
			jsonError(w, "failed to store upload: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:        jobID,
		DocID:     docID,
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetPaths(inputPath, filepath.Join(s.cfg.WorkDir, "out", jobID))

	if err := s.orchestrator.Submit(job); err != nil {
		os.Remove(inputPath)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"doc_id":   job.DocID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/split/%s/status", job.ID),
	})
}

func (s *Server) handleSplitStatus(w http.ResponseWriter, r *http.Request) {
	job := s.jobOr404(w, r)
	if job == nil {
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// handleSplitCancel requests cooperative cancellation; the in-flight
// range still completes.
func (s *Server) handleSplitCancel(w http.ResponseWriter, r *http.Request) {
	job := s.jobOr404(w, r)
	if job == nil {
		return
	}
	job.RequestCancel()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id": job.ID,
		"status": job.Snapshot().Status,
	})
}

// handleSplitReport serves the run manifest rendered as HTML.
func (s *Server) handleSplitReport(w http.ResponseWriter, r *http.Request) {
	job := s.jobOr404(w, r)
	if job == nil {
		return
	}
	md, err := os.ReadFile(filepath.Join(job.OutDir(), report.ManifestName))
	if err != nil {
		jsonError(w, "report not available yet", http.StatusNotFound)
		return
	}
	html, err := report.RenderHTML(md)
	if err != nil {
		jsonError(w, "failed to render report: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// handleSplitFile serves one output file of a finished job.
func (s *Server) handleSplitFile(w http.ResponseWriter, r *http.Request) {
	job := s.jobOr404(w, r)
	if job == nil {
		return
	}
	name := chi.URLParam(r, "name")
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		jsonError(w, "invalid file name", http.StatusBadRequest)
		return
	}
	known := false
	for _, out := range job.Snapshot().Progress.Outputs {
		if out == name {
			known = true
			break
		}
	}
	if !known {
		jsonError(w, "no such output file", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, filepath.Join(job.OutDir(), name))
}

func (s *Server) jobOr404(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil
	}
	return job
}

var errUploadTooLarge = errors.New("upload too large")

// storeUpload streams the upload to WorkDir/in while hashing it for
// document identity. Returns the stored path and doc ID.
func (s *Server) storeUpload(jobID string, file io.Reader) (string, string, error) {
	inDir := filepath.Join(s.cfg.WorkDir, "in")
	if err := os.MkdirAll(inDir, 0o755); err != nil {
		return "", "", err
	}
	path := filepath.Join(inDir, jobID+".pdf")
	out, err := os.Create(path)
	if err != nil {
		return "", "", err
	}

	hash := sha256.New()
	n, err := io.Copy(out, io.TeeReader(io.LimitReader(file, s.cfg.MaxUploadBytes+1), hash))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", "", err
	}
	if n > s.cfg.MaxUploadBytes {
		os.Remove(path)
		return "", "", errUploadTooLarge
	}
	docID := fmt.Sprintf("%x", hash.Sum(nil))[:16]
	return path, docID, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeUploadName(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed.pdf"
	}
	return name
}
