package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/config"
	"call-auditor-go/internal/logger"
	"call-auditor-go/internal/types"
)

// multipart framing allowance on top of the file size limit
const formOverhead = 1 << 20

// Service is the job boundary the handlers talk to.
type Service interface {
	Submit(ctx context.Context, path, filename string) (types.Job, error)
	Status(ctx context.Context, jobID string) (types.Job, error)
	Results(ctx context.Context, jobID string) (types.AuditResult, bool, error)
}

// Health is reported as-is by GET /health.
type Health struct {
	Analyzer   string              `json:"analyzer"`
	Store      string              `json:"store"`
	Strategies map[string][]string `json:"strategies"`
}

type Server struct {
	svc    Service
	upload config.UploadConfig
	health Health
	log    *logger.Logger
	newID  func() string
}

func NewServer(svc Service, upload config.UploadConfig, health Health, log *logger.Logger) *Server {
	return &Server{svc: svc, upload: upload, health: health, log: log, newID: uuid.NewString}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.requestLog, middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/status/{jobID}", s.handleStatus)
		r.Get("/results/{jobID}", s.handleResults)
	})
	return r
}

type UploadResponse struct {
	JobID    string          `json:"job_id"`
	Filename string          `json:"filename"`
	Status   types.JobStatus `json:"status"`
	Message  string          `json:"message"`
}

type errorReply struct {
	Detail string `json:"detail"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithRequest(r).WithField("handler", "upload")

	r.Body = http.MaxBytesReader(w, r.Body, s.upload.MaxBytes()+formOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.tooLarge(w, r)
			return
		}
		log.WithError(err).Warn("missing file part")
		replyError(w, r, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !s.upload.Allowed(ext) {
		log.WithField("filename", header.Filename).Warn("rejected file type")
		replyError(w, r, http.StatusBadRequest, fmt.Sprintf("Unsupported file type. Allowed types: %s", strings.Join(s.upload.AllowedExtensions, ", ")))
		return
	}
	if header.Size > s.upload.MaxBytes() {
		s.tooLarge(w, r)
		return
	}

	path, err := s.save(file, ext)
	if err != nil {
		log.WithError(err).Error("failed to save upload")
		replyError(w, r, http.StatusInternalServerError, fmt.Sprintf("Error uploading file: %v", err))
		return
	}

	job, err := s.svc.Submit(r.Context(), path, header.Filename)
	if err != nil {
		log.WithError(err).Error("failed to submit job")
		if rerr := os.Remove(path); rerr != nil {
			log.WithError(rerr).WithField("path", path).Warn("could not remove rejected upload")
		}
		replyError(w, r, http.StatusInternalServerError, fmt.Sprintf("Error uploading file: %v", err))
		return
	}
	log.WithFields(logrus.Fields{"job_id": job.ID, "filename": header.Filename, "bytes": header.Size}).Info("upload accepted")
	render.JSON(w, r, UploadResponse{JobID: job.ID, Filename: header.Filename, Status: job.Status, Message: job.Message})
}

func (s *Server) tooLarge(w http.ResponseWriter, r *http.Request) {
	replyError(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Maximum size: %dMB", s.upload.MaxFileSizeMB))
}

// save stores the upload under a random name, keeping only its extension.
func (s *Server) save(src io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.upload.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.upload.Dir, s.newID()+ext)
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", err
	}
	return path, dst.Close()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job, err := s.svc.Status(r.Context(), jobID)
	switch {
	case errors.Is(err, types.ErrNotFound):
		replyError(w, r, http.StatusNotFound, fmt.Sprintf("Job not found: %s", jobID))
	case err != nil:
		s.log.WithRequest(r).WithError(err).Error("status lookup failed")
		replyError(w, r, http.StatusInternalServerError, err.Error())
	default:
		render.JSON(w, r, job)
	}
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	res, found, err := s.svc.Results(r.Context(), jobID)
	switch {
	case err != nil:
		s.log.WithRequest(r).WithError(err).Error("results lookup failed")
		replyError(w, r, http.StatusInternalServerError, fmt.Sprintf("Error retrieving results: %v", err))
	case !found:
		replyError(w, r, http.StatusNotFound, "Results not found or processing not complete")
	default:
		render.JSON(w, r, res)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, struct {
		Status string `json:"status"`
		Health
	}{Status: "healthy", Health: s.health})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		if r.URL.Path == "/metrics" {
			return
		}
		s.log.WithRequest(r).WithFields(logrus.Fields{
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("request served")
	})
}

func replyError(w http.ResponseWriter, r *http.Request, code int, detail string) {
	render.Status(r, code)
	render.JSON(w, r, errorReply{Detail: detail})
}
