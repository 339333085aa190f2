package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/metrics"
	"call-auditor-go/internal/pipeline"
	"call-auditor-go/internal/store"
	"call-auditor-go/internal/types"
)

// MsgUploaded is the message of the first status record of every job.
const MsgUploaded = "File uploaded successfully. Processing started."

// Service is the submission boundary: it registers jobs and hands them to the
// worker pool. Pollers read progress back through Status and Results.
type Service struct {
	runner   Runner
	queue    *Queue
	statuses *store.JobStatusStore
	results  *store.ResultStore
	log      *logrus.Entry
	now      func() time.Time
	newID    func() string
}

func NewService(r Runner, statuses *store.JobStatusStore, results *store.ResultStore, log *logrus.Entry, opts ...Option) *Service {
	return &Service{
		runner:   r,
		queue:    NewQueue(r, log, opts...),
		statuses: statuses,
		results:  results,
		log:      log.WithField("component", "processor"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Submit records an Uploaded job for the artifact at path and queues it.
// The returned Job is the Uploaded record; the outcome is observed by polling.
func (s *Service) Submit(ctx context.Context, path, filename string) (types.Job, error) {
	job, err := s.register(ctx)
	if err != nil {
		return types.Job{}, err
	}
	if err := s.queue.Enqueue(ctx, Task{JobID: job.ID, Path: path, Filename: filename}); err != nil {
		s.abandon(ctx, job, err)
		return types.Job{}, fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}
	s.log.WithFields(logrus.Fields{"job_id": job.ID, "filename": filename}).Info("job submitted")
	return job, nil
}

// ProcessSync runs the pipeline in the caller's goroutine and returns the
// stored result. The pipeline's error is returned unchanged.
func (s *Service) ProcessSync(ctx context.Context, path, filename string) (types.Job, types.AuditResult, error) {
	job, err := s.register(ctx)
	if err != nil {
		return types.Job{}, types.AuditResult{}, err
	}
	if err := s.runner.Process(ctx, path, job.ID, filename); err != nil {
		return job, types.AuditResult{}, err
	}
	res, found, err := s.results.Get(ctx, job.ID)
	if err != nil {
		return job, types.AuditResult{}, err
	}
	if !found {
		return job, types.AuditResult{}, fmt.Errorf("results for job %s: %w", job.ID, types.ErrNotFound)
	}
	return job, res, nil
}

func (s *Service) Status(ctx context.Context, jobID string) (types.Job, error) {
	return s.statuses.Get(ctx, jobID)
}

// Results returns found=false while the job is still running, after it
// failed, and once the result has expired.
func (s *Service) Results(ctx context.Context, jobID string) (types.AuditResult, bool, error) {
	return s.results.Get(ctx, jobID)
}

// Shutdown stops accepting jobs and waits for the workers to drain.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.queue.Shutdown(ctx)
}

func (s *Service) register(ctx context.Context) (types.Job, error) {
	now := s.now()
	job := types.Job{
		ID:        s.newID(),
		Status:    types.StatusUploaded,
		Progress:  0,
		Message:   MsgUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.statuses.Put(ctx, job); err != nil {
		return types.Job{}, fmt.Errorf("register job: %w", err)
	}
	metrics.IncreaseJobStatusMetric(string(types.StatusUploaded))
	return job, nil
}

// abandon marks a registered job Failed when it never reached a worker.
func (s *Service) abandon(ctx context.Context, job types.Job, cause error) {
	msg := cause.Error()
	job.Status = types.StatusFailed
	job.Message = pipeline.MsgFailedPrefix + msg
	job.Error = &msg
	job.UpdatedAt = s.now()
	if err := s.statuses.Put(context.WithoutCancel(ctx), job); err != nil {
		s.log.WithError(err).WithField("job_id", job.ID).Error("could not record failed status")
	}
}
