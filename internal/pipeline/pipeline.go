package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/analyzer"
	"call-auditor-go/internal/extraction"
	"call-auditor-go/internal/metrics"
	"call-auditor-go/internal/store"
	"call-auditor-go/internal/types"
)

const (
	ProgressProcessing   = 10
	ProgressTranscribing = 30
	ProgressAnalyzing    = 70
	ProgressCompleted    = 100

	MsgProcessing   = "Starting file processing..."
	MsgTranscribing = "Extracting transcript..."
	MsgAnalyzing    = "Analyzing conversation..."
	MsgCompleted    = "Analysis complete!"
	MsgFailedPrefix = "Processing failed: "
)

type Detector interface {
	Detect(path string) types.Category
}

// Orchestrator drives one job through detection, extraction, analysis and
// storage, recording each stage in the status store.
type Orchestrator struct {
	detector Detector
	chains   extraction.Chains
	analyzer analyzer.Analyzer
	statuses *store.JobStatusStore
	results  *store.ResultStore
	now      func() time.Time
	log      *logrus.Entry
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func New(d Detector, chains extraction.Chains, a analyzer.Analyzer, statuses *store.JobStatusStore, results *store.ResultStore, log *logrus.Entry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		detector: d,
		chains:   chains,
		analyzer: a,
		statuses: statuses,
		results:  results,
		now:      time.Now,
		log:      log.WithField("component", "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process runs the pipeline for one artifact. On any failure, including a
// panic in a strategy or the analyzer, the job is marked Failed (progress 0)
// and the error is returned to the caller.
func (o *Orchestrator) Process(ctx context.Context, path, jobID, filename string) (err error) {
	start := o.now()
	log := o.log.WithFields(logrus.Fields{"job_id": jobID, "filename": filename})
	createdAt := o.createdAt(ctx, jobID, start)
	resultSaved := false

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during processing: %v", r)
		}
		if err == nil {
			return
		}
		// A result only exists for a Completed job.
		if resultSaved {
			if derr := o.results.Delete(context.WithoutCancel(ctx), jobID); derr != nil {
				log.WithError(derr).Error("could not remove result of failed job")
			}
		}
		o.fail(ctx, jobID, createdAt, err, log)
	}()

	if err = o.setStatus(ctx, jobID, createdAt, types.StatusProcessing, ProgressProcessing, MsgProcessing); err != nil {
		return err
	}

	category := o.detector.Detect(path)
	log = log.WithField("category", category)
	log.Info("detected content type")
	chain, ok := o.chains.For(category)
	if category == types.CategoryUnknown || !ok {
		return fmt.Errorf("%w: %s", types.ErrUnsupportedFileType, describe(path, filename))
	}

	if err = o.setStatus(ctx, jobID, createdAt, types.StatusTranscribing, ProgressTranscribing, MsgTranscribing); err != nil {
		return err
	}
	stageStart := o.now()
	extracted, err := chain.Run(ctx, path)
	metrics.ObserveStage("extraction", o.now().Sub(stageStart))
	if err != nil {
		return err
	}
	if strings.TrimSpace(extracted.Transcript) == "" {
		return types.ErrEmptyTranscript
	}
	log.WithFields(logrus.Fields{
		"strategy":    extracted.StrategyUsed,
		"placeholder": extracted.Placeholder,
		"chars":       len(extracted.Transcript),
	}).Info("transcript extracted")

	if err = o.setStatus(ctx, jobID, createdAt, types.StatusAnalyzing, ProgressAnalyzing, MsgAnalyzing); err != nil {
		return err
	}
	stageStart = o.now()
	analysis, aerr := o.analyzer.Analyze(ctx, extracted.Transcript)
	metrics.ObserveStage("analysis", o.now().Sub(stageStart))
	if aerr != nil {
		return &types.AnalyzerError{Err: aerr}
	}

	result := types.AuditResult{
		JobID:                 jobID,
		Filename:              filename,
		Summary:               analysis.Summary,
		ScoredItems:           analysis.ScoredItems,
		Participants:          analysis.Participants,
		CoachingSummary:       analysis.CoachingSummary,
		Transcript:            extracted.Transcript,
		TranscriptSource:      extracted.StrategyUsed,
		PlaceholderTranscript: extracted.Placeholder,
		ProcessingTime:        o.now().Sub(start).Seconds(),
		CreatedAt:             o.now(),
	}
	if err = o.results.Put(ctx, result); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	resultSaved = true
	if err = o.setStatus(ctx, jobID, createdAt, types.StatusCompleted, ProgressCompleted, MsgCompleted); err != nil {
		return err
	}

	metrics.ObserveStage("total", o.now().Sub(start))
	log.WithFields(logrus.Fields{
		"total_score":     result.Summary.TotalScore,
		"processing_time": result.ProcessingTime,
	}).Info("job completed")
	return nil
}

func (o *Orchestrator) createdAt(ctx context.Context, jobID string, fallback time.Time) time.Time {
	job, err := o.statuses.Get(ctx, jobID)
	if err == nil && !job.CreatedAt.IsZero() {
		return job.CreatedAt
	}
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		o.log.WithError(err).WithField("job_id", jobID).Warn("could not read existing status")
	}
	return fallback
}

func (o *Orchestrator) setStatus(ctx context.Context, jobID string, createdAt time.Time, status types.JobStatus, progress int, message string) error {
	job := types.Job{
		ID:        jobID,
		Status:    status,
		Progress:  progress,
		Message:   message,
		CreatedAt: createdAt,
		UpdatedAt: o.now(),
	}
	if err := o.statuses.Put(ctx, job); err != nil {
		return fmt.Errorf("update status to %s: %w", status, err)
	}
	metrics.IncreaseJobStatusMetric(string(status))
	return nil
}

// fail records the terminal Failed status. A store error here is only logged:
// the caller still receives the original error.
func (o *Orchestrator) fail(ctx context.Context, jobID string, createdAt time.Time, cause error, log *logrus.Entry) {
	msg := cause.Error()
	job := types.Job{
		ID:        jobID,
		Status:    types.StatusFailed,
		Progress:  0,
		Message:   MsgFailedPrefix + msg,
		Error:     &msg,
		CreatedAt: createdAt,
		UpdatedAt: o.now(),
	}
	if err := o.statuses.Put(context.WithoutCancel(ctx), job); err != nil {
		log.WithError(err).Error("could not record failed status")
	}
	metrics.IncreaseJobStatusMetric(string(types.StatusFailed))
	log.WithError(cause).Warn("job failed")
}

func describe(path, filename string) string {
	name := filename
	if name == "" {
		name = filepath.Base(path)
	}
	if ext := filepath.Ext(name); ext != "" {
		return ext
	}
	return name
}
