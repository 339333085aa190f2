package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"call-auditor-go/internal/types"
)

// JobStatusStore keeps the latest status of each job. Every write re-arms the TTL.
type JobStatusStore struct {
	kv  KV
	ttl time.Duration
}

func NewJobStatusStore(kv KV, ttl time.Duration) *JobStatusStore {
	return &JobStatusStore{kv: kv, ttl: ttl}
}

func (s *JobStatusStore) Put(ctx context.Context, job types.Job) error {
	b, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	return s.kv.Put(ctx, statusKey(job.ID), b, s.ttl)
}

// Get returns types.ErrNotFound for unknown and expired jobs alike.
func (s *JobStatusStore) Get(ctx context.Context, jobID string) (types.Job, error) {
	b, err := s.kv.Get(ctx, statusKey(jobID))
	if err != nil {
		return types.Job{}, err
	}
	var job types.Job
	if err := json.Unmarshal(b, &job); err != nil {
		return types.Job{}, fmt.Errorf("decode job %s: %w", jobID, err)
	}
	return job, nil
}

// ResultStore keeps the audit result of each completed job.
type ResultStore struct {
	kv  KV
	ttl time.Duration
}

func NewResultStore(kv KV, ttl time.Duration) *ResultStore {
	return &ResultStore{kv: kv, ttl: ttl}
}

func (s *ResultStore) Put(ctx context.Context, res types.AuditResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", res.JobID, err)
	}
	return s.kv.Put(ctx, resultKey(res.JobID), b, s.ttl)
}

// Get reports found=false when no result exists; that is not an error.
func (s *ResultStore) Get(ctx context.Context, jobID string) (types.AuditResult, bool, error) {
	b, err := s.kv.Get(ctx, resultKey(jobID))
	if errors.Is(err, types.ErrNotFound) {
		return types.AuditResult{}, false, nil
	}
	if err != nil {
		return types.AuditResult{}, false, err
	}
	var res types.AuditResult
	if err := json.Unmarshal(b, &res); err != nil {
		return types.AuditResult{}, false, fmt.Errorf("decode result %s: %w", jobID, err)
	}
	return res, true, nil
}

// Delete drops the result of jobID, if any.
func (s *ResultStore) Delete(ctx context.Context, jobID string) error {
	return s.kv.Delete(ctx, resultKey(jobID))
}
