package store

import (
	"context"
	"time"
)

// KV is an expiring key-value backend. Get returns types.ErrNotFound for keys
// that were never written or whose TTL has elapsed.
type KV interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key; a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	statusPrefix = "status_"
	resultPrefix = "results_"
)

func statusKey(jobID string) string { return statusPrefix + jobID }

func resultKey(jobID string) string { return resultPrefix + jobID }
