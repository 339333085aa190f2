package store

import (
	"context"
	"fmt"

	"call-auditor-go/internal/config"
)

// Open builds the KV backend selected by configuration.
func Open(ctx context.Context, cfg config.StoreConfig) (KV, error) {
	switch cfg.Backend {
	case "memory", "":
		return NewMemoryKV(), nil
	case "redis":
		return NewRedisKV(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
