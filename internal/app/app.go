package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/analyzer"
	"call-auditor-go/internal/api"
	"call-auditor-go/internal/config"
	"call-auditor-go/internal/detect"
	"call-auditor-go/internal/extraction"
	"call-auditor-go/internal/pipeline"
	"call-auditor-go/internal/processor"
	"call-auditor-go/internal/runner"
	"call-auditor-go/internal/store"
	"call-auditor-go/internal/transcription"
)

const sweepInterval = time.Minute

// App holds the wired components shared by the server and the CLI.
type App struct {
	Config       config.Config
	Detector     *detect.Detector
	Chains       extraction.Chains
	Analyzer     analyzer.Analyzer
	Orchestrator *pipeline.Orchestrator
	Service      *processor.Service

	closers []func() error
}

// New wires every component from cfg. Close must be called once done.
func New(ctx context.Context, cfg config.Config, log *logrus.Entry) (*App, error) {
	a := &App{Config: cfg}

	kv, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.closers = append(a.closers, kv.Close)
	if mem, ok := kv.(*store.MemoryKV); ok {
		go mem.RunSweeper(ctx, sweepInterval)
	}
	statuses := store.NewJobStatusStore(kv, cfg.Store.StatusTTL)
	results := store.NewResultStore(kv, cfg.Store.ResultTTL)

	providers := transcription.FromConfig(ctx, cfg.Speech, log)
	for _, p := range providers {
		if c, ok := p.(io.Closer); ok {
			a.closers = append(a.closers, c.Close)
		}
	}

	az, closeAnalyzer, err := analyzer.FromConfig(ctx, cfg.Analyzer, log)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("analyzer: %w", err)
	}
	a.closers = append(a.closers, closeAnalyzer)

	a.Detector = detect.New(log)
	a.Chains = extraction.Build(cfg, providers, runner.NewExec(log), log)
	a.Analyzer = az
	a.Orchestrator = pipeline.New(a.Detector, a.Chains, az, statuses, results, log)
	a.Service = processor.NewService(a.Orchestrator, statuses, results, log,
		processor.WithWorkers(cfg.Queue.Workers),
		processor.WithQueueSize(cfg.Queue.Size),
	)

	log.WithFields(logrus.Fields{
		"store":      cfg.Store.Backend,
		"analyzer":   az.Name(),
		"strategies": a.Chains.Strategies(),
	}).Info("components ready")
	return a, nil
}

// Health describes the running configuration for the health endpoint.
func (a *App) Health() api.Health {
	return api.Health{
		Analyzer:   a.Analyzer.Name(),
		Store:      a.Config.Store.Backend,
		Strategies: a.Chains.Strategies(),
	}
}

// Shutdown drains the worker pool, then releases backends.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if a.Service != nil {
		firstErr = a.Service.Shutdown(ctx)
	}
	if err := a.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Close releases backends in reverse order of acquisition.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
