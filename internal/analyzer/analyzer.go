package analyzer

import (
	"context"

	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/config"
	"call-auditor-go/internal/types"
)

// Analyzer scores a conversation transcript.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, transcript string) (types.AnalyzerOutcome, error)
}

// FromConfig returns the Gemini analyzer when a key is configured, otherwise
// the keyword heuristic analyzer.
func FromConfig(ctx context.Context, cfg config.AnalyzerConfig, log *logrus.Entry) (Analyzer, func() error, error) {
	if cfg.GeminiKey == "" {
		log.Info("no GEMINI_API_KEY set, using heuristic analyzer")
		return NewHeuristic(), func() error { return nil }, nil
	}
	g, err := NewGemini(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return g, g.Close, nil
}
