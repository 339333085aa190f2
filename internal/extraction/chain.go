package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/metrics"
	"call-auditor-go/internal/types"
)

// Chain tries strategies in order and returns the first success.
type Chain struct {
	category   types.Category
	strategies []Strategy
	log        *logrus.Entry
}

// NewChain keeps only the strategies that report themselves available.
func NewChain(category types.Category, log *logrus.Entry, strategies ...Strategy) *Chain {
	c := &Chain{category: category, log: log.WithFields(logrus.Fields{"component": "chain", "category": category})}
	for _, s := range strategies {
		if s == nil {
			continue
		}
		if !s.Available() {
			c.log.WithField("strategy", s.Name()).Info("strategy unavailable, skipping")
			continue
		}
		c.strategies = append(c.strategies, s)
	}
	return c
}

func (c *Chain) Category() types.Category { return c.category }

// Names lists the strategies that will be tried, in order.
func (c *Chain) Names() []string {
	out := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		out[i] = s.Name()
	}
	return out
}

// Run returns *types.ExhaustedError when every strategy failed. Empty output
// from a strategy is returned as-is; the caller decides what empty means.
func (c *Chain) Run(ctx context.Context, path string) (types.ExtractionOutcome, error) {
	var failures []error
	var attempted []string
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return types.ExtractionOutcome{}, err
		}
		attempted = append(attempted, s.Name())
		log := c.log.WithField("strategy", s.Name())

		start := time.Now()
		text, err := extract(ctx, s, path)
		if err != nil {
			metrics.ObserveExtraction(string(c.category), s.Name(), "failure")
			log.WithError(err).WithField("duration_ms", time.Since(start).Milliseconds()).Warn("extraction strategy failed")
			var ee *types.ExtractionError
			if !errors.As(err, &ee) {
				err = types.NewExtractionError(s.Name(), "failed", err)
			}
			failures = append(failures, err)
			continue
		}
		metrics.ObserveExtraction(string(c.category), s.Name(), "success")
		log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("extraction succeeded")
		return types.ExtractionOutcome{
			Transcript:   text,
			StrategyUsed: s.Name(),
			Placeholder:  isPlaceholder(s),
			Attempts:     attempted,
		}, nil
	}
	return types.ExtractionOutcome{}, &types.ExhaustedError{Category: c.category, Attempts: failures}
}

// extract turns a panicking strategy into an ordinary failed attempt.
func extract(ctx context.Context, s Strategy, path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewExtractionError(s.Name(), "strategy panicked", fmt.Errorf("%v", r))
		}
	}()
	return s.Extract(ctx, path)
}

type placeholderMarker interface{ IsPlaceholder() bool }

func isPlaceholder(s Strategy) bool {
	p, ok := s.(placeholderMarker)
	return ok && p.IsPlaceholder()
}

func nonEmpty(s string) bool { return strings.TrimSpace(s) != "" }
