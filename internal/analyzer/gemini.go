package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"call-auditor-go/internal/config"
	"call-auditor-go/internal/types"
)

// generator produces raw model text for a prompt.
type generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	Close() error
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractTextFromResponse(resp)
}

func (g *geminiGenerator) Close() error { return g.client.Close() }

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// Gemini scores transcripts with a Google Gemini model.
type Gemini struct {
	gen          generator
	model        string
	maxRetryTime time.Duration
	log          *logrus.Entry
}

func NewGemini(ctx context.Context, cfg config.AnalyzerConfig, log *logrus.Entry) (*Gemini, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGemini(&geminiGenerator{client: client, model: cfg.GeminiModel}, cfg, log), nil
}

func newGemini(gen generator, cfg config.AnalyzerConfig, log *logrus.Entry) *Gemini {
	retry := cfg.MaxRetryTime
	if retry <= 0 {
		retry = 45 * time.Second
	}
	return &Gemini{
		gen:          gen,
		model:        cfg.GeminiModel,
		maxRetryTime: retry,
		log:          log.WithFields(logrus.Fields{"component": "analyzer", "model": cfg.GeminiModel}),
	}
}

func (g *Gemini) Name() string { return "gemini" }

// Analyze retries generation and parse failures with exponential backoff.
func (g *Gemini) Analyze(ctx context.Context, transcript string) (types.AnalyzerOutcome, error) {
	prompt := buildPrompt(transcript)

	var out types.AnalyzerOutcome
	var lastErr error
	op := func() error {
		text, err := g.gen.GenerateJSON(ctx, prompt)
		if err != nil {
			lastErr = err
			g.log.WithError(err).Warn("gemini request failed")
			return err
		}
		parsed, err := parseAnalysis(text, transcript)
		if err != nil {
			lastErr = err
			g.log.WithError(err).WithField("raw_len", len(text)).Warn("unparseable gemini output")
			return err
		}
		out = parsed
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = g.maxRetryTime
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return types.AnalyzerOutcome{}, fmt.Errorf("gemini analysis failed: %w", lastErr)
	}

	g.log.WithFields(logrus.Fields{
		"total_score": out.Summary.TotalScore,
		"items":       len(out.ScoredItems),
	}).Info("parsed analysis")
	return out, nil
}

func (g *Gemini) Close() error { return g.gen.Close() }
