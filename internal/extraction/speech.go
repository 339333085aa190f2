package extraction

import (
	"context"
	"fmt"

	"call-auditor-go/internal/transcription"
	"call-auditor-go/internal/types"
)

type normalizer interface {
	Available() bool
	Normalize(ctx context.Context, in string) (string, func(), error)
}

// SpeechStrategy adapts a transcription provider, normalizing audio first
// when the provider asks for it.
type SpeechStrategy struct {
	provider   transcription.Provider
	normalizer normalizer
	opts       types.SpeechOptions
}

func NewSpeechStrategy(p transcription.Provider, n normalizer, opts types.SpeechOptions) *SpeechStrategy {
	return &SpeechStrategy{provider: p, normalizer: n, opts: opts}
}

func (s *SpeechStrategy) Name() string { return s.provider.Name() }

func (s *SpeechStrategy) Available() bool { return s.provider.Available() }

func (s *SpeechStrategy) IsPlaceholder() bool {
	_, ok := s.provider.(transcription.Placeholder)
	return ok
}

func (s *SpeechStrategy) Extract(ctx context.Context, path string) (string, error) {
	input := path
	if s.provider.NeedsNormalization(path) {
		if s.normalizer == nil || !s.normalizer.Available() {
			return "", types.NewExtractionError(s.Name(), "audio normalization unavailable", nil)
		}
		out, cleanup, err := s.normalizer.Normalize(ctx, path)
		if err != nil {
			return "", types.NewExtractionError(s.Name(), "audio normalization failed", err)
		}
		defer cleanup()
		input = out
	}

	text, err := s.provider.Transcribe(ctx, input, s.opts)
	if err != nil {
		return "", types.NewExtractionError(s.Name(), "transcription failed", err)
	}
	if !nonEmpty(text) {
		return "", types.NewExtractionError(s.Name(), fmt.Sprintf("%s returned no speech", s.Name()), nil)
	}
	return text, nil
}
