package extraction

import (
	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/config"
	"call-auditor-go/internal/runner"
	"call-auditor-go/internal/transcription"
	"call-auditor-go/internal/types"
)

// Chains holds one fallback chain per content category.
type Chains map[types.Category]*Chain

func (c Chains) For(cat types.Category) (*Chain, bool) {
	ch, ok := c[cat]
	return ch, ok
}

// Strategies lists the usable strategies per category, in chain order.
func (c Chains) Strategies() map[string][]string {
	out := make(map[string][]string, len(c))
	for cat, ch := range c {
		out[string(cat)] = ch.Names()
	}
	return out
}

// Build wires the chains for every known category. Recordings always end with
// the placeholder, so audio and video chains cannot be exhausted.
func Build(cfg config.Config, providers []transcription.Provider, r runner.Runner, log *logrus.Entry) Chains {
	opts := types.SpeechOptions{
		Language:     cfg.Speech.Language,
		Diarize:      cfg.Speech.Diarize,
		SpeakerCount: cfg.Speech.SpeakerCount,
	}
	norm := transcription.NewNormalizer(r, cfg.Speech.FFmpegPath, log)

	speech := make([]Strategy, 0, len(providers)+1)
	for _, p := range providers {
		speech = append(speech, NewSpeechStrategy(p, norm, opts))
	}
	speech = append(speech, NewSpeechStrategy(transcription.Placeholder{}, norm, opts))

	return Chains{
		types.CategoryAudio:    NewChain(types.CategoryAudio, log, speech...),
		types.CategoryVideo:    NewChain(types.CategoryVideo, log, speech...),
		types.CategoryImage:    NewChain(types.CategoryImage, log, NewOCRStrategy(r, cfg.OCR)),
		types.CategoryPDF:      NewChain(types.CategoryPDF, log, NewPDFStrategy()),
		types.CategoryDocument: NewChain(types.CategoryDocument, log, NewDocumentStrategy()),
	}
}
