package transcription

import (
	"context"

	"call-auditor-go/internal/types"
)

// Provider turns a recording into text.
type Provider interface {
	Name() string
	// Available is probed once when chains are built.
	Available() bool
	// NeedsNormalization reports whether path must be re-encoded to 16 kHz mono
	// PCM before Transcribe is called.
	NeedsNormalization(path string) bool
	Transcribe(ctx context.Context, path string, opts types.SpeechOptions) (string, error)
}
