package transcription

import (
	"context"
	"fmt"
	"path/filepath"

	"call-auditor-go/internal/types"
)

// PlaceholderMarker prefixes every synthetic transcript.
const PlaceholderMarker = "[PLACEHOLDER TRANSCRIPT]"

// Placeholder is the last resort for recordings: it always succeeds and the
// text is clearly tagged as synthetic so downstream consumers can tell.
type Placeholder struct{}

func (Placeholder) Name() string { return "placeholder" }

func (Placeholder) Available() bool { return true }

func (Placeholder) NeedsNormalization(string) bool { return false }

func (Placeholder) Transcribe(_ context.Context, path string, _ types.SpeechOptions) (string, error) {
	return fmt.Sprintf(placeholderText, PlaceholderMarker, filepath.Base(path)), nil
}

const placeholderText = `%s
Account Manager: Hello, thank you for calling. My name is Sarah, how can I help you today?
Client: Hi Sarah, I'm having some issues with my account and need help resolving them.
Account Manager: I understand how frustrating that must be. Let me check your account right away.
Client: Thanks. I need to download some reports before a deadline.
Account Manager: I'll escalate this to our technical team and email the reports to you within the hour. Is there anything else I can help you with?
Client: No, that covers everything. Thank you.
Account Manager: Thank you for being a valued customer. Have a great day!
[No speech provider could transcribe '%s'. Configure Google Speech-to-Text, OpenAI Whisper or a transcription gateway for real transcripts.]`
