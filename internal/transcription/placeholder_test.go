package transcription

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-auditor-go/internal/types"
)

func TestPlaceholder(t *testing.T) {
	var p Placeholder
	assert.True(t, p.Available())
	text, err := p.Transcribe(context.Background(), "/uploads/abc.mp3", types.SpeechOptions{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, PlaceholderMarker))
	assert.Contains(t, text, "'abc.mp3'")
}
