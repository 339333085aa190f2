package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-auditor-go/internal/config"
	"call-auditor-go/internal/transcription"
	"call-auditor-go/internal/types"
)

func testConfig() config.Config {
	return config.Config{
		Speech: config.SpeechConfig{Language: "en-US", Diarize: true, SpeakerCount: 2, FFmpegPath: "ffmpeg"},
		OCR:    config.OCRConfig{TesseractPath: "tesseract", Languages: "eng"},
	}
}

func TestBuild_ChainOrder(t *testing.T) {
	log, _ := nullLog()
	providers := []transcription.Provider{
		&fakeProvider{name: "google-speech", available: false},
		&fakeProvider{name: "openai-whisper", available: true},
	}
	chains := Build(testConfig(), providers, &fakeRunner{}, log)

	audio, ok := chains.For(types.CategoryAudio)
	require.True(t, ok)
	assert.Equal(t, []string{"openai-whisper", "placeholder"}, audio.Names())

	video, _ := chains.For(types.CategoryVideo)
	assert.Equal(t, audio.Names(), video.Names())

	img, _ := chains.For(types.CategoryImage)
	assert.Equal(t, []string{"tesseract-ocr"}, img.Names())

	pdf, _ := chains.For(types.CategoryPDF)
	assert.Equal(t, []string{"pdf-text"}, pdf.Names())

	doc, _ := chains.For(types.CategoryDocument)
	assert.Equal(t, []string{"document-text"}, doc.Names())

	_, ok = chains.For(types.CategoryUnknown)
	assert.False(t, ok)

	all := chains.Strategies()
	assert.Len(t, all, 5)
	assert.Equal(t, []string{"openai-whisper", "placeholder"}, all["audio"])
}

func TestBuild_NoProvidersStillTranscribesAudio(t *testing.T) {
	log, _ := nullLog()
	chains := Build(testConfig(), nil, &fakeRunner{missing: map[string]bool{"tesseract": true}}, log)

	audio, _ := chains.For(types.CategoryAudio)
	out, err := audio.Run(context.Background(), "/uploads/call.wav")
	require.NoError(t, err)
	assert.True(t, out.Placeholder)

	img, _ := chains.For(types.CategoryImage)
	assert.Empty(t, img.Names())
	_, err = img.Run(context.Background(), "/uploads/chat.jpg")
	assert.ErrorIs(t, err, types.ErrAllStrategiesExhausted)
}
