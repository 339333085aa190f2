package transcription

import (
	"context"
	"fmt"
	"os"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/types"
)

// recognizer is the slice of the Speech-to-Text client we use.
type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)
	Close() error
}

type speechClient struct{ c *speech.Client }

func (s speechClient) Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	return s.c.Recognize(ctx, req)
}

func (s speechClient) Close() error { return s.c.Close() }

// Google transcribes 16 kHz LINEAR16 audio with Google Cloud Speech-to-Text.
type Google struct {
	rec recognizer
	log *logrus.Entry
}

// NewGoogle dials the Speech API using application default credentials. When
// enabled is false or the client cannot be created the provider reports
// itself unavailable.
func NewGoogle(ctx context.Context, enabled bool, log *logrus.Entry) *Google {
	g := &Google{log: log.WithField("provider", "google")}
	if !enabled {
		return g
	}
	c, err := speech.NewClient(ctx)
	if err != nil {
		g.log.WithError(err).Warn("google speech client unavailable")
		return g
	}
	g.rec = speechClient{c: c}
	return g
}

func (g *Google) Name() string { return "google-speech" }

func (g *Google) Available() bool { return g.rec != nil }

// NeedsNormalization is always true: the request declares LINEAR16 at 16 kHz.
func (g *Google) NeedsNormalization(string) bool { return true }

func (g *Google) Transcribe(ctx context.Context, path string, opts types.SpeechOptions) (string, error) {
	if g.rec == nil {
		return "", fmt.Errorf("google speech not configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	resp, err := g.rec.Recognize(ctx, recognizeRequest(data, opts))
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	parts := make([]string, 0, len(resp.GetResults()))
	for _, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}

func recognizeRequest(data []byte, opts types.SpeechOptions) *speechpb.RecognizeRequest {
	lang := opts.Language
	if lang == "" || lang == "auto" {
		lang = "en-US"
	}
	cfg := &speechpb.RecognitionConfig{
		Encoding:                   speechpb.RecognitionConfig_LINEAR16,
		SampleRateHertz:            SampleRate,
		AudioChannelCount:          Channels,
		LanguageCode:               lang,
		EnableAutomaticPunctuation: true,
	}
	if opts.Diarize {
		n := int32(opts.SpeakerCount)
		if n < 1 {
			n = 2
		}
		cfg.DiarizationConfig = &speechpb.SpeakerDiarizationConfig{
			EnableSpeakerDiarization: true,
			MinSpeakerCount:          n,
			MaxSpeakerCount:          n,
		}
	}
	return &speechpb.RecognizeRequest{
		Config: cfg,
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{Content: data}},
	}
}

func (g *Google) Close() error {
	if g.rec == nil {
		return nil
	}
	return g.rec.Close()
}
