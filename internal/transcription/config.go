package transcription

import (
	"context"

	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/config"
)

// FromConfig builds speech providers in the configured order. Providers that
// lack credentials are still returned; chains drop them at build time.
func FromConfig(ctx context.Context, cfg config.SpeechConfig, log *logrus.Entry) []Provider {
	var out []Provider
	for _, name := range cfg.Providers {
		switch name {
		case "google":
			out = append(out, NewGoogle(ctx, cfg.GoogleEnabled, log))
		case "whisper":
			out = append(out, NewWhisper(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.WhisperModel, cfg.HTTPTimeout, log))
		case "gateway":
			out = append(out, NewGateway(cfg.GatewayURL, cfg.HTTPTimeout, cfg.PollInterval, cfg.PollAttempts, log))
		default:
			log.WithField("provider", name).Warn("unknown speech provider ignored")
		}
	}
	return out
}
