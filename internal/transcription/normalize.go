package transcription

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/runner"
)

const (
	SampleRate = 16000
	Channels   = 1
)

// Normalizer re-encodes media into 16 kHz mono 16-bit PCM WAV with ffmpeg.
type Normalizer struct {
	runner runner.Runner
	bin    string
	log    *logrus.Entry
}

func NewNormalizer(r runner.Runner, ffmpegPath string, log *logrus.Entry) *Normalizer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Normalizer{runner: r, bin: ffmpegPath, log: log.WithField("component", "normalizer")}
}

func (n *Normalizer) Available() bool {
	_, err := n.runner.LookPath(n.bin)
	return err == nil
}

// Normalize writes a WAV into a fresh temp dir; cleanup removes it.
func (n *Normalizer) Normalize(ctx context.Context, in string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "normalize-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	out := filepath.Join(dir, "normalized.wav")
	if _, stderr, err := n.runner.Run(ctx, n.bin, ffmpegArgs(in, out)...); err != nil {
		cleanup()
		msg := strings.TrimSpace(runner.Truncate(string(stderr), 512))
		if msg != "" {
			return "", nil, fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return "", nil, fmt.Errorf("ffmpeg: %w", err)
	}
	if st, err := os.Stat(out); err != nil || st.Size() == 0 {
		cleanup()
		return "", nil, fmt.Errorf("ffmpeg produced no output")
	}
	n.log.WithField("input", filepath.Base(in)).Debug("normalized audio")
	return out, cleanup, nil
}

func ffmpegArgs(in, out string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", in,
		"-vn",
		"-ac", fmt.Sprint(Channels),
		"-ar", fmt.Sprint(SampleRate),
		"-c:a", "pcm_s16le",
		out,
	}
}
