package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/types"
)

// WhisperMaxUpload is the largest file the transcription endpoint accepts
// without re-encoding first.
const WhisperMaxUpload = 25 << 20

// Whisper calls the OpenAI audio transcription endpoint.
type Whisper struct {
	apiKey       string
	baseURL      string
	model        string
	client       *http.Client
	maxRetryTime time.Duration
	log          *logrus.Entry
}

func NewWhisper(apiKey, baseURL, model string, timeout time.Duration, log *logrus.Entry) *Whisper {
	if model == "" {
		model = "whisper-1"
	}
	return &Whisper{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		model:        model,
		client:       &http.Client{Timeout: timeout},
		maxRetryTime: 30 * time.Second,
		log:          log.WithField("provider", "whisper"),
	}
}

func (w *Whisper) Name() string { return "openai-whisper" }

func (w *Whisper) Available() bool { return w.apiKey != "" }

func (w *Whisper) NeedsNormalization(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Size() > WhisperMaxUpload
}

type whisperResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (w *Whisper) Transcribe(ctx context.Context, path string, opts types.SpeechOptions) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}
	body, contentType, err := whisperForm(filepath.Base(path), data, w.model, whisperLanguage(opts.Language))
	if err != nil {
		return "", err
	}

	var out whisperResponse
	var lastErr error
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/audio/transcriptions", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
		req.Header.Set("Content-Type", contentType)

		resp, err := w.client.Do(req)
		if err != nil {
			lastErr = err
			w.log.WithError(err).Warn("whisper request failed")
			return err
		}
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("whisper server error %d: %s", resp.StatusCode, raw)
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("whisper rejected request %d: %s", resp.StatusCode, raw)
			return backoff.Permanent(lastErr)
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			lastErr = fmt.Errorf("json decode error: %v body=%s", err, raw)
			return backoff.Permanent(lastErr)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = w.maxRetryTime
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return "", lastErr
	}
	return strings.TrimSpace(out.Text), nil
}

func whisperForm(filename string, data []byte, model, language string) ([]byte, string, error) {
	var b bytes.Buffer
	mw := multipart.NewWriter(&b)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, "", err
	}
	_ = mw.WriteField("model", model)
	_ = mw.WriteField("response_format", "json")
	if language != "" {
		_ = mw.WriteField("language", language)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return b.Bytes(), mw.FormDataContentType(), nil
}

// whisperLanguage turns a BCP-47 tag like "en-US" into the ISO-639-1 code the
// endpoint expects. "auto" means no hint.
func whisperLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || strings.EqualFold(tag, "auto") {
		return ""
	}
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}
