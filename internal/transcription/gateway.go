package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"call-auditor-go/internal/types"
)

// Gateway talks to an asynchronous transcription service:
// POST /transcribe, poll GET /getstatus, then download the text.
type Gateway struct {
	host         string
	client       *http.Client
	pollInterval time.Duration
	pollAttempts int
	maxRetryTime time.Duration
	log          *logrus.Entry
}

// DefaultPollInterval is used when a non-positive interval is configured.
const DefaultPollInterval = 1500 * time.Millisecond

func NewGateway(host string, timeout, pollInterval time.Duration, pollAttempts int, log *logrus.Entry) *Gateway {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Gateway{
		host:         strings.TrimRight(host, "/"),
		client:       &http.Client{Timeout: timeout},
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
		maxRetryTime: 12 * time.Second,
		log:          log.WithField("provider", "gateway"),
	}
}

type publishResponse struct {
	Code   int    `json:"Code"`
	Status string `json:"Status"`
	Data   struct {
		MediaID          string `json:"MediaId"`
		Status           string `json:"Status"`
		TranscriptionURL string `json:"TranscriptionURL"`
	} `json:"Data"`
	Reason string `json:"Reason,omitempty"`
}

type statusResponse struct {
	Code int `json:"Code"`
	Data struct {
		Status               string `json:"Status"` // Success, Queued, Processing, Failed
		TranscriptionTextURL string `json:"TranscriptionTextURL"`
	} `json:"Data"`
	Reason string `json:"Reason,omitempty"`
}

func (g *Gateway) Name() string { return "transcription-gateway" }

func (g *Gateway) Available() bool { return g.host != "" }

func (g *Gateway) NeedsNormalization(string) bool { return false }

func (g *Gateway) Transcribe(ctx context.Context, path string, opts types.SpeechOptions) (string, error) {
	log := g.log.WithField("file", filepath.Base(path))

	mediaID, existingURL, err := g.publish(ctx, path, opts)
	if err != nil {
		return "", err
	}
	if existingURL != "" {
		log.WithField("existing_url", existingURL).Info("transcription already exists, downloading text")
		return g.download(ctx, existingURL)
	}

	finalURL, err := g.poll(ctx, mediaID)
	if err != nil {
		return "", err
	}
	log.WithField("final_url", finalURL).Info("transcription completed, downloading text")
	return g.download(ctx, finalURL)
}

func (g *Gateway) publish(ctx context.Context, path string, opts types.SpeechOptions) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read audio: %w", err)
	}
	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	fw, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", "", err
	}
	_ = w.WriteField("callType", "C2C")
	if opts.Language != "" {
		_ = w.WriteField("language", opts.Language)
	}
	_ = w.Close()
	body, contentType := b.Bytes(), w.FormDataContentType()

	newReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.host+"/transcribe", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}

	var resp publishResponse
	if err := g.doJSON(ctx, newReq, &resp); err != nil {
		return "", "", fmt.Errorf("transcribe publish failed: %w", err)
	}
	if resp.Code != http.StatusOK {
		return "", "", fmt.Errorf("transcribe publish error: code=%d reason=%s", resp.Code, resp.Reason)
	}
	if resp.Data.TranscriptionURL != "" && strings.EqualFold(strings.TrimSpace(resp.Data.Status), "success") {
		return "", resp.Data.TranscriptionURL, nil
	}
	if resp.Data.MediaID == "" {
		return "", "", fmt.Errorf("transcribe publish returned no media id")
	}
	return resp.Data.MediaID, "", nil
}

func (g *Gateway) poll(ctx context.Context, mediaID string) (string, error) {
	u, err := url.Parse(g.host + "/getstatus")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("mediaId", mediaID)
	u.RawQuery = q.Encode()
	statusURL := u.String()

	newReq := func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	}

	t := time.NewTicker(g.pollInterval)
	defer t.Stop()
	for i := 0; i < g.pollAttempts; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}

		var s statusResponse
		if err := g.doJSON(ctx, newReq, &s); err != nil {
			g.log.WithError(err).Warn("polling failed")
			continue
		}
		g.log.WithFields(logrus.Fields{"media_id": mediaID, "status": s.Data.Status}).Debug("polling transcription")

		switch s.Data.Status {
		case "Success":
			return s.Data.TranscriptionTextURL, nil
		case "Failed":
			return "", fmt.Errorf("transcription failed: %s", s.Reason)
		}
	}
	return "", fmt.Errorf("timeout: transcription did not complete after %d polls", g.pollAttempts)
}

func (g *Gateway) download(ctx context.Context, textURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, textURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to download transcript: %s", b)
	}
	return strings.TrimSpace(string(b)), nil
}

// doJSON retries 5xx and transport errors; the request is rebuilt on every try.
func (g *Gateway) doJSON(ctx context.Context, newReq func() (*http.Request, error), target any) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = g.maxRetryTime

	var lastErr error
	op := func() error {
		req, err := newReq()
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := g.client.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", body)
			return lastErr
		}
		if len(body) == 0 {
			lastErr = fmt.Errorf("empty body")
			return lastErr
		}
		if err := json.Unmarshal(body, target); err != nil {
			lastErr = fmt.Errorf("json decode error: %v body=%s", err, body)
			return backoff.Permanent(lastErr)
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return lastErr
	}
	return nil
}
