package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-auditor-go/internal/config"
	"call-auditor-go/internal/logger"
	"call-auditor-go/internal/types"
)

type fakeService struct {
	submitted []string
	submitErr error
	jobs      map[string]types.Job
	results   map[string]types.AuditResult
	lookupErr error
}

func (f *fakeService) Submit(_ context.Context, path, filename string) (types.Job, error) {
	if f.submitErr != nil {
		return types.Job{}, f.submitErr
	}
	f.submitted = append(f.submitted, path)
	return types.Job{ID: "job-1", Status: types.StatusUploaded, Message: "File uploaded successfully. Processing started."}, nil
}

func (f *fakeService) Status(_ context.Context, id string) (types.Job, error) {
	if f.lookupErr != nil {
		return types.Job{}, f.lookupErr
	}
	j, ok := f.jobs[id]
	if !ok {
		return types.Job{}, types.ErrNotFound
	}
	return j, nil
}

func (f *fakeService) Results(_ context.Context, id string) (types.AuditResult, bool, error) {
	if f.lookupErr != nil {
		return types.AuditResult{}, false, f.lookupErr
	}
	r, ok := f.results[id]
	return r, ok, nil
}

func newTestServer(t *testing.T, svc Service) (*httptest.Server, string) {
	t.Helper()
	l, _ := test.NewNullLogger()
	dir := filepath.Join(t.TempDir(), "uploads")
	upload := config.UploadConfig{Dir: dir, MaxFileSizeMB: 1, AllowedExtensions: []string{".mp3", ".txt", ".pdf"}}
	health := Health{Analyzer: "heuristic", Store: "memory", Strategies: map[string][]string{"audio": {"placeholder"}}}
	s := NewServer(svc, upload, health, logger.FromLogrus(l))
	s.newID = func() string { return "fixed" }
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts, dir
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decode(t *testing.T, r io.Reader, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

func TestUpload_Accepted(t *testing.T) {
	svc := &fakeService{}
	ts, dir := newTestServer(t, svc)

	body, ct := multipartBody(t, "file", "Call.MP3", []byte("ID3 audio bytes"))
	resp, err := http.Post(ts.URL+"/api/v1/upload", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out UploadResponse
	decode(t, resp.Body, &out)
	assert.Equal(t, "job-1", out.JobID)
	assert.Equal(t, "Call.MP3", out.Filename)
	assert.Equal(t, types.StatusUploaded, out.Status)

	require.Len(t, svc.submitted, 1)
	assert.Equal(t, filepath.Join(dir, "fixed.mp3"), svc.submitted[0])
	saved, err := os.ReadFile(svc.submitted[0])
	require.NoError(t, err)
	assert.Equal(t, "ID3 audio bytes", string(saved))
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		filename string
		size     int
		want     int
		detail   string
	}{
		{"unsupported extension", "file", "archive.zip", 10, http.StatusBadRequest, "Unsupported file type"},
		{"wrong field", "upload", "call.mp3", 10, http.StatusBadRequest, "\"file\" is required"},
		{"too large", "file", "call.mp3", (1 << 20) + 512<<10, http.StatusRequestEntityTooLarge, "Maximum size: 1MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			ts, _ := newTestServer(t, svc)
			body, ct := multipartBody(t, tt.field, tt.filename, bytes.Repeat([]byte("a"), tt.size))
			resp, err := http.Post(ts.URL+"/api/v1/upload", ct, body)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.want, resp.StatusCode)
			var e errorReply
			decode(t, resp.Body, &e)
			assert.Contains(t, e.Detail, tt.detail)
			assert.Empty(t, svc.submitted)
		})
	}
}

func TestUpload_SubmitFailure(t *testing.T) {
	ts, dir := newTestServer(t, &fakeService{submitErr: errors.New("job queue is shutting down")})
	body, ct := multipartBody(t, "file", "notes.txt", []byte("hello"))
	resp, err := http.Post(ts.URL+"/api/v1/upload", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	_, err = os.Stat(filepath.Join(dir, "fixed.txt"))
	assert.True(t, os.IsNotExist(err), "rejected upload must not stay on disk")
}

func TestStatus(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{jobs: map[string]types.Job{
		"job-1": {ID: "job-1", Status: types.StatusAnalyzing, Progress: 70, Message: "Analyzing conversation...", CreatedAt: now, UpdatedAt: now},
	}}
	ts, _ := newTestServer(t, svc)

	resp, err := http.Get(ts.URL + "/api/v1/status/job-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var job types.Job
	decode(t, resp.Body, &job)
	assert.Equal(t, types.StatusAnalyzing, job.Status)
	assert.Equal(t, 70, job.Progress)

	resp2, err := http.Get(ts.URL + "/api/v1/status/missing")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
	var e errorReply
	decode(t, resp2.Body, &e)
	assert.Equal(t, "Job not found: missing", e.Detail)
}

func TestResults(t *testing.T) {
	svc := &fakeService{results: map[string]types.AuditResult{
		"job-1": {JobID: "job-1", Filename: "call.mp3", Transcript: "hello"},
	}}
	ts, _ := newTestServer(t, svc)

	resp, err := http.Get(ts.URL + "/api/v1/results/job-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res types.AuditResult
	decode(t, resp.Body, &res)
	assert.Equal(t, "hello", res.Transcript)

	resp2, err := http.Get(ts.URL + "/api/v1/results/job-2")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestLookupErrors(t *testing.T) {
	ts, _ := newTestServer(t, &fakeService{lookupErr: errors.New("redis: connection refused")})
	for _, path := range []string{"/api/v1/status/x", "/api/v1/results/x"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t, &fakeService{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var h map[string]interface{}
	decode(t, resp.Body, &h)
	assert.Equal(t, "healthy", h["status"])
	assert.Equal(t, "heuristic", h["analyzer"])
	assert.Equal(t, "memory", h["store"])

	m, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer m.Body.Close()
	assert.Equal(t, http.StatusOK, m.StatusCode)
}
