package transcription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-auditor-go/internal/types"
)

func newTestGateway(url string) *Gateway {
	g := NewGateway(url, 5*time.Second, time.Millisecond, 5, testLog())
	g.maxRetryTime = time.Second
	return g
}

func TestGateway_PublishPollDownload(t *testing.T) {
	var polls int32
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/transcribe", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "C2C", r.FormValue("callType"))
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "call.mp3", hdr.Filename)
		_, _ = w.Write([]byte(`{"Code":200,"Status":"OK","Data":{"MediaId":"m-1","Status":"Queued"}}`))
	})
	mux.HandleFunc("/getstatus", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "m-1", r.URL.Query().Get("mediaId"))
		if atomic.AddInt32(&polls, 1) < 3 {
			_, _ = w.Write([]byte(`{"Code":200,"Data":{"Status":"Processing"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"Code":200,"Data":{"Status":"Success","TranscriptionTextURL":"` + srv.URL + `/text/m-1"}}`))
	})
	mux.HandleFunc("/text/m-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Agent: hello\nCustomer: hi\n"))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	text, err := newTestGateway(srv.URL).Transcribe(context.Background(), tempFile(t, "call.mp3", []byte("mp3")), types.SpeechOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Agent: hello\nCustomer: hi", text)
	assert.EqualValues(t, 3, atomic.LoadInt32(&polls))
}

func TestGateway_ExistingTranscript(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/transcribe", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Code":200,"Data":{"Status":"Success","TranscriptionURL":"` + srv.URL + `/done"}}`))
	})
	mux.HandleFunc("/getstatus", func(w http.ResponseWriter, r *http.Request) {
		t.Error("should not poll when transcript already exists")
	})
	mux.HandleFunc("/done", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("cached text"))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	text, err := newTestGateway(srv.URL).Transcribe(context.Background(), tempFile(t, "a.wav", []byte("x")), types.SpeechOptions{})
	require.NoError(t, err)
	assert.Equal(t, "cached text", text)
}

func TestGateway_FailedAndTimeout(t *testing.T) {
	status := `{"Code":200,"Data":{"Status":"Failed"},"Reason":"unsupported codec"}`
	mux := http.NewServeMux()
	mux.HandleFunc("/transcribe", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Code":200,"Data":{"MediaId":"m-2","Status":"Queued"}}`))
	})
	mux.HandleFunc("/getstatus", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(status))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := newTestGateway(srv.URL)
	_, err := g.Transcribe(context.Background(), tempFile(t, "a.wav", []byte("x")), types.SpeechOptions{})
	assert.ErrorContains(t, err, "unsupported codec")

	status = `{"Code":200,"Data":{"Status":"Queued"}}`
	_, err = g.Transcribe(context.Background(), tempFile(t, "a.wav", []byte("x")), types.SpeechOptions{})
	assert.ErrorContains(t, err, "did not complete after 5 polls")
}

func TestGateway_PublishRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Code":400,"Reason":"bad file"}`))
	}))
	defer srv.Close()

	_, err := newTestGateway(srv.URL).Transcribe(context.Background(), tempFile(t, "a.wav", []byte("x")), types.SpeechOptions{})
	assert.ErrorContains(t, err, "code=400 reason=bad file")
}

func TestGateway_Available(t *testing.T) {
	assert.False(t, NewGateway("", time.Second, time.Second, 1, testLog()).Available())
	assert.True(t, newTestGateway("http://gw").Available())
}

func TestNewGateway_NonPositivePollInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		g := NewGateway("http://gw", time.Second, d, 1, testLog())
		assert.Equal(t, DefaultPollInterval, g.pollInterval)
	}
	assert.Equal(t, 20*time.Millisecond, NewGateway("http://gw", time.Second, 20*time.Millisecond, 1, testLog()).pollInterval)
}
