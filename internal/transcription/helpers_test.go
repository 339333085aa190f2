package transcription

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// fakeRunner records calls; when write is set it creates the last argument as
// a file, imitating ffmpeg's output.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []call
	write   []byte
	stderr  []byte
	err     error
	missing map[string]bool
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: args})
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.stderr, f.err
	}
	if f.write != nil && len(args) > 0 {
		if err := os.WriteFile(args[len(args)-1], f.write, 0o600); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", errors.New("not found")
	}
	return "/usr/bin/" + name, nil
}

func testLog() *logrus.Entry {
	l, _ := test.NewNullLogger()
	return l.WithField("test", true)
}

func tempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}
