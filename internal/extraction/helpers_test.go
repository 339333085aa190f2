package extraction

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type fakeStrategy struct {
	name      string
	available bool
	text      string
	err       error
	panicWith string
	calls     int
}

func (f *fakeStrategy) Name() string    { return f.name }
func (f *fakeStrategy) Available() bool { return f.available }
func (f *fakeStrategy) Extract(context.Context, string) (string, error) {
	f.calls++
	if f.panicWith != "" {
		panic(f.panicWith)
	}
	return f.text, f.err
}

type fakeRunner struct {
	args    []string
	stdout  []byte
	stderr  []byte
	err     error
	missing map[string]bool
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	f.args = args
	return f.stdout, f.stderr, f.err
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

func nullLog() (*logrus.Entry, *test.Hook) {
	l, hook := test.NewNullLogger()
	return l.WithField("test", true), hook
}

func tempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}
