package runner

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner lets us stub external commands (ffmpeg, tesseract) in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
	LookPath(name string) (string, error)
}

type Exec struct {
	log *logrus.Entry
}

func NewExec(log *logrus.Entry) *Exec {
	return &Exec{log: log.WithField("component", "exec")}
}

func (e *Exec) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()
	e.log.WithField("cmd_line", strings.Join(append([]string{name}, args...), " ")).Debug("running command")

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	fields := logrus.Fields{"cmd": name, "duration_ms": time.Since(start).Milliseconds()}
	if err != nil {
		e.log.WithFields(fields).WithError(err).
			WithField("stderr", Truncate(errb.String(), 8<<10)).
			Warn("exec failed")
	} else {
		e.log.WithFields(fields).WithField("stdout_bytes", out.Len()).Debug("exec ok")
	}
	return out.Bytes(), errb.Bytes(), err
}

func (e *Exec) LookPath(name string) (string, error) { return exec.LookPath(name) }

// Truncate caps s at max bytes.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
