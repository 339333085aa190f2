package processor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcRunner func(ctx context.Context, path, jobID, filename string) error

func (f funcRunner) Process(ctx context.Context, path, jobID, filename string) error {
	return f(ctx, path, jobID, filename)
}

func nullLog() (*logrus.Entry, *test.Hook) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	return l.WithField("test", true), hook
}

func TestQueue_RunsEveryTask(t *testing.T) {
	log, _ := nullLog()
	var mu sync.Mutex
	seen := map[string]string{}
	q := NewQueue(funcRunner(func(_ context.Context, path, jobID, _ string) error {
		mu.Lock()
		seen[jobID] = path
		mu.Unlock()
		return nil
	}), log, WithWorkers(3), WithQueueSize(2))

	for i, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, q.Enqueue(context.Background(), Task{JobID: id, Path: string(rune('0' + i))}))
	}
	require.NoError(t, q.Shutdown(context.Background()))

	assert.Len(t, seen, 5)
	assert.Equal(t, "4", seen["e"])
}

func TestQueue_ErrorsAndPanicsDoNotStopWorkers(t *testing.T) {
	log, hook := nullLog()
	var done atomic.Int32
	q := NewQueue(funcRunner(func(_ context.Context, _, jobID, _ string) error {
		defer done.Add(1)
		switch jobID {
		case "boom":
			panic("unexpected")
		case "bad":
			return errors.New("all extraction strategies exhausted")
		}
		return nil
	}), log, WithWorkers(1))

	for _, id := range []string{"boom", "bad", "ok"} {
		require.NoError(t, q.Enqueue(context.Background(), Task{JobID: id}))
	}
	require.NoError(t, q.Shutdown(context.Background()))
	assert.Equal(t, int32(3), done.Load())

	var msgs []string
	for _, e := range hook.AllEntries() {
		msgs = append(msgs, e.Message)
	}
	assert.Contains(t, msgs, "worker recovered from panic")
	assert.Contains(t, msgs, "processing failed")
	assert.Contains(t, msgs, "processed file successfully")
}

func TestQueue_EnqueueAfterShutdown(t *testing.T) {
	log, _ := nullLog()
	q := NewQueue(funcRunner(func(context.Context, string, string, string) error { return nil }), log)
	require.NoError(t, q.Shutdown(context.Background()))
	require.NoError(t, q.Shutdown(context.Background()))

	err := q.Enqueue(context.Background(), Task{JobID: "late"})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueue_BackpressureHonoursContext(t *testing.T) {
	log, _ := nullLog()
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	q := NewQueue(funcRunner(func(context.Context, string, string, string) error {
		started <- struct{}{}
		<-release
		return nil
	}), log, WithWorkers(1), WithQueueSize(1))

	require.NoError(t, q.Enqueue(context.Background(), Task{JobID: "running"}))
	<-started
	require.NoError(t, q.Enqueue(context.Background(), Task{JobID: "buffered"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, Task{JobID: "blocked"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, q.Shutdown(context.Background()))
}

func TestQueue_ShutdownInterrupted(t *testing.T) {
	log, _ := nullLog()
	release := make(chan struct{})
	started := make(chan struct{})
	q := NewQueue(funcRunner(func(context.Context, string, string, string) error {
		close(started)
		<-release
		return nil
	}), log, WithWorkers(1))
	require.NoError(t, q.Enqueue(context.Background(), Task{JobID: "slow"}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Shutdown(ctx), context.DeadlineExceeded)
	close(release)
}
