package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/aceshigh/internal/logging"
)

// syncBuffer guards a buffer written by task goroutines
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSchedulerRunsTasks(t *testing.T) {
	logs := &syncBuffer{}
	s := NewScheduler(logging.NewLoggerWithWriter(logging.DEBUG, logs))

	var calls int32
	s.AddTask("tick", 5*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	s.Start(context.Background())
	assert.True(t, s.Running())
	s.Start(context.Background()) // second start is a no-op

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 3 }, time.Second, time.Millisecond)

	s.Stop()
	assert.False(t, s.Running())
	after := atomic.LoadInt32(&calls)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&calls), "No task runs after Stop returns")

	assert.Contains(t, logs.String(), "Running task tick immediately on startup")
	assert.Contains(t, logs.String(), "Task tick stopped")
}

func TestSchedulerLogsTaskErrors(t *testing.T) {
	logs := &syncBuffer{}
	s := NewScheduler(logging.NewLoggerWithWriter(logging.ERROR, logs))

	done := make(chan struct{})
	var once sync.Once
	s.AddTask("broken", time.Hour, func(ctx context.Context) error {
		once.Do(func() { close(done) })
		return errors.New("boom")
	})

	s.Start(context.Background())
	<-done
	s.Stop()

	assert.Contains(t, logs.String(), "Error running task broken: boom")
}

func TestSchedulerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(logging.NewLoggerWithWriter(logging.ERROR, &syncBuffer{}))

	stopped := make(chan struct{})
	s.AddTask("wait", time.Hour, func(taskCtx context.Context) error {
		go func() {
			<-taskCtx.Done()
			close(stopped)
		}()
		return nil
	})

	s.Start(ctx)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("task context was not cancelled")
	}
	s.Stop()
}

type fakeIndexer struct {
	calls int32
	err   error
}

func (f *fakeIndexer) SyncRuns(ctx context.Context, limit int) (int, error) {
	atomic.AddInt32(&f.calls, 1)
	return limit, f.err
}

func TestElasticsearchMaintenanceScheduler(t *testing.T) {
	logs := &syncBuffer{}
	indexer := &fakeIndexer{}
	s := NewElasticsearchMaintenanceScheduler(indexer, 5*time.Millisecond, logging.NewLoggerWithWriter(logging.DEBUG, logs))

	s.Start(context.Background())
	require.Eventually(t, func() bool { return atomic.LoadInt32(&indexer.calls) >= 2 }, time.Second, time.Millisecond)
	s.Stop()

	assert.Contains(t, logs.String(), "Re-indexed 100 runs")
	assert.Contains(t, logs.String(), "Elasticsearch maintenance scheduler stopped")
}
