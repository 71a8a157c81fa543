package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazar/pkg/queue"
)

var handled atomic.Int32

type countJob struct {
	Value string `json:"value"`
}

func (countJob) Name() string { return "test.count" }

func (j *countJob) Handle(context.Context) error {
	if j.Value == "" {
		return errors.New("empty payload")
	}
	handled.Add(1)
	return nil
}

type failJob struct{}

func (failJob) Name() string                  { return "test.fail" }
func (*failJob) Handle(context.Context) error { return errors.New("always fails") }

type recordingStore struct{ saved []queue.FailedJob }

func (s *recordingStore) Save(_ context.Context, f queue.FailedJob) error {
	s.saved = append(s.saved, f)
	return nil
}

func newManager() (*queue.Manager, *queue.MemoryDriver) {
	d := queue.NewMemoryDriver(10)
	m := queue.New(d)
	m.SetRetry(2, func(int) time.Duration { return 0 })
	m.Register("test.count", func() queue.Job { return &countJob{} })
	m.Register("test.fail", func() queue.Job { return &failJob{} })
	return m, d
}

func TestDispatchThenProcess(t *testing.T) {
	m, d := newManager()
	before := handled.Load()

	require.NoError(t, m.Dispatch(context.Background(), &countJob{Value: "x"}))
	assert.Equal(t, 1, d.Len())

	raw, err := d.Pop(context.Background())
	require.NoError(t, err)
	m.Process(context.Background(), raw)

	assert.Equal(t, before+1, handled.Load())
	assert.Empty(t, m.FailedJobs())
}

func TestFailingJobIsRetriedThenRecorded(t *testing.T) {
	m, d := newManager()
	store := &recordingStore{}
	m.UseStore(store)

	require.NoError(t, m.Dispatch(context.Background(), &failJob{}))
	raw, err := d.Pop(context.Background())
	require.NoError(t, err)
	m.Process(context.Background(), raw)

	failed := m.FailedJobs()
	require.Len(t, failed, 1)
	assert.Equal(t, "test.fail", failed[0].Type)
	assert.Equal(t, 2, failed[0].Attempts)
	assert.EqualError(t, failed[0].Err, "always fails")
	assert.Len(t, store.saved, 1)
}

func TestUnregisteredTypeFails(t *testing.T) {
	m := queue.New(queue.NewMemoryDriver(1))
	m.Process(context.Background(), []byte(`{"type":"nope","payload":{}}`))

	require.Len(t, m.FailedJobs(), 1)
	assert.Equal(t, "nope", m.FailedJobs()[0].Type)
}

func TestWorkStopsWithContext(t *testing.T) {
	m, _ := newManager()
	before := handled.Load()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Work(ctx, 2)
		close(done)
	}()

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Dispatch(ctx, &countJob{Value: "w"}))
	}
	assert.Eventually(t, func() bool { return handled.Load() == before+3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}
}
