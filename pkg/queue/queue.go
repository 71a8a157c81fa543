// Package queue runs background jobs through a pluggable driver.
//
//	type ResizeJob struct{ MediumID uint }
//	func (ResizeJob) Name() string { return "media.resize" }
//	func (j ResizeJob) Handle(ctx context.Context) error { ... }
//
//	queue.Register("media.resize", func() queue.Job { return &ResizeJob{} })
//	queue.Dispatch(ctx, ResizeJob{MediumID: 1})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/bazar/pkg/logger"
	"github.com/shashiranjanraj/bazar/pkg/metrics"
)

// Job is a unit of background work. Jobs are JSON encoded on dispatch, so
// their exported fields are the payload.
type Job interface {
	Name() string
	Handle(ctx context.Context) error
}

// Driver stores encoded jobs.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks for the next job. A nil payload with a nil error means
	// nothing arrived in time.
	Pop(ctx context.Context) ([]byte, error)
}

// FailedJob is a job that exhausted its attempts.
type FailedJob struct {
	Type     string
	Payload  json.RawMessage
	Err      error
	FailedAt time.Time
	Attempts int
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager dispatches and processes jobs.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxTries int
	backoff  func(attempt int) time.Duration
	store    FailedStore
}

// New returns a manager over d that tries each job three times.
func New(d Driver) *Manager {
	return &Manager{
		driver:   d,
		registry: map[string]func() Job{},
		maxTries: 3,
		backoff:  func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	}
}

var defaultManager = New(NewMemoryDriver(1000))

// Default returns the process-wide manager.
func Default() *Manager { return defaultManager }

// SetDriver swaps the default manager's driver.
func SetDriver(d Driver) { defaultManager.SetDriver(d) }

// Register makes a job type known to the default manager.
func Register(name string, factory func() Job) { defaultManager.Register(name, factory) }

// Dispatch queues job on the default manager.
func Dispatch(ctx context.Context, job Job) error { return defaultManager.Dispatch(ctx, job) }

func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.driver = d
}

// SetRetry configures attempts per job and the wait before each retry.
func (m *Manager) SetRetry(tries int, backoff func(attempt int) time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tries > 0 {
		m.maxTries = tries
	}
	if backoff != nil {
		m.backoff = backoff
	}
}

// UseStore persists failed jobs to s in addition to memory.
func (m *Manager) UseStore(s FailedStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = s
}

func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[name] = factory
}

// Dispatch encodes job and pushes it to the driver.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", job.Name(), err)
	}
	raw, err := json.Marshal(envelope{Type: job.Name(), Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()
	if err := d.Push(ctx, raw); err != nil {
		return fmt.Errorf("queue: push %s: %w", job.Name(), err)
	}
	return nil
}

// Work runs n workers until ctx is cancelled and they have returned.
func (m *Manager) Work(ctx context.Context, n int) {
	if n <= 0 {
		n = 1
	}
	logger.WithCtx(ctx).Info("queue: workers started", "count", n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.work(ctx)
		}()
	}
	wg.Wait()
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.WithCtx(ctx).Error("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw != nil {
			m.Process(ctx, raw)
		}
	}
}

// Process decodes one encoded job and runs it with retries.
func (m *Manager) Process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.WithCtx(ctx).Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.WithCtx(ctx).Warn("queue: unregistered job type", "type", env.Type)
		m.fail(ctx, env, fmt.Errorf("queue: unregistered job type %q", env.Type), 0)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		m.fail(ctx, env, fmt.Errorf("queue: unmarshal %s: %w", env.Type, err), 0)
		return
	}
	m.run(ctx, job, env)
}

func (m *Manager) run(ctx context.Context, job Job, env envelope) {
	m.mu.RLock()
	tries, backoff := m.maxTries, m.backoff
	m.mu.RUnlock()

	var lastErr error
	for attempt := 1; attempt <= tries; attempt++ {
		start := time.Now()
		err := job.Handle(ctx)
		if err == nil {
			metrics.RecordQueueJob(env.Type, "success", start)
			logger.WithCtx(ctx).Info("queue: job processed", "type", env.Type, "attempt", attempt)
			return
		}
		lastErr = err
		metrics.RecordQueueJob(env.Type, "error", start)
		logger.WithCtx(ctx).Warn("queue: job failed", "type", env.Type, "attempt", attempt, "error", err)
		if attempt < tries && !sleep(ctx, backoff(attempt)) {
			break
		}
	}
	m.fail(ctx, env, lastErr, tries)
}

func (m *Manager) fail(ctx context.Context, env envelope, err error, attempts int) {
	f := FailedJob{Type: env.Type, Payload: env.Payload, Err: err, FailedAt: time.Now(), Attempts: attempts}

	m.mu.Lock()
	m.failed = append(m.failed, f)
	store := m.store
	m.mu.Unlock()

	logger.WithCtx(ctx).Error("queue: job failed permanently", "type", env.Type, "error", err)
	if store != nil {
		if serr := store.Save(context.WithoutCancel(ctx), f); serr != nil {
			logger.WithCtx(ctx).Error("queue: persist failed job", "type", env.Type, "error", serr)
		}
	}
}

// FailedJobs returns the failures seen by this manager.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FailedJob(nil), m.failed...)
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
