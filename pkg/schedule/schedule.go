// Package schedule runs named tasks on cron expressions.
//
//	s := schedule.New()
//	_ = s.Add("discount:recalculate", "@hourly", recalc)
//	_ = s.Run(ctx) // blocks until ctx is done
//
// Expressions use the standard five fields or descriptors such as @hourly
// and "@every 30m". A run is skipped while the previous one is still busy.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shashiranjanraj/bazar/pkg/logger"
	"github.com/shashiranjanraj/bazar/pkg/metrics"
)

// ErrUnknownTask is returned by Trigger for names that were never added.
var ErrUnknownTask = errors.New("schedule: unknown task")

// Task is one scheduled unit of work.
type Task func(ctx context.Context) error

type Scheduler struct {
	cron *cron.Cron

	mu    sync.RWMutex
	base  context.Context
	tasks map[string]entry
}

type entry struct {
	spec string
	task Task
}

func New() *Scheduler {
	l := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		base:  context.Background(),
		tasks: map[string]entry{},
	}
}

// Add registers task under name. It fails for an invalid spec or a name
// that is already taken.
func (s *Scheduler) Add(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[name]; ok {
		return fmt.Errorf("schedule: task %q already added", name)
	}
	if _, err := s.cron.AddFunc(spec, func() { s.invoke(name, task) }); err != nil {
		return fmt.Errorf("schedule: task %q: %w", name, err)
	}
	s.tasks[name] = entry{spec: spec, task: task}
	return nil
}

// Tasks lists "name (spec)" for every task, sorted by name.
func (s *Scheduler) Tasks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.tasks))
	for name, e := range s.tasks {
		out = append(out, fmt.Sprintf("%s (%s)", name, e.spec))
	}
	sort.Strings(out)
	return out
}

// Trigger runs the named task now, on the caller's goroutine.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.RLock()
	e, ok := s.tasks[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}
	return e.task(ctx)
}

// Run starts dispatching and blocks until ctx is done. Running tasks get
// ctx and are waited for before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	s.cron.Start()
	logger.Info("schedule: started", "tasks", len(s.Tasks()))
	<-ctx.Done()
	<-s.cron.Stop().Done()
	logger.Info("schedule: stopped")
	return nil
}

func (s *Scheduler) invoke(name string, task Task) {
	s.mu.RLock()
	ctx := s.base
	s.mu.RUnlock()

	start := time.Now()
	if err := task(ctx); err != nil {
		metrics.RecordQueueJob("schedule:"+name, "error", start)
		logger.WithCtx(ctx).Error("schedule: task failed", "task", name, "error", err)
		return
	}
	metrics.RecordQueueJob("schedule:"+name, "success", start)
	logger.WithCtx(ctx).Info("schedule: task done", "task", name, "took", time.Since(start).String())
}

// cronLogger routes cron's own messages to the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("schedule: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("schedule: "+msg, append(keysAndValues, "error", err)...)
}
