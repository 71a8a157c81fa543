// Package event dispatches named domain events to registered listeners.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/bazar/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{}) error

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers handler for event.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// HasListeners reports whether anything listens for event.
func HasListeners(event string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return len(handlers[event]) > 0
}

func listeners(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	return append([]Handler(nil), handlers[event]...)
}

// Fire runs every listener of event in registration order and returns their
// joined errors. A failing listener does not stop the others.
func Fire(ctx context.Context, event string, payload interface{}) error {
	var errs []error
	for _, h := range listeners(event) {
		if err := h(ctx, payload); err != nil {
			errs = append(errs, fmt.Errorf("event %s: %w", event, err))
		}
	}
	return errors.Join(errs...)
}

// FireAsync runs every listener of event on its own goroutine. Errors and
// panics are logged. The returned WaitGroup completes when all listeners have
// returned.
func FireAsync(ctx context.Context, event string, payload interface{}) *sync.WaitGroup {
	ctx = context.WithoutCancel(ctx)
	var wg sync.WaitGroup
	for _, h := range listeners(event) {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.WithCtx(ctx).Error("event listener panicked", "event", event, "panic", r)
				}
			}()
			if err := h(ctx, payload); err != nil {
				logger.WithCtx(ctx).Error("event listener failed", "event", event, "error", err)
			}
		}(h)
	}
	return &wg
}

// Flush removes every listener.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
