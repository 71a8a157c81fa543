// Package container is the process-wide service container.
//
// Providers bind factories under string keys at boot; handlers and commands
// resolve them with Make or the typed Resolve helper.
package container

import (
	"fmt"
	"sync"
)

// Factory produces a service instance.
type Factory func() interface{}

type binding struct {
	factory  Factory
	shared   bool
	instance interface{}
	resolved bool
}

var (
	mu       sync.Mutex
	bindings = map[string]*binding{}
)

// Bind registers a factory that runs on every Make.
func Bind(key string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	bindings[key] = &binding{factory: factory}
}

// Singleton registers a factory that runs once, on first Make.
func Singleton(key string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	bindings[key] = &binding{factory: factory, shared: true}
}

// Instance registers an already built shared value.
func Instance(key string, value interface{}) {
	mu.Lock()
	defer mu.Unlock()
	bindings[key] = &binding{shared: true, instance: value, resolved: true}
}

// Make resolves key. It panics when key was never bound.
func Make(key string) interface{} {
	mu.Lock()
	b, ok := bindings[key]
	if !ok {
		mu.Unlock()
		panic(fmt.Sprintf("bazar/container: unknown binding %q", key))
	}
	if b.resolved {
		inst := b.instance
		mu.Unlock()
		return inst
	}
	mu.Unlock()

	// The factory may itself resolve other bindings, so it runs unlocked.
	inst := b.factory()

	if !b.shared {
		return inst
	}

	mu.Lock()
	defer mu.Unlock()
	if b.resolved {
		return b.instance
	}
	b.instance = inst
	b.resolved = true
	return inst
}

// Resolve is Make with a type assertion.
func Resolve[T any](key string) T {
	v, ok := Make(key).(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("bazar/container: binding %q is %T, want %T", key, Make(key), zero))
	}
	return v
}

// Has reports whether key has been bound.
func Has(key string) bool {
	mu.Lock()
	defer mu.Unlock()
	_, ok := bindings[key]
	return ok
}

// Forget removes a binding.
func Forget(key string) {
	mu.Lock()
	defer mu.Unlock()
	delete(bindings, key)
}
