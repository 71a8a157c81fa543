package container_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/bazar/pkg/container"
)

type counter struct{ n int }

func TestBindBuildsEveryTime(t *testing.T) {
	t.Cleanup(func() { container.Forget("test.bind") })

	container.Bind("test.bind", func() interface{} { return &counter{} })

	a := container.Make("test.bind")
	b := container.Make("test.bind")
	assert.NotSame(t, a, b)
}

func TestSingletonBuildsOnce(t *testing.T) {
	t.Cleanup(func() { container.Forget("test.singleton") })

	var calls atomic.Int32
	container.Singleton("test.singleton", func() interface{} {
		calls.Add(1)
		return &counter{}
	})

	var wg sync.WaitGroup
	results := make([]*counter, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = container.Resolve[*counter]("test.singleton")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestInstanceAndHas(t *testing.T) {
	t.Cleanup(func() { container.Forget("test.instance") })

	c := &counter{n: 3}
	container.Instance("test.instance", c)

	assert.True(t, container.Has("test.instance"))
	assert.Same(t, c, container.Resolve[*counter]("test.instance"))
}

func TestMakeUnknownPanics(t *testing.T) {
	assert.False(t, container.Has("test.missing"))
	assert.Panics(t, func() { container.Make("test.missing") })
}

func TestResolveWrongTypePanics(t *testing.T) {
	t.Cleanup(func() { container.Forget("test.string") })
	container.Instance("test.string", "value")

	assert.Panics(t, func() { container.Resolve[*counter]("test.string") })
}
