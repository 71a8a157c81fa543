package queue

import "context"

// MemoryDriver is a channel-backed, non-durable driver for development
// and tests.
type MemoryDriver struct {
	ch chan []byte
}

// NewMemoryDriver buffers up to size jobs; Push blocks when full.
func NewMemoryDriver(size int) *MemoryDriver {
	return &MemoryDriver{ch: make(chan []byte, size)}
}

func (d *MemoryDriver) Push(ctx context.Context, payload []byte) error {
	select {
	case d.ch <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	}
}

// Len is the number of waiting jobs.
func (d *MemoryDriver) Len() int { return len(d.ch) }
