package queue

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by MemoryDriver.Push when the buffer is full.
var ErrQueueFull = errors.New("queue: memory buffer full")

const defaultMemoryBuffer = 1000

// MemoryDriver is an in-process, channel-backed queue driver. Jobs are lost
// on restart.
type MemoryDriver struct {
	ch chan []byte
}

// NewMemoryDriver creates an in-memory queue with a buffer of 1000 jobs.
func NewMemoryDriver() *MemoryDriver {
	return NewMemoryDriverSize(defaultMemoryBuffer)
}

// NewMemoryDriverSize creates an in-memory queue holding at most size jobs.
func NewMemoryDriverSize(size int) *MemoryDriver {
	if size < 1 {
		size = 1
	}
	return &MemoryDriver{ch: make(chan []byte, size)}
}

// Push never blocks: a full buffer fails with ErrQueueFull so callers on
// the request path can log and move on.
func (d *MemoryDriver) Push(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case d.ch <- payload:
		return nil
	default:
		return ErrQueueFull
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

func (d *MemoryDriver) Ping(context.Context) error { return nil }

func (d *MemoryDriver) Name() string { return "memory" }
