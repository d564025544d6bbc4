// Package queue runs background jobs on a fixed set of workers.
//
// Jobs travel through a Driver as JSON, so a job type must be registered
// by name with a factory before workers can decode it. The factory is also
// where a job gets its dependencies:
//
//	q := queue.NewManager(queue.NewMemoryDriver())
//	q.Register("reviews.recount", func() queue.Job { return &RecountReviews{store: store} })
//	q.Start(ctx, 2)
//	q.Dispatch(ctx, &RecountReviews{MenuID: id})
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hostelmania/server/pkg/logger"
	"github.com/hostelmania/server/pkg/metrics"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	// Name is the registry key used to decode the job on the worker side.
	Name() string
	// Handle executes the job. Return a non-nil error to retry.
	Handle(ctx context.Context) error
}

// FailedJob holds a job that exhausted its retries.
type FailedJob struct {
	Name     string
	Payload  json.RawMessage
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks until a payload is available, ctx is done, or the driver
	// times out, in which case it returns (nil, nil).
	Pop(ctx context.Context) ([]byte, error)
	Ping(ctx context.Context) error
	Name() string
}

const maxFailedKept = 100

// Manager dispatches jobs to a driver and runs the workers that consume
// them.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
	backoff  time.Duration
	wg       sync.WaitGroup
}

// NewManager returns a manager that retries failing jobs three times with
// a linear one-second backoff.
func NewManager(d Driver) *Manager {
	return &Manager{
		driver:   d,
		registry: map[string]func() Job{},
		maxRetry: 3,
		backoff:  time.Second,
	}
}

// SetMaxRetry sets how many attempts a job gets in total.
func (m *Manager) SetMaxRetry(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n < 1 {
		n = 1
	}
	m.maxRetry = n
}

// SetBackoff sets the base delay between attempts; attempt k waits k×d.
func (m *Manager) SetBackoff(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backoff = d
}

// Register makes a job type decodable by name. Call it before Start.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[name] = factory
}

// Driver returns the underlying driver.
func (m *Manager) Driver() Driver { return m.driver }

// ------------------- Dispatch -------------------

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes job onto the queue.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", job.Name(), err)
	}

	env, err := json.Marshal(envelope{Type: job.Name(), Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	if err := m.driver.Push(ctx, env); err != nil {
		return fmt.Errorf("queue: push %s: %w", job.Name(), err)
	}
	return nil
}

// ------------------- Worker -------------------

// Start launches n workers that run until ctx is cancelled. Use Wait to
// block until they have drained.
func (m *Manager) Start(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n, "driver", m.driver.Name())
}

// Wait blocks until every worker has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) work(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		raw, err := m.driver.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			if !sleep(ctx, 500*time.Millisecond) {
				return
			}
			continue
		}
		if raw == nil {
			continue
		}

		m.process(ctx, raw)
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()

	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(ctx, job, env)
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, env envelope) {
	m.mu.RLock()
	maxRetry, backoff := m.maxRetry, m.backoff
	m.mu.RUnlock()

	start := time.Now()
	var lastErr error
	attempt := 1
	for ; attempt <= maxRetry; attempt++ {
		err := job.Handle(ctx)
		if err == nil {
			metrics.RecordQueueJob(env.Type, "success", start)
			logger.Debug("queue: job processed", "type", env.Type)
			return
		}
		lastErr = err
		if attempt == maxRetry || errors.Is(err, context.Canceled) {
			break
		}
		logger.Warn("queue: job failed, retrying", "type", env.Type, "attempt", attempt, "error", err)
		if !sleep(ctx, time.Duration(attempt)*backoff) {
			break
		}
	}

	metrics.RecordQueueJob(env.Type, "failed", start)
	m.recordFailed(FailedJob{
		Name:     env.Type,
		Payload:  env.Payload,
		Err:      lastErr,
		FailedAt: time.Now(),
		Attempts: min(attempt, maxRetry),
	})
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}

func (m *Manager) recordFailed(f FailedJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, f)
	if len(m.failed) > maxFailedKept {
		m.failed = m.failed[len(m.failed)-maxFailedKept:]
	}
}

// Failed returns a snapshot of the most recent failed jobs.
func (m *Manager) Failed() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FailedJob, len(m.failed))
	copy(out, m.failed)
	return out
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
