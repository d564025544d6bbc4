// Package schedule runs tasks at fixed intervals.
//
//	s := schedule.New()
//	s.Every(6*time.Hour, "reviews.recount", recountAll)
//	s.Start(ctx) // returns immediately; tasks stop with ctx
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/hostelmania/server/pkg/logger"
)

// Task is the function signature for a scheduled task.
type Task func(ctx context.Context) error

type entry struct {
	name     string
	interval time.Duration
	task     Task
	running  sync.Mutex // overlap guard
}

// Scheduler holds a set of interval tasks.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{}
}

// Every registers task to run every interval, first one interval after
// Start. A run that is still going when the next is due is not overlapped;
// the tick is skipped. A non-positive interval disables the task.
func (s *Scheduler) Every(interval time.Duration, name string, task Task) {
	if interval <= 0 {
		logger.Info("schedule: task disabled", "task", name)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &entry{name: name, interval: interval, task: task})
}

// Len reports how many tasks are registered.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start launches one ticker per task. Tasks registered after Start are not
// run.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	current := append([]*entry(nil), s.entries...)
	s.mu.Unlock()

	for _, e := range current {
		s.wg.Add(1)
		go s.loop(ctx, e)
	}
	if len(current) > 0 {
		logger.Info("schedule: scheduler started", "tasks", len(current))
	}
}

// Wait blocks until every task loop has returned after ctx ended.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	defer s.wg.Done()
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.running.TryLock() {
				logger.Warn("schedule: skipping overlapping run", "task", e.name)
				continue
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer e.running.Unlock()
				run(ctx, e)
			}()
		}
	}
}

func run(ctx context.Context, e *entry) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("schedule: task panicked", "task", e.name, "panic", r)
		}
	}()

	start := time.Now()
	if err := e.task(ctx); err != nil {
		logger.Error("schedule: task failed", "task", e.name, "error", err)
		return
	}
	logger.Debug("schedule: task finished", "task", e.name, "duration", time.Since(start).String())
}
