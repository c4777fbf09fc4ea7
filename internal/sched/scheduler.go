// Package sched runs fire-and-forget deferred tasks. Tasks are
// detached from the request that scheduled them, expose no
// cancellation handle, and swallow their errors after logging.
package sched

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TimerFunc is the clock dependency; tests inject a fake to fire
// deferred tasks without sleeping.
type TimerFunc func(d time.Duration) <-chan time.Time

type Scheduler struct {
	log   *zap.Logger
	timer TimerFunc
	wg    sync.WaitGroup
}

func New(log *zap.Logger) *Scheduler {
	return NewWithTimer(log, time.After)
}

func NewWithTimer(log *zap.Logger, timer TimerFunc) *Scheduler {
	if timer == nil {
		timer = time.After
	}
	return &Scheduler{log: log, timer: timer}
}

// Schedule runs fn on its own goroutine after delay. The task receives
// a fresh background context, not the caller's: the triggering request
// completes (and its context dies) long before the task fires. Errors
// are logged and dropped.
func (s *Scheduler) Schedule(name string, delay time.Duration, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		<-s.timer(delay)
		s.log.Info("deferred task firing", zap.String("task", name), zap.Duration("delay", delay))
		if err := fn(context.Background()); err != nil {
			s.log.Error("deferred task failed", zap.String("task", name), zap.Error(err))
		}
	}()
}

// Wait blocks until every scheduled task has finished. Used by tests
// and shutdown paths; callers on the request path never wait.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
