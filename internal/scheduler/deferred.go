package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/diegoclair/slack-idea-bot/pkg/logger"
	"go.uber.org/zap"
)

// Deferred runs tasks once after a delay. Delivery is at most once: tasks still
// waiting when Stop is called are dropped, and nothing survives a restart.
type Deferred struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	timers  map[*time.Timer]struct{}
	running sync.WaitGroup
	stopped bool
}

func NewDeferred() *Deferred {
	ctx, cancel := context.WithCancel(context.Background())
	return &Deferred{
		ctx:    ctx,
		cancel: cancel,
		timers: make(map[*time.Timer]struct{}),
	}
}

// After schedules task to run once delay has elapsed.
func (d *Deferred) After(delay time.Duration, task func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		logger.Warn("Deferred task dropped, scheduler is stopped")
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if _, ok := d.timers[timer]; !ok {
			d.mu.Unlock()
			return
		}
		delete(d.timers, timer)
		d.running.Add(1)
		d.mu.Unlock()

		defer d.running.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Deferred task panicked", zap.Any("panic", r))
			}
		}()
		task(d.ctx)
	})
	d.timers[timer] = struct{}{}
}

// Pending returns how many tasks are still waiting for their delay.
func (d *Deferred) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop drops waiting tasks, cancels the context of running ones and waits for them to return.
func (d *Deferred) Stop() {
	d.mu.Lock()
	d.stopped = true
	dropped := len(d.timers)
	for timer := range d.timers {
		timer.Stop()
		delete(d.timers, timer)
	}
	d.mu.Unlock()

	if dropped > 0 {
		logger.Warn("Dropped pending deferred tasks", zap.Int("count", dropped))
	}

	d.cancel()
	d.running.Wait()
}
