package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
)

// Dispatcher runs fire-and-forget work outside the request that scheduled it. At most
// workers tasks run at once; further tasks wait for a slot. Each task gets its own timeout
// and keeps the request values but not its cancellation.
type Dispatcher struct {
	slots   chan struct{}
	timeout time.Duration
	log     zerolog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(workers int, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		slots:   make(chan struct{}, workers),
		timeout: timeout,
		log:     log,
	}
}

// Dispatch schedules fn with a context that keeps the values of parent, such as the request
// id and trace span, but not its cancellation. After Shutdown the task is dropped.
func (d *Dispatcher) Dispatch(parent context.Context, name string, fn func(ctx context.Context) error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Warn().Str("task", name).Msg("dispatcher closed, dropping task")
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	ctx := context.WithoutCancel(parent)
	go func() {
		defer d.wg.Done()
		d.slots <- struct{}{}
		defer func() { <-d.slots }()
		d.run(ctx, name, fn)
	}()
}

func (d *Dispatcher) run(parent context.Context, name string, fn func(ctx context.Context) error) {
	ctx := parent
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, d.timeout)
		defer cancel()
	}

	metrics.BackgroundTasksInFlight.Inc()
	defer metrics.BackgroundTasksInFlight.Dec()

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Str("task", name).Str("panic", fmt.Sprint(r)).Msg("background task panicked")
		}
	}()

	if err := fn(ctx); err != nil {
		d.log.Error().Err(err).Str("task", name).Dur("duration", time.Since(started)).Msg("background task failed")
		return
	}
	d.log.Debug().Str("task", name).Dur("duration", time.Since(started)).Msg("background task finished")
}

// Shutdown stops accepting tasks and waits for the scheduled ones until ctx is done.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
