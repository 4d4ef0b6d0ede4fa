package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"projecthub/metrics"
	"projecthub/models"

	"github.com/sirupsen/logrus"
)

const defaultNotifyTimeout = 10 * time.Second

// Dispatcher delivers completion events to a Notifier from a single worker
// goroutine. Each accepted event gets one delivery attempt: IncrementStats,
// then RecalculateBadges. Failures are logged and counted, never returned.
type Dispatcher struct {
	notifier Notifier
	queue    chan models.CompletionEvent
	log      logrus.FieldLogger
	timeout  time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts a dispatcher with room for size queued events.
func NewDispatcher(notifier Notifier, size int, log logrus.FieldLogger) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan models.CompletionEvent, size),
		log:      log,
		timeout:  defaultNotifyTimeout,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Emit queues ev without blocking. It returns false when the dispatcher is
// closed or the queue is full; the event is then dropped.
func (d *Dispatcher) Emit(ev models.CompletionEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.RecordEventDropped()
		return false
	}
	select {
	case d.queue <- ev:
		return true
	default:
		metrics.RecordEventDropped()
		return false
	}
}

// Close stops accepting events, delivers the queued ones and waits for the
// worker to exit.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev models.CompletionEvent) {
	inc := models.StatsIncrement{
		ProjectID:         ev.ProjectID,
		ProjectsCompleted: 1,
		HoursContributed:  ev.Hours,
	}
	d.call("increment_stats", ev, func(ctx context.Context) error {
		return d.notifier.IncrementStats(ctx, ev.AccountID, inc)
	})
	d.call("recalculate_badges", ev, func(ctx context.Context) error {
		return d.notifier.RecalculateBadges(ctx, ev.AccountID)
	})
}

// call runs one notifier call, converting panics into logged failures.
func (d *Dispatcher) call(name string, ev models.CompletionEvent, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn(ctx)
	}()
	if err == nil {
		return
	}

	metrics.RecordNotifierFailure(name)
	d.log.WithFields(logrus.Fields{
		"call":       name,
		"project_id": ev.ProjectID,
		"account_id": ev.AccountID,
		"hours":      ev.Hours,
	}).WithError(err).Error("completion side effect failed")
}
