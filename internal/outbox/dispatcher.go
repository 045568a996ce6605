package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/metrics"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
	queueWorkers  = 4
)

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

type ProfileSharer interface {
	Share(ctx context.Context, ev Event) error
}

// Dispatcher delivers committed events on a worker pool, retrying each one
// with exponential backoff. Delivery is at least once.
type Dispatcher struct {
	mu            sync.RWMutex
	ctx           context.Context
	pool          WorkerPoolI
	notifier      Notifier
	sharer        ProfileSharer
	retryInterval time.Duration
}

func NewDispatcher(workers int, notifier Notifier, sharer ProfileSharer) *Dispatcher {
	if workers <= 0 {
		workers = queueWorkers
	}
	return &Dispatcher{
		ctx:           context.Background(),
		pool:          NewWorkerPool(workers),
		notifier:      notifier,
		sharer:        sharer,
		retryInterval: retryInterval,
	}
}

// Start binds deliveries to the application lifetime instead of the request
// that produced them.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()
	zap.L().Info("Outbox dispatcher started")
}

func (d *Dispatcher) context() context.Context {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ctx
}

func (d *Dispatcher) Close() {
	d.pool.Close()
}

// Flush queues every event of a committed transaction.
func (d *Dispatcher) Flush(events []Event) {
	ctx := d.context()
	for _, ev := range events {
		ev := ev
		err := d.pool.AddTask(ctx, func() error {
			return d.deliver(ctx, ev)
		})
		if err != nil {
			zap.L().Error("can't queue outbox event", zap.String("event_id", ev.ID.String()), zap.Error(err))
			metrics.OutboxDelivered.WithLabelValues(string(ev.Kind), "dropped").Inc()
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = d.send(ctx, ev)
		if err == nil {
			metrics.OutboxDelivered.WithLabelValues(string(ev.Kind), "ok").Inc()
			return nil
		}
		if attempt == maxRetries {
			break
		}
		retryAfter := d.retryInterval * time.Duration(1<<(attempt-1))
		zap.L().Warn("Outbox delivery failed, retrying",
			zap.String("event_id", ev.ID.String()),
			zap.Int("attempt", attempt),
			zap.Duration("retryAfter", retryAfter),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryAfter):
		}
	}
	metrics.OutboxDelivered.WithLabelValues(string(ev.Kind), "failed").Inc()
	return fmt.Errorf("failed to deliver %s event %s after %d retries: %w", ev.Kind, ev.ID, maxRetries, err)
}

func (d *Dispatcher) send(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case KindNotify:
		return d.notifier.Notify(ctx, ev)
	case KindShareProfile:
		return d.sharer.Share(ctx, ev)
	default:
		return fmt.Errorf("unknown outbox event kind %q", ev.Kind)
	}
}
