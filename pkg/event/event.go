// Package event is an in-process dispatcher for domain events. Listeners run
// after the write they describe has been committed; they must not be relied
// on for correctness of the write itself.
package event

import (
	"context"
	"sync"

	"github.com/resellbd/resell-api/pkg/logger"
	"github.com/resellbd/resell-api/pkg/workerpool"
)

const (
	ProductCreated = "product.created"
	OrderCreated   = "order.created"
	OrderPaid      = "order.paid"
	OrderDeleted   = "order.deleted"
	UserCreated    = "user.created"
	UserPromoted   = "user.promoted"
	UserDeleted    = "user.deleted"
	SellerVerified = "seller.verified"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

type listener struct {
	fn    Handler
	async bool
}

type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]listener
	pool      *workerpool.Pool
}

// NewDispatcher returns a dispatcher whose async listeners share a pool
// of the given size. Call Close to drain it.
func NewDispatcher(workers int) *Dispatcher {
	return &Dispatcher{
		listeners: map[string][]listener{},
		pool:      workerpool.New("events", workers),
	}
}

// Listen registers a handler that runs inline, before Fire returns.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.add(event, listener{fn: handler})
}

// ListenAsync registers a handler that runs on the worker pool with a
// context detached from the request. When the pool is saturated the
// handler runs inline instead of being dropped.
func (d *Dispatcher) ListenAsync(event string, handler Handler) {
	d.add(event, listener{fn: handler, async: true})
}

func (d *Dispatcher) add(event string, l listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[event] = append(d.listeners[event], l)
}

// Fire dispatches to every listener in registration order.
// A nil dispatcher drops the event.
func (d *Dispatcher) Fire(ctx context.Context, event string, payload interface{}) {
	for _, l := range d.snapshot(event) {
		if !l.async {
			l.fn(ctx, payload)
			continue
		}
		detached := context.WithoutCancel(ctx)
		fn := l.fn
		if err := d.pool.Submit(func() { fn(detached, payload) }); err != nil {
			logger.WithCtx(ctx).Debug("event: running async listener inline", "event", event, "reason", err)
			fn(detached, payload)
		}
	}
}

// Close waits for queued async listeners to finish.
func (d *Dispatcher) Close() {
	if d != nil {
		d.pool.Shutdown()
	}
}

func (d *Dispatcher) snapshot(event string) []listener {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]listener(nil), d.listeners[event]...)
}
