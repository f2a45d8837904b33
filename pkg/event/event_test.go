package event_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/resellbd/resell-api/pkg/event"
)

func TestFire_RunsListenersInOrder(t *testing.T) {
	d := event.NewDispatcher(1)
	defer d.Close()
	var got []string
	d.Listen(event.OrderPaid, func(_ context.Context, p interface{}) { got = append(got, "a:"+p.(string)) })
	d.Listen(event.OrderPaid, func(_ context.Context, p interface{}) { got = append(got, "b:"+p.(string)) })
	d.Listen(event.OrderCreated, func(context.Context, interface{}) { got = append(got, "wrong") })

	d.Fire(context.Background(), event.OrderPaid, "pi_1")

	assert.Equal(t, []string{"a:pi_1", "b:pi_1"}, got)
}

func TestListenAsync_DetachesFromCancellation(t *testing.T) {
	d := event.NewDispatcher(2)
	defer d.Close()
	var wg sync.WaitGroup
	wg.Add(1)
	var ctxErr error
	d.ListenAsync(event.UserCreated, func(ctx context.Context, _ interface{}) {
		defer wg.Done()
		time.Sleep(10 * time.Millisecond)
		ctxErr = ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	d.Fire(ctx, event.UserCreated, nil)
	cancel()
	wg.Wait()

	assert.NoError(t, ctxErr)
}

func TestCloseDrainsAsyncListeners(t *testing.T) {
	d := event.NewDispatcher(1)
	var mu sync.Mutex
	seen := 0
	d.ListenAsync(event.OrderDeleted, func(context.Context, interface{}) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	for i := 0; i < 5; i++ {
		d.Fire(context.Background(), event.OrderDeleted, i)
	}
	d.Close()

	assert.Equal(t, 5, seen)
}

func TestNilDispatcherDrops(t *testing.T) {
	var d *event.Dispatcher
	assert.NotPanics(t, func() {
		d.Fire(context.Background(), event.OrderDeleted, nil)
		d.Close()
	})
}
