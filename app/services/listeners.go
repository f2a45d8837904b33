package services

import (
	"context"

	"github.com/resellbd/resell-api/pkg/event"
	"github.com/resellbd/resell-api/pkg/logger"
)

// RegisterListeners wires cache invalidation and audit logging onto d.
// Product listings are dropped inline so the next read after a create or a
// seller verification sees the new snapshot. Audit lines go to the pool.
func RegisterListeners(d *event.Dispatcher, products *ProductService) {
	invalidate := func(ctx context.Context, _ interface{}) {
		products.InvalidateListings(ctx)
	}
	d.Listen(event.ProductCreated, invalidate)
	d.Listen(event.SellerVerified, invalidate)

	for _, name := range []string{
		event.OrderPaid,
		event.OrderDeleted,
		event.UserPromoted,
		event.UserDeleted,
	} {
		name := name
		d.ListenAsync(name, func(ctx context.Context, payload interface{}) {
			logger.WithCtx(ctx).Info("audit", "event", name, "subject", payload)
		})
	}
}
