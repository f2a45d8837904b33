package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/app/repositories"
	"github.com/resellbd/resell-api/pkg/apperr"
	"github.com/resellbd/resell-api/pkg/event"
	"github.com/resellbd/resell-api/pkg/logger"
	"github.com/resellbd/resell-api/pkg/metrics"
)

type OrderService struct {
	orders repositories.OrderRepository
	events *event.Dispatcher
	now    func() time.Time
}

func NewOrderService(store *repositories.Store, events *event.Dispatcher) *OrderService {
	return &OrderService{orders: store.Orders, events: events, now: time.Now}
}

// Create inserts a Pending order unless the buyer already ordered a product
// with the same name. The lookup is a fast path; the unique index on
// (buyerEmail, productName) settles concurrent duplicates.
func (s *OrderService) Create(ctx context.Context, order *models.Order) (Outcome, error) {
	_, err := s.orders.FindByBuyerAndProduct(ctx, order.BuyerEmail, order.ProductName)
	switch {
	case err == nil:
		metrics.SoftFailures.WithLabelValues("order").Inc()
		return skipped(msgAlreadyOrdered), nil
	case !errors.Is(err, repositories.ErrNotFound):
		return Outcome{}, storeErr("find order", err)
	}

	order.ID = primitive.NilObjectID
	order.Status = models.OrderPending
	order.CreatedAt = s.now().UTC()
	order.TransactionID = ""

	res, err := s.orders.Create(ctx, order)
	if errors.Is(err, repositories.ErrDuplicate) {
		metrics.SoftFailures.WithLabelValues("order").Inc()
		return skipped(msgAlreadyOrdered), nil
	}
	if err != nil {
		return Outcome{}, storeErr("insert order", err)
	}

	logger.WithCtx(ctx).Info("order created",
		"order_id", order.ID.Hex(),
		"buyer", order.BuyerEmail,
		"product", order.ProductName,
	)
	s.events.Fire(ctx, event.OrderCreated, *order)
	return applied(res), nil
}

func (s *OrderService) ListByBuyer(ctx context.Context, email string) ([]models.Order, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperr.Validation(msgEmailRequired)
	}
	orders, err := s.orders.ListByBuyer(ctx, email)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	return orders, nil
}

// Get returns the order, or nil when no order has that id.
func (s *OrderService) Get(ctx context.Context, idHex string) (*models.Order, error) {
	id, err := parseID(idHex)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find order", err)
	}
	return &order, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	return orders, nil
}

func (s *OrderService) Delete(ctx context.Context, idHex string) (models.DeleteResult, error) {
	id, err := parseID(idHex)
	if err != nil {
		return models.DeleteResult{}, err
	}
	res, err := s.orders.Delete(ctx, id)
	if err != nil {
		return models.DeleteResult{}, storeErr("delete order", err)
	}
	if res.DeletedCount > 0 {
		s.events.Fire(ctx, event.OrderDeleted, id.Hex())
	}
	return res, nil
}

// MarkPaid records the transaction id and flips the order to Paid. It does
// not ask the provider whether the payment actually succeeded.
func (s *OrderService) MarkPaid(ctx context.Context, idHex, transactionID string) (models.UpdateResult, error) {
	id, err := parseID(idHex)
	if err != nil {
		return models.UpdateResult{}, err
	}
	res, err := s.orders.MarkPaid(ctx, id, transactionID)
	if err != nil {
		return models.UpdateResult{}, storeErr("mark order paid", err)
	}

	logger.WithCtx(ctx).Info("order marked paid",
		"order_id", id.Hex(),
		"transaction_id", transactionID,
		"matched", res.MatchedCount,
	)
	if res.MatchedCount > 0 {
		s.events.Fire(ctx, event.OrderPaid, id.Hex())
	}
	return res, nil
}
