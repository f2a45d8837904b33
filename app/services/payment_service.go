package services

import (
	"context"
	"errors"

	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/pkg/apperr"
	"github.com/resellbd/resell-api/pkg/logger"
	"github.com/resellbd/resell-api/pkg/metrics"
	"github.com/resellbd/resell-api/pkg/payment"
)

type PaymentService struct {
	provider payment.Provider
	currency string
}

func NewPaymentService(provider payment.Provider, currency string) *PaymentService {
	return &PaymentService{provider: provider, currency: currency}
}

// CreateIntent asks the provider for an intent of price×100 minor units in
// the configured currency and returns the client secret.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (models.PaymentIntent, error) {
	if price <= 0 {
		return models.PaymentIntent{}, apperr.Validation("Price must be greater than zero")
	}

	amount := payment.MinorUnits(price)
	secret, err := s.provider.CreateIntent(ctx, payment.IntentRequest{
		Amount:   amount,
		Currency: s.currency,
	})
	metrics.RecordPaymentIntent(err == nil)
	if err != nil {
		logger.WithCtx(ctx).Error("payment intent failed", "amount", amount, "currency", s.currency, "error", err)
		if errors.Is(err, payment.ErrNotConfigured) {
			return models.PaymentIntent{}, apperr.Upstream("Payment provider is not configured", err)
		}
		return models.PaymentIntent{}, apperr.Upstream("Payment provider error", err)
	}

	logger.WithCtx(ctx).Info("payment intent created", "amount", amount, "currency", s.currency)
	return models.PaymentIntent{ClientSecret: secret}, nil
}
