// Package payment creates payment intents with the card processor.
package payment

import (
	"context"
	"errors"
	"math"
)

// ErrNotConfigured is returned when no provider secret key is set.
var ErrNotConfigured = errors.New("payment: provider not configured")

// IntentRequest is an amount in minor units (paisa for BDT).
type IntentRequest struct {
	Amount   int64
	Currency string
}

// Provider creates a payment intent and returns its client secret.
type Provider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (clientSecret string, err error)
}

// MinorUnits converts a major-unit price into minor units, rounding to the
// nearest unit so 19.99 becomes 1999 rather than 1998.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// Unconfigured is the provider used when no secret key is available.
type Unconfigured struct{}

func (Unconfigured) CreateIntent(context.Context, IntentRequest) (string, error) {
	return "", ErrNotConfigured
}
