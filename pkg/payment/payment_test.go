package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	cases := map[float64]int64{
		10:      1000,
		19.99:   1999,
		0.01:    1,
		1250.5:  125050,
		4.35:    435,
		1e6 + 1: 100000100,
	}
	for price, want := range cases {
		assert.Equal(t, want, MinorUnits(price), "price %v", price)
	}
}

func TestNewStripeWithoutKeyIsUnconfigured(t *testing.T) {
	p := NewStripe("")
	_, err := p.CreateIntent(context.Background(), IntentRequest{Amount: 1000, Currency: "bdt"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, ok := NewStripe("sk_test_123").(*Stripe)
	assert.True(t, ok)
}
