// Package payment abstracts the external payment provider. It supports a
// mock provider for development and a PayPal REST provider for sandbox and
// live deployments.
package payment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// ErrPaymentFailed is returned when the provider rejects or cannot complete
// a payment
var ErrPaymentFailed = errors.New("payment failed")

// Provider defines the payment operations the service depends on
type Provider interface {
	// Create starts a payment for one access code and returns the
	// provider's payment id.
	Create(ctx context.Context) (string, error)
	// Execute completes a previously approved payment.
	Execute(ctx context.Context, paymentID, payerID string) error
}

// Config holds payment provider configuration
type Config struct {
	Mode         string // "mock", "sandbox" or "live"
	ClientID     string
	ClientSecret string
	// ReturnURL and CancelURL are where the provider redirects the buyer
	// after approval or cancellation.
	ReturnURL string
	CancelURL string
}

// NewProvider creates a provider for the configured mode. Mock mode approves
// every payment and is intended for development only.
func NewProvider(cfg Config, logger *slog.Logger) Provider {
	if cfg.Mode == "mock" {
		return &mockProvider{logger: logger}
	}
	return newPayPalProvider(cfg, logger)
}

// mockProvider approves everything without talking to any provider
type mockProvider struct {
	logger *slog.Logger
}

func (p *mockProvider) Create(ctx context.Context) (string, error) {
	id := "MOCK-" + uuid.New().String()
	p.logger.Info("[DEV] Created mock payment", "payment_id", id)
	return id, nil
}

func (p *mockProvider) Execute(ctx context.Context, paymentID, payerID string) error {
	p.logger.Info("[DEV] Executed mock payment", "payment_id", paymentID, "payer_id", payerID)
	return nil
}
