package brokerage

import (
	"context"

	apperrors "tradepilot/internal/errors"
)

// Kiwoom is a placeholder adapter for Kiwoom Securities. The OpenAPI+
// integration needs HTS ID/PW or certificate-based authentication, which
// this API does not carry yet, so every call fails deterministically.
type Kiwoom struct{}

// NewKiwoom creates the Kiwoom placeholder adapter.
func NewKiwoom() *Kiwoom { return &Kiwoom{} }

// Name returns the brokerage's display name.
func (k *Kiwoom) Name() string { return "키움증권" }

// FetchHoldings always fails with BROKERAGE_NOT_IMPLEMENTED.
func (k *Kiwoom) FetchHoldings(ctx context.Context, creds Credentials) ([]Holding, error) {
	return nil, apperrors.ErrKiwoomNotImplemented
}
