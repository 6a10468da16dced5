// Package brokerage translates brokerage-specific authentication and
// balance-query protocols into normalized holding records.
package brokerage

import (
	"context"
	"net/http"

	apperrors "tradepilot/internal/errors"
)

// Credentials are the per-user brokerage API credentials loaded from
// settings storage. Loaded fresh on every sync; never cached.
type Credentials struct {
	AppKey        string
	AppSecret     string
	AccountNumber string
}

// Holding is a normalized stock position as reported by a brokerage.
// Quantity is always positive; zero-quantity entries are filtered out
// during normalization.
type Holding struct {
	StockCode    string
	StockName    string
	AccountName  string
	Quantity     int64
	AvgPrice     float64
	CurrentPrice float64
	ProfitRate   float64
}

// Adapter fetches the current balance snapshot from one brokerage.
type Adapter interface {
	// Name returns the brokerage's display name.
	Name() string

	// FetchHoldings authenticates with the brokerage and returns the
	// user's current positions, normalized. The two outbound calls (token
	// issuance, then balance query) are strictly sequential.
	FetchHoldings(ctx context.Context, creds Credentials) ([]Holding, error)
}

// Factory builds an adapter for a stored brokerage type. useProduction
// selects the brokerage's production host over its sandbox host.
type Factory func(brokerageType string, useProduction bool) (Adapter, error)

// NewFactory returns the default Factory over the known brokerage set.
// Unrecognized types fail closed with UNSUPPORTED_BROKERAGE before any
// network call is made.
func NewFactory(httpClient *http.Client) Factory {
	return func(brokerageType string, useProduction bool) (Adapter, error) {
		switch brokerageType {
		case "korea_investment":
			return NewKoreaInvestment(httpClient, useProduction), nil
		case "kiwoom":
			return NewKiwoom(), nil
		default:
			return nil, apperrors.WithMessage(apperrors.ErrUnsupportedBrokerage,
				"지원하지 않는 증권사입니다: "+brokerageType)
		}
	}
}
