package services

import (
	"context"

	"tradepilot/internal/brokerage"
	"tradepilot/internal/models"
	"tradepilot/internal/pagination"
	"tradepilot/internal/portfolio"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, displayName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	// StoreRefreshTokenHash persists the SHA-256 digest of the user's
	// current refresh token; issuing a new token revokes the previous one.
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// SettingsInput carries the writable fields of a user's settings.
type SettingsInput struct {
	BackendURL    string
	BrokerageType models.BrokerageType
	APIKey        string
	APISecret     string
	AccountNumber string
	UseProduction bool
}

// BrokerageConfig is a user's brokerage selection plus the credentials the
// adapter needs, loaded fresh per sync call.
type BrokerageConfig struct {
	Type          models.BrokerageType
	Credentials   brokerage.Credentials
	UseProduction bool
}

// SettingsServicer defines the contract for per-user settings storage.
type SettingsServicer interface {
	GetSettings(userID uint) (*models.UserSettings, error)
	UpsertSettings(userID uint, input SettingsInput) (*models.UserSettings, error)
	// BrokerageCredentials loads and validates the fields the sync pipeline
	// needs. Fails when no settings row exists or any credential field is
	// missing.
	BrokerageCredentials(userID uint) (*BrokerageConfig, error)
}

// HoldingsServicer defines the contract for the holdings sync pipeline and
// its read side.
type HoldingsServicer interface {
	// Sync fetches the user's balance from their brokerage, computes
	// portfolio weights, and replaces the persisted holding set. Returns
	// the number of holdings persisted.
	Sync(ctx context.Context, userID uint) (int, error)
	GetHoldings(userID uint) ([]models.Holding, error)
	GetPortfolioSummary(userID uint) (*portfolio.Summary, error)
}

// StrategyInput carries the writable fields of a trading strategy.
type StrategyInput struct {
	Name         string
	Description  string
	PositionSize float64
	TakeProfit   float64
	StopLoss     float64
}

// StrategyServicer defines the contract for trading-strategy management.
type StrategyServicer interface {
	CreateStrategy(userID uint, input StrategyInput) (*models.Strategy, error)
	GetUserStrategies(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Strategy], error)
	GetStrategyByID(userID, strategyID uint) (*models.Strategy, error)
	UpdateStrategy(userID, strategyID uint, input StrategyInput) (*models.Strategy, error)
	ToggleStrategy(userID, strategyID uint, active bool) (*models.Strategy, error)
	// EmergencyStop pauses every strategy the user owns and returns the
	// number of strategies affected.
	EmergencyStop(userID uint) (int64, error)
	// SetStatus is the pipeline-side status update from the trading backend.
	SetStatus(strategyID uint, status models.StrategyStatus, profitRate *float64) (*models.Strategy, error)
}

// TradeLogEntry carries one trade-log event from the trading backend.
type TradeLogEntry struct {
	UserID     uint
	Category   models.TradeLogCategory
	Level      models.TradeLogLevel
	Message    string
	Reason     string
	StrategyID *uint
}

// TradeLogServicer defines the contract for trade-log storage and fan-out.
type TradeLogServicer interface {
	// Ingest appends the event and publishes it to the user's live stream.
	Ingest(ctx context.Context, entry TradeLogEntry) (*models.TradeLog, error)
	// GetUserLogs returns the most recent logs, newest first.
	GetUserLogs(userID uint, limit int) ([]models.TradeLog, error)
}
