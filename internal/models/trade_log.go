package models

import (
	"time"

	"tradepilot/internal/uuid"

	"gorm.io/gorm"
)

// TradeLogCategory classifies a trade-log event.
type TradeLogCategory string

const (
	TradeLogCategorySystem   TradeLogCategory = "System"
	TradeLogCategoryStrategy TradeLogCategory = "Strategy"
	TradeLogCategoryTrade    TradeLogCategory = "Trade"
)

// TradeLogLevel is the severity of a trade-log event.
type TradeLogLevel string

const (
	TradeLogLevelInfo  TradeLogLevel = "INFO"
	TradeLogLevelWarn  TradeLogLevel = "WARN"
	TradeLogLevelError TradeLogLevel = "ERROR"
)

// TradeLog is an append-only event produced by the external trading backend.
// Rows are immutable, so there is no Base embed and no soft delete.
type TradeLog struct {
	ID         string           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uint             `gorm:"not null;index" json:"user_id"`
	Category   TradeLogCategory `gorm:"not null" json:"category"`
	Level      TradeLogLevel    `gorm:"not null" json:"level"`
	Message    string           `gorm:"not null" json:"message"`
	Reason     string           `json:"reason,omitempty"`
	StrategyID *uint            `json:"strategy_id,omitempty"`
	Timestamp  time.Time        `gorm:"not null;index" json:"timestamp"`
}

// BeforeCreate hook generates a UUIDv7 and defaults the timestamp.
func (l *TradeLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return nil
}
