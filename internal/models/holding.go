package models

import (
	"time"

	"tradepilot/internal/uuid"

	"gorm.io/gorm"
)

// Holding represents one stock position owned by one user. The set of rows
// for a user reflects exactly the most recent successful sync; each sync is
// a full replace, so there is no Base embed and no soft delete.
type Holding struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	StockCode    string    `gorm:"not null" json:"stock_code"`
	StockName    string    `gorm:"not null" json:"stock_name"`
	AccountName  string    `json:"account_name"`
	Quantity     int64     `gorm:"not null" json:"quantity"`
	AvgPrice     float64   `gorm:"not null" json:"avg_price"`
	CurrentPrice float64   `gorm:"not null" json:"current_price"`
	ProfitRate   float64   `json:"profit_rate"`
	Weight       float64   `json:"weight"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new rows.
func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New()
	}
	return nil
}
