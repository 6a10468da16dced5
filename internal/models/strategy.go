package models

// StrategyStatus represents the run state of a trading strategy.
type StrategyStatus string

const (
	StrategyStatusActive StrategyStatus = "active"
	StrategyStatusPaused StrategyStatus = "paused"
	StrategyStatusError  StrategyStatus = "error"
)

// Strategy represents a user-defined trading strategy. The external trading
// backend executes strategies; this API only stores and toggles them.
type Strategy struct {
	Base
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `json:"description"`
	Status       StrategyStatus `gorm:"not null;default:'paused'" json:"status"`
	PositionSize float64        `json:"position_size"`
	TakeProfit   float64        `json:"take_profit"`
	StopLoss     float64        `json:"stop_loss"`
	ProfitRate   float64        `json:"profit_rate"`
}
