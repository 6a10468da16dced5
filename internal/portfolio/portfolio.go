// Package portfolio contains the pure calculations over holding sets:
// portfolio weights on the write side and summary figures on the read side.
package portfolio

import "tradepilot/internal/models"

// ApplyWeights sets each holding's weight to its percentage share of the
// total portfolio market value. With a zero total every weight is zero.
func ApplyWeights(holdings []models.Holding) {
	var total float64
	for i := range holdings {
		total += holdings[i].CurrentPrice * float64(holdings[i].Quantity)
	}

	for i := range holdings {
		if total > 0 {
			value := holdings[i].CurrentPrice * float64(holdings[i].Quantity)
			holdings[i].Weight = value / total * 100
		} else {
			holdings[i].Weight = 0
		}
	}
}

// Summary holds the derived portfolio figures shown on the dashboard.
type Summary struct {
	TotalAssets     float64 `json:"total_assets"`
	InvestedAmount  float64 `json:"invested_amount"`
	TotalProfit     float64 `json:"total_profit"`
	TotalProfitRate float64 `json:"total_profit_rate"`
	TodayProfit     float64 `json:"today_profit"`
	TodayProfitRate float64 `json:"today_profit_rate"`
	CashBalance     float64 `json:"cash_balance"`

	ActiveStrategies int `json:"active_strategies"`
	TotalStrategies  int `json:"total_strategies"`
}

// Summarize derives summary statistics from the persisted holding set.
// An empty set yields all zeros.
//
// TotalProfitRate is the simple mean of per-holding profit rates, not a
// value-weighted average; dashboards depend on this behavior.
// TodayProfit is a placeholder heuristic (10% of total profit); no daily
// snapshot exists to compute a true day-over-day delta.
func Summarize(holdings []models.Holding) Summary {
	if len(holdings) == 0 {
		return Summary{}
	}

	var s Summary
	for i := range holdings {
		h := &holdings[i]
		qty := float64(h.Quantity)
		s.TotalAssets += h.CurrentPrice * qty
		s.InvestedAmount += h.AvgPrice * qty
		s.TotalProfit += (h.CurrentPrice - h.AvgPrice) * qty
		s.TotalProfitRate += h.ProfitRate
	}
	s.TotalProfitRate /= float64(len(holdings))
	s.TodayProfit = s.TotalProfit * 0.1
	s.TodayProfitRate = 0.5
	s.CashBalance = 0 // no cash-position data source exists

	return s
}
