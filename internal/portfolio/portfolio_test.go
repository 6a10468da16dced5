package portfolio

import (
	"math"
	"testing"

	"tradepilot/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestApplyWeights(t *testing.T) {
	t.Run("weights_sum_to_100", func(t *testing.T) {
		holdings := []models.Holding{
			{Quantity: 10, CurrentPrice: 110},  // value 1100
			{Quantity: 5, CurrentPrice: 180},   // value 900
			{Quantity: 100, CurrentPrice: 100}, // value 10000
		}
		ApplyWeights(holdings)

		var sum float64
		for _, h := range holdings {
			sum += h.Weight
		}
		if !almostEqual(sum, 100) {
			t.Errorf("expected weights to sum to 100, got %f", sum)
		}
		if !almostEqual(holdings[0].Weight, 1100.0/12000*100) {
			t.Errorf("unexpected weight for first holding: %f", holdings[0].Weight)
		}
	})

	t.Run("single_holding_gets_full_weight", func(t *testing.T) {
		holdings := []models.Holding{{Quantity: 3, CurrentPrice: 50000}}
		ApplyWeights(holdings)

		if !almostEqual(holdings[0].Weight, 100) {
			t.Errorf("expected weight 100, got %f", holdings[0].Weight)
		}
	})

	t.Run("zero_total_value_yields_zero_weights", func(t *testing.T) {
		holdings := []models.Holding{
			{Quantity: 10, CurrentPrice: 0},
			{Quantity: 5, CurrentPrice: 0},
		}
		ApplyWeights(holdings)

		for i, h := range holdings {
			if h.Weight != 0 {
				t.Errorf("expected zero weight for holding %d, got %f", i, h.Weight)
			}
		}
	})

	t.Run("empty_slice_is_a_noop", func(t *testing.T) {
		ApplyWeights(nil)
		ApplyWeights([]models.Holding{})
	})
}

func TestSummarize(t *testing.T) {
	t.Run("empty_holdings_yield_zero_summary", func(t *testing.T) {
		s := Summarize(nil)
		if s != (Summary{}) {
			t.Errorf("expected zero summary, got %+v", s)
		}
	})

	t.Run("aggregates_over_holdings", func(t *testing.T) {
		holdings := []models.Holding{
			{Quantity: 10, AvgPrice: 100, CurrentPrice: 110, ProfitRate: 10},
			{Quantity: 5, AvgPrice: 200, CurrentPrice: 180, ProfitRate: -10},
		}
		s := Summarize(holdings)

		if !almostEqual(s.TotalAssets, 2000) {
			t.Errorf("expected total assets 2000, got %f", s.TotalAssets)
		}
		if !almostEqual(s.InvestedAmount, 2000) {
			t.Errorf("expected invested amount 2000, got %f", s.InvestedAmount)
		}
		if !almostEqual(s.TotalProfit, 0) {
			t.Errorf("expected total profit 0, got %f", s.TotalProfit)
		}
		// Simple mean of 10 and -10.
		if !almostEqual(s.TotalProfitRate, 0) {
			t.Errorf("expected total profit rate 0, got %f", s.TotalProfitRate)
		}
	})

	t.Run("profit_rate_is_simple_mean_not_weighted", func(t *testing.T) {
		holdings := []models.Holding{
			{Quantity: 1, AvgPrice: 100, CurrentPrice: 150, ProfitRate: 50},
			{Quantity: 1000, AvgPrice: 100, CurrentPrice: 100, ProfitRate: 0},
		}
		s := Summarize(holdings)

		if !almostEqual(s.TotalProfitRate, 25) {
			t.Errorf("expected simple mean 25, got %f", s.TotalProfitRate)
		}
	})

	t.Run("placeholder_figures", func(t *testing.T) {
		holdings := []models.Holding{
			{Quantity: 10, AvgPrice: 100, CurrentPrice: 200, ProfitRate: 100},
		}
		s := Summarize(holdings)

		if !almostEqual(s.TodayProfit, s.TotalProfit*0.1) {
			t.Errorf("expected today profit %f, got %f", s.TotalProfit*0.1, s.TodayProfit)
		}
		if !almostEqual(s.TodayProfitRate, 0.5) {
			t.Errorf("expected today profit rate 0.5, got %f", s.TodayProfitRate)
		}
		if s.CashBalance != 0 {
			t.Errorf("expected zero cash balance, got %f", s.CashBalance)
		}
	})
}
