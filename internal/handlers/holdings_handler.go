package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradepilot/internal/models"
	"tradepilot/internal/services"
)

// HoldingsHandler handles holdings and portfolio-summary requests.
type HoldingsHandler struct {
	holdingsService services.HoldingsServicer
}

// NewHoldingsHandler creates a new HoldingsHandler.
func NewHoldingsHandler(holdingsService services.HoldingsServicer) *HoldingsHandler {
	return &HoldingsHandler{holdingsService: holdingsService}
}

// HoldingResponse represents one holding row enriched with derived amounts.
type HoldingResponse struct {
	ID           string  `json:"id"`
	StockCode    string  `json:"stock_code"`
	StockName    string  `json:"stock_name"`
	AccountName  string  `json:"account_name"`
	Quantity     int64   `json:"quantity"`
	AvgPrice     float64 `json:"avg_price"`
	CurrentPrice float64 `json:"current_price"`
	ProfitRate   float64 `json:"profit_rate"`
	ProfitAmount float64 `json:"profit_amount"`
	TotalValue   float64 `json:"total_value"`
	Weight       float64 `json:"weight"`
	UpdatedAt    string  `json:"updated_at"`
}

// SyncResponse represents the result of a holdings sync.
type SyncResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func holdingResponse(h models.Holding) HoldingResponse {
	qty := float64(h.Quantity)
	return HoldingResponse{
		ID:           h.ID,
		StockCode:    h.StockCode,
		StockName:    h.StockName,
		AccountName:  h.AccountName,
		Quantity:     h.Quantity,
		AvgPrice:     h.AvgPrice,
		CurrentPrice: h.CurrentPrice,
		ProfitRate:   h.ProfitRate,
		ProfitAmount: (h.CurrentPrice - h.AvgPrice) * qty,
		TotalValue:   h.CurrentPrice * qty,
		Weight:       h.Weight,
		UpdatedAt:    h.UpdatedAt.Format(time.RFC3339),
	}
}

// GetHoldings returns the user's current holdings, heaviest weight first.
// @Summary     List holdings
// @Description Get the authenticated user's current holdings
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} HoldingResponse "Current holdings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /holdings [get]
func (h *HoldingsHandler) GetHoldings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.holdingsService.GetHoldings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	out := make([]HoldingResponse, len(holdings))
	for i, holding := range holdings {
		out[i] = holdingResponse(holding)
	}
	c.JSON(http.StatusOK, gin.H{"holdings": out})
}

// SyncHoldings fetches fresh holdings from the user's brokerage and replaces
// the stored set.
// @Summary     Sync holdings
// @Description Fetch the balance from the configured brokerage and replace stored holdings
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SyncResponse "Sync result"
// @Failure     400 {object} ErrorResponse "Brokerage not configured"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Brokerage or storage failure"
// @Router      /holdings/sync [post]
func (h *HoldingsHandler) SyncHoldings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	count, err := h.holdingsService.Sync(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d개 종목 동기화 완료", count),
		"count":   count,
	})
}

// GetPortfolioSummary returns the aggregated portfolio summary.
// @Summary     Portfolio summary
// @Description Get aggregated portfolio metrics derived from stored holdings
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} portfolio.Summary "Portfolio summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio/summary [get]
func (h *HoldingsHandler) GetPortfolioSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.holdingsService.GetPortfolioSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
