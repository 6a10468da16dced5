package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "tradepilot/internal/errors"
	"tradepilot/internal/models"
	"tradepilot/internal/services"
)

func setupStrategyRouter(handler *StrategyHandler) *gin.Engine {
	r := gin.New()
	authed := r.Group("/", injectUserID(1))
	authed.POST("/strategies", handler.CreateStrategy)
	authed.GET("/strategies", handler.GetStrategies)
	authed.PUT("/strategies/:id", handler.UpdateStrategy)
	authed.POST("/strategies/:id/toggle", handler.ToggleStrategy)
	authed.POST("/strategies/emergency-stop", handler.EmergencyStop)
	r.PUT("/pipeline/strategies/:id/status", handler.SetStatus)
	return r
}

func TestStrategyHandler_CreateStrategy(t *testing.T) {
	t.Run("returns 201", func(t *testing.T) {
		svc := &mockStrategyService{
			createStrategyFn: func(userID uint, input services.StrategyInput) (*models.Strategy, error) {
				return &models.Strategy{
					Base:   models.Base{ID: 7},
					UserID: userID,
					Name:   input.Name,
					Status: models.StrategyStatusPaused,
				}, nil
			},
		}
		r := setupStrategyRouter(NewStrategyHandler(svc))

		rec := doRequest(r, "POST", "/strategies",
			`{"name":"Momentum","position_size":10,"take_profit":5,"stop_loss":3}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		strategy := result["strategy"].(map[string]interface{})
		if strategy["status"] != "paused" {
			t.Errorf("expected paused status, got %v", strategy["status"])
		}
	})

	t.Run("requires name", func(t *testing.T) {
		r := setupStrategyRouter(NewStrategyHandler(&mockStrategyService{}))

		rec := doRequest(r, "POST", "/strategies", `{"position_size":10}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStrategyHandler_ToggleStrategy(t *testing.T) {
	t.Run("activates", func(t *testing.T) {
		var gotActive bool
		svc := &mockStrategyService{
			toggleStrategyFn: func(userID, strategyID uint, active bool) (*models.Strategy, error) {
				gotActive = active
				return &models.Strategy{Base: models.Base{ID: strategyID}, Status: models.StrategyStatusActive}, nil
			},
		}
		r := setupStrategyRouter(NewStrategyHandler(svc))

		rec := doRequest(r, "POST", "/strategies/7/toggle", `{"active":true}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotActive {
			t.Error("expected active=true to pass through")
		}
	})

	t.Run("active field required", func(t *testing.T) {
		r := setupStrategyRouter(NewStrategyHandler(&mockStrategyService{}))

		rec := doRequest(r, "POST", "/strategies/7/toggle", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("bad path id", func(t *testing.T) {
		r := setupStrategyRouter(NewStrategyHandler(&mockStrategyService{}))

		rec := doRequest(r, "POST", "/strategies/abc/toggle", `{"active":true}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockStrategyService{
			toggleStrategyFn: func(uint, uint, bool) (*models.Strategy, error) {
				return nil, apperrors.ErrStrategyNotFound
			},
		}
		r := setupStrategyRouter(NewStrategyHandler(svc))

		rec := doRequest(r, "POST", "/strategies/99/toggle", `{"active":true}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "STRATEGY_NOT_FOUND")
	})
}

func TestStrategyHandler_EmergencyStop(t *testing.T) {
	svc := &mockStrategyService{
		emergencyStopFn: func(userID uint) (int64, error) { return 4, nil },
	}
	r := setupStrategyRouter(NewStrategyHandler(svc))

	rec := doRequest(r, "POST", "/strategies/emergency-stop", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["stopped"].(float64) != 4 {
		t.Errorf("expected 4 stopped, got %v", result["stopped"])
	}
}

func TestStrategyHandler_SetStatus(t *testing.T) {
	t.Run("applies status and profit rate", func(t *testing.T) {
		var gotStatus models.StrategyStatus
		var gotRate *float64
		svc := &mockStrategyService{
			setStatusFn: func(strategyID uint, status models.StrategyStatus, profitRate *float64) (*models.Strategy, error) {
				gotStatus = status
				gotRate = profitRate
				return &models.Strategy{Base: models.Base{ID: strategyID}, Status: status}, nil
			},
		}
		r := setupStrategyRouter(NewStrategyHandler(svc))

		rec := doRequest(r, "PUT", "/pipeline/strategies/7/status",
			`{"status":"error","profit_rate":-2.5}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotStatus != models.StrategyStatusError {
			t.Errorf("expected error status, got %s", gotStatus)
		}
		if gotRate == nil || *gotRate != -2.5 {
			t.Errorf("expected profit rate -2.5, got %v", gotRate)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		r := setupStrategyRouter(NewStrategyHandler(&mockStrategyService{}))

		rec := doRequest(r, "PUT", "/pipeline/strategies/7/status", `{"status":"exploded"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
