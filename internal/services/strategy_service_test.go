package services

import (
	"testing"

	"tradepilot/internal/models"
	"tradepilot/internal/pagination"
	"tradepilot/internal/testutil"
)

func TestCreateStrategy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewStrategyService(db)

	user := testutil.CreateTestUser(t, db)
	strategy, err := svc.CreateStrategy(user.ID, StrategyInput{
		Name:         "Momentum",
		Description:  "Volume breakout strategy",
		PositionSize: 10,
		TakeProfit:   5,
		StopLoss:     3,
	})
	testutil.AssertNoError(t, err)

	if strategy.Status != models.StrategyStatusPaused {
		t.Errorf("new strategies must start paused, got %s", strategy.Status)
	}
	if strategy.Name != "Momentum" {
		t.Errorf("unexpected name %q", strategy.Name)
	}
}

func TestGetUserStrategies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewStrategyService(db)

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	for i := 0; i < 3; i++ {
		testutil.CreateTestStrategy(t, db, user.ID, models.StrategyStatusPaused)
	}
	testutil.CreateTestStrategy(t, db, other.ID, models.StrategyStatusActive)

	result, err := svc.GetUserStrategies(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if result.TotalItems != 3 {
		t.Errorf("expected 3 strategies, got %d", result.TotalItems)
	}
	for _, s := range result.Data {
		if s.UserID != user.ID {
			t.Error("listing leaked another user's strategy")
		}
	}
}

func TestToggleStrategy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewStrategyService(db)

	user := testutil.CreateTestUser(t, db)
	strategy := testutil.CreateTestStrategy(t, db, user.ID, models.StrategyStatusPaused)

	toggled, err := svc.ToggleStrategy(user.ID, strategy.ID, true)
	testutil.AssertNoError(t, err)
	if toggled.Status != models.StrategyStatusActive {
		t.Errorf("expected active, got %s", toggled.Status)
	}

	toggled, err = svc.ToggleStrategy(user.ID, strategy.ID, false)
	testutil.AssertNoError(t, err)
	if toggled.Status != models.StrategyStatusPaused {
		t.Errorf("expected paused, got %s", toggled.Status)
	}

	t.Run("other_users_strategy", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		_, err := svc.ToggleStrategy(other.ID, strategy.ID, true)
		testutil.AssertAppError(t, err, "STRATEGY_NOT_FOUND")
	})
}

func TestEmergencyStop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewStrategyService(db)

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	testutil.CreateTestStrategy(t, db, user.ID, models.StrategyStatusActive)
	testutil.CreateTestStrategy(t, db, user.ID, models.StrategyStatusActive)
	testutil.CreateTestStrategy(t, db, user.ID, models.StrategyStatusPaused)
	otherStrategy := testutil.CreateTestStrategy(t, db, other.ID, models.StrategyStatusActive)

	stopped, err := svc.EmergencyStop(user.ID)
	testutil.AssertNoError(t, err)

	if stopped != 2 {
		t.Errorf("expected 2 strategies stopped, got %d", stopped)
	}

	var remaining int64
	db.Model(&models.Strategy{}).
		Where("user_id = ? AND status = ?", user.ID, models.StrategyStatusActive).
		Count(&remaining)
	if remaining != 0 {
		t.Errorf("expected no active strategies left, got %d", remaining)
	}

	var otherAfter models.Strategy
	db.First(&otherAfter, otherStrategy.ID)
	if otherAfter.Status != models.StrategyStatusActive {
		t.Error("emergency stop must not touch other users' strategies")
	}
}

func TestSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewStrategyService(db)

	user := testutil.CreateTestUser(t, db)
	strategy := testutil.CreateTestStrategy(t, db, user.ID, models.StrategyStatusActive)

	t.Run("status_only", func(t *testing.T) {
		updated, err := svc.SetStatus(strategy.ID, models.StrategyStatusError, nil)
		testutil.AssertNoError(t, err)
		if updated.Status != models.StrategyStatusError {
			t.Errorf("expected error status, got %s", updated.Status)
		}
	})

	t.Run("with_profit_rate", func(t *testing.T) {
		rate := 3.7
		updated, err := svc.SetStatus(strategy.ID, models.StrategyStatusActive, &rate)
		testutil.AssertNoError(t, err)
		if updated.ProfitRate != 3.7 {
			t.Errorf("expected profit rate 3.7, got %f", updated.ProfitRate)
		}
	})

	t.Run("unknown_strategy", func(t *testing.T) {
		_, err := svc.SetStatus(99999, models.StrategyStatusActive, nil)
		testutil.AssertAppError(t, err, "STRATEGY_NOT_FOUND")
	})
}
