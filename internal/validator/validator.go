// Package validator registers custom validation functions with Gin's
// binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("brokerage_type", validateBrokerageType)
		_ = v.RegisterValidation("strategy_status", validateStrategyStatus)
		_ = v.RegisterValidation("log_category", validateLogCategory)
		_ = v.RegisterValidation("log_level", validateLogLevel)
	}
}

func validateBrokerageType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "korea_investment", "kiwoom", "samsung", "other":
		return true
	}
	return false
}

func validateStrategyStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "paused", "error":
		return true
	}
	return false
}

func validateLogCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "System", "Strategy", "Trade":
		return true
	}
	return false
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "INFO", "WARN", "ERROR":
		return true
	}
	return false
}
