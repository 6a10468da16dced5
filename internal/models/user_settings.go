package models

// BrokerageType identifies which brokerage a user's credentials belong to.
type BrokerageType string

const (
	BrokerageKoreaInvestment BrokerageType = "korea_investment"
	BrokerageKiwoom          BrokerageType = "kiwoom"
	BrokerageSamsung         BrokerageType = "samsung"
	BrokerageOther           BrokerageType = "other"
)

// UserSettings holds a user's trading backend URL and brokerage API
// credentials. One row per user; read-only from the sync pipeline's side.
type UserSettings struct {
	Base
	UserID             uint          `gorm:"uniqueIndex;not null" json:"user_id"`
	BackendURL         string        `json:"backend_url"`
	BrokerageType      BrokerageType `json:"brokerage_type"`
	APIKeyEncrypted    string        `json:"-"`
	APISecretEncrypted string        `json:"-"`
	AccountNumber      string        `json:"account_number"`
	UseProduction      bool          `gorm:"default:false" json:"use_production"`
}
