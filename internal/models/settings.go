package models

import "time"

const (
	DefaultBalance     = 1000.0
	DefaultRiskPercent = 0.01 // 1%
)

// Settings are the user-owned account preferences.
type Settings struct {
	Balance float64 `json:"balance"`
	// RiskPercent is a fraction: 0.01 means 1% of balance per trade.
	RiskPercent float64 `json:"risk_percent"`
}

// DefaultSettings returns the settings used when nothing has been saved.
func DefaultSettings() Settings {
	return Settings{Balance: DefaultBalance, RiskPercent: DefaultRiskPercent}
}

// Setting is one persisted key/value preference.
type Setting struct {
	Name      string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}
