package database

import (
	"errors"
	"fmt"
	"strconv"

	"forexradar/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	BalanceKey     = "forexradar7_balance"
	RiskPercentKey = "forexradar7_risk_percent"
)

// SettingsStore loads and saves the two account preferences.
type SettingsStore interface {
	Load() (models.Settings, error)
	SaveBalance(balance float64) error
	SaveRiskPercent(fraction float64) error
}

// SettingsRepository keeps settings as decimal strings in the settings table.
// Risk is stored percent-valued (1 means 1%) and handled as a fraction in
// memory; the conversion happens here and nowhere else.
type SettingsRepository struct {
	db       *gorm.DB
	logger   *zap.Logger
	defaults models.Settings
}

var _ SettingsStore = (*SettingsRepository)(nil)

// NewSettingsRepository creates a repository falling back to defaults for
// missing or unreadable values.
func NewSettingsRepository(db *gorm.DB, logger *zap.Logger, defaults models.Settings) *SettingsRepository {
	return &SettingsRepository{db: db, logger: logger.Named("settings"), defaults: defaults}
}

// Load reads both settings.
func (r *SettingsRepository) Load() (models.Settings, error) {
	s := r.defaults

	balance, ok, err := r.get(BalanceKey)
	if err != nil {
		return s, err
	}
	if ok {
		s.Balance = balance.InexactFloat64()
	}

	percent, ok, err := r.get(RiskPercentKey)
	if err != nil {
		return s, err
	}
	if ok {
		s.RiskPercent = percent.Shift(-2).InexactFloat64()
	}

	r.logger.Info("Settings loaded",
		zap.Float64("balance", s.Balance),
		zap.Float64("risk_percent", s.RiskPercent),
	)
	return s, nil
}

// SaveBalance stores the balance.
func (r *SettingsRepository) SaveBalance(balance float64) error {
	return r.put(BalanceKey, strconv.FormatFloat(balance, 'f', -1, 64))
}

// SaveRiskPercent stores a risk fraction as its percent value.
func (r *SettingsRepository) SaveRiskPercent(fraction float64) error {
	return r.put(RiskPercentKey, decimal.NewFromFloat(fraction).Shift(2).String())
}

func (r *SettingsRepository) get(name string) (decimal.Decimal, bool, error) {
	var row models.Setting
	err := r.db.First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read setting %s: %w", name, err)
	}

	v, err := decimal.NewFromString(row.Value)
	if err != nil {
		r.logger.Warn("Ignoring unreadable setting", zap.String("name", name), zap.String("value", row.Value))
		return decimal.Zero, false, nil
	}
	return v, true, nil
}

func (r *SettingsRepository) put(name, value string) error {
	row := models.Setting{Name: name, Value: value}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", name, err)
	}
	return nil
}
