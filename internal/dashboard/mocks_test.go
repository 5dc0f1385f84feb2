package dashboard

import (
	"context"
	"errors"
	"sync"

	"forexradar/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockRecordsClient is a mock implementation of records.ClientInterface.
type MockRecordsClient struct {
	mock.Mock
}

func (m *MockRecordsClient) FetchOpenTrade(ctx context.Context) (*models.Trade, error) {
	args := m.Called(ctx)
	return args.Get(0).(*models.Trade), args.Error(1)
}

func (m *MockRecordsClient) FetchHistory(ctx context.Context, pageSize int) ([]models.Trade, error) {
	args := m.Called(ctx, pageSize)
	return args.Get(0).([]models.Trade), args.Error(1)
}

func (m *MockRecordsClient) FetchAll(ctx context.Context, pageSize int) (*models.Trade, []models.Trade, error) {
	args := m.Called(ctx, pageSize)
	return args.Get(0).(*models.Trade), args.Get(1).([]models.Trade), args.Error(2)
}

func (m *MockRecordsClient) Ping(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

// memoryStore is an in-memory database.SettingsStore.
type memoryStore struct {
	mu       sync.Mutex
	settings *models.Settings
	saves    int
	fail     bool
}

func (m *memoryStore) Load() (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return models.DefaultSettings(), nil
	}
	return *m.settings, nil
}

func (m *memoryStore) SaveBalance(balance float64) error {
	return m.save(func(s *models.Settings) { s.Balance = balance })
}

func (m *memoryStore) SaveRiskPercent(fraction float64) error {
	return m.save(func(s *models.Settings) { s.RiskPercent = fraction })
}

func (m *memoryStore) save(apply func(*models.Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("disk full")
	}
	if m.settings == nil {
		d := models.DefaultSettings()
		m.settings = &d
	}
	apply(m.settings)
	m.saves++
	return nil
}

func closedTrade(ticket string, side models.Side, entry, sl, closePrice float64) models.Trade {
	closedAt := "2024-12-17 15:00:00.000Z"
	return models.Trade{
		Ticket:     ticket,
		Pair:       "USDJPY",
		Side:       side,
		EntryPrice: entry,
		StopLoss:   sl,
		ClosePrice: &closePrice,
		OpenedAt:   "2024-12-17 14:30:45.123Z",
		ClosedAt:   &closedAt,
	}
}

func openTrade(ticket string) *models.Trade {
	return &models.Trade{
		Ticket:     ticket,
		Pair:       "USDJPY",
		Side:       models.SideBuy,
		EntryPrice: 150.000,
		StopLoss:   149.800,
		OpenedAt:   "2024-12-18 08:00:00.000Z",
	}
}
