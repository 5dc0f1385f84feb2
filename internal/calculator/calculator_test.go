package calculator

import (
	"math"
	"testing"

	"forexradar/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlPips(t *testing.T) {
	tests := []struct {
		name      string
		entry, sl float64
		want      float64
	}{
		{"BuyStopBelow", 150.000, 149.800, 20.0},
		{"SellStopAbove", 150.000, 150.255, 25.5},
		{"Equal", 150.000, 150.000, 0},
		{"RoundsToOneDecimal", 150.000, 149.7777, 22.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SlPips(tt.entry, tt.sl)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Equal(t, got, SlPips(tt.sl, tt.entry), "stop distance must be symmetric")
		})
	}
}

func TestResultPips(t *testing.T) {
	assert.Equal(t, 50.0, ResultPips(100.000, 100.500, "buy"))
	assert.Equal(t, -50.0, ResultPips(100.000, 100.500, "sell"))
	assert.Equal(t, 50.0, ResultPips(100.000, 100.500, "BUY"), "side is case-insensitive")
	assert.Equal(t, 12.3, ResultPips(100.000, 100.123, "buy"))
	assert.Equal(t, -12.3, ResultPips(100.123, 100.000, "buy"))
}

func TestPipValuePerLot(t *testing.T) {
	assert.InDelta(t, 6.6667, PipValuePerLot(150), 1e-4)
	assert.Equal(t, 10.0, PipValuePerLot(100))
	assert.Equal(t, 0.0, PipValuePerLot(0))
	assert.Equal(t, 0.0, PipValuePerLot(-150))
}

func TestLotSize(t *testing.T) {
	tests := []struct {
		name                         string
		balance, slPips, entry, risk float64
		want                         float64
	}{
		{"ZeroStopFallsBackToMin", 1000, 0, 150, 0.01, 0.01},
		{"ZeroBalanceFallsBackToMin", 0, 20, 150, 0.01, 0.01},
		{"ZeroEntryFallsBackToMin", 1000, 20, 0, 0.01, 0.01},
		{"NegativeStopFallsBackToMin", 1000, -5, 150, 0.01, 0.01},
		{"Example", 10000, 20, 150, 0.01, 0.75},
		{"DoubleRisk", 10000, 20, 150, 0.02, 1.5},
		{"TinyRiskClampsToMin", 100, 500, 150, 0.001, 0.01},
		{"HugeRiskClampsToMax", 10_000_000, 1, 150, 0.1, 100},
		{"RoundsToStep", 1000, 30, 150, 0.01, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LotSize(tt.balance, tt.slPips, tt.entry, tt.risk)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLotSizeWithLimits(t *testing.T) {
	limits := LotLimits{Step: 0.1, MinLot: 0.1, MaxLot: 5}

	assert.Equal(t, 0.1, LotSizeWithLimits(1000, 0, 150, 0.01, limits))
	// raw 0.789 -> nearest 0.1 step
	assert.InDelta(t, 0.8, LotSizeWithLimits(10000, 19, 150, 0.01, limits), 1e-9)
	assert.Equal(t, 5.0, LotSizeWithLimits(10_000_000, 1, 150, 0.1, limits))
}

func TestProfitLoss(t *testing.T) {
	got := ProfitLoss(150.000, 150.500, "buy", 0.75)
	assert.InDelta(t, 250.0, got, 1e-6)

	loss := ProfitLoss(150.000, 150.500, "sell", 0.75)
	assert.InDelta(t, -250.0, loss, 1e-6)

	assert.Equal(t, 0.0, ProfitLoss(0, 150.5, "buy", 1))
}

func TestCalculator_Idempotent(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, LotSize(12345.67, 17.3, 151.234, 0.015), LotSize(12345.67, 17.3, 151.234, 0.015))
		assert.Equal(t, ProfitLoss(151.234, 150.987, "sell", 0.42), ProfitLoss(151.234, 150.987, "sell", 0.42))
		assert.Equal(t, SlPips(151.234, 150.987), SlPips(151.234, 150.987))
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.4, round(0.35, 1))
	assert.Equal(t, -0.4, round(-0.35, 1), "half away from zero")
	assert.Equal(t, 2.68, round(2.675, 2))
	assert.True(t, math.IsNaN(round(math.NaN(), 1)))
}

func closed(side models.Side, entry, sl, closePrice float64) models.Trade {
	closedAt := "2024-12-17 15:00:00.000Z"
	return models.Trade{
		Ticket:     "T1",
		Pair:       "USDJPY",
		Side:       side,
		EntryPrice: entry,
		StopLoss:   sl,
		ClosePrice: &closePrice,
		OpenedAt:   "2024-12-17 14:30:45.123Z",
		ClosedAt:   &closedAt,
	}
}

func TestLotForTrade(t *testing.T) {
	trade := closed(models.SideBuy, 150.000, 149.800, 150.500)
	lot := LotForTrade(trade, models.Settings{Balance: 10000, RiskPercent: 0.01})
	assert.InDelta(t, 0.75, lot, 1e-9)
}

func TestTradeProfit(t *testing.T) {
	settings := models.Settings{Balance: 10000, RiskPercent: 0.01}

	t.Run("Closed", func(t *testing.T) {
		pl, err := TradeProfit(closed(models.SideBuy, 150.000, 149.800, 150.500), settings)
		require.NoError(t, err)
		assert.InDelta(t, 250.0, pl, 1e-6)
	})

	t.Run("Open", func(t *testing.T) {
		trade := closed(models.SideBuy, 150.000, 149.800, 150.500)
		trade.ClosePrice, trade.ClosedAt = nil, nil
		_, err := TradeProfit(trade, settings)
		assert.ErrorIs(t, err, ErrTradeOpen)
	})

	t.Run("UnknownSide", func(t *testing.T) {
		_, err := TradeProfit(closed("hold", 150.000, 149.800, 150.500), settings)
		assert.ErrorIs(t, err, ErrUnknownSide)
	})

	t.Run("ZeroEntry", func(t *testing.T) {
		_, err := TradeProfit(closed(models.SideSell, 0, 149.800, 150.500), settings)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("NaNClose", func(t *testing.T) {
		_, err := TradeProfit(closed(models.SideSell, 150, 149.800, math.NaN()), settings)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}
