package calculator

import (
	"errors"
	"fmt"
	"math"

	"forexradar/internal/models"
)

var (
	ErrTradeOpen    = errors.New("trade is still open")
	ErrUnknownSide  = errors.New("unknown trade side")
	ErrInvalidPrice = errors.New("invalid price")
)

// LotForTrade returns the lot the current settings recommend for a trade.
func LotForTrade(t models.Trade, s models.Settings) float64 {
	return LotSize(s.Balance, SlPips(t.EntryPrice, t.StopLoss), t.EntryPrice, s.RiskPercent)
}

// TradeProfit evaluates one closed trade at the current settings. The lot is
// sized with the settings passed in, not the ones in force when the trade was
// opened.
func TradeProfit(t models.Trade, s models.Settings) (float64, error) {
	if t.IsOpen() {
		return 0, ErrTradeOpen
	}
	if !t.Side.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSide, t.Side)
	}
	if t.EntryPrice <= 0 || !finite(t.EntryPrice) || !finite(t.StopLoss) || !finite(*t.ClosePrice) {
		return 0, fmt.Errorf("%w: entry %v, stop %v, close %v", ErrInvalidPrice, t.EntryPrice, t.StopLoss, *t.ClosePrice)
	}

	lot := LotForTrade(t, s)
	pl := ProfitLoss(t.EntryPrice, *t.ClosePrice, string(t.Side), lot)
	if !finite(pl) {
		return 0, fmt.Errorf("%w: non-finite result %v", ErrInvalidPrice, pl)
	}
	return pl, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
