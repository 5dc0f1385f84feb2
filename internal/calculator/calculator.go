// Package calculator implements the USDJPY position-sizing and profit math.
//
// All figures assume a JPY-quoted pair: 1 pip is 0.01 price units and the pip
// value of one lot is 1000/entry USD. Every function is pure.
package calculator

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	PipMultiplier = 100.0
	// pipValueNumerator / entry is the USD value of one pip on one lot.
	pipValueNumerator = 1000.0
)

// LotLimits are the broker constraints applied to a recommended lot.
type LotLimits struct {
	Step   float64
	MinLot float64
	MaxLot float64
}

// DefaultLotLimits matches the broker's USDJPY contract.
var DefaultLotLimits = LotLimits{Step: 0.01, MinLot: 0.01, MaxLot: 100.0}

// SlPips returns the stop distance in pips, rounded to one decimal.
func SlPips(entry, stopLoss float64) float64 {
	return round(math.Abs(entry-stopLoss)*PipMultiplier, 1)
}

// ResultPips returns the signed pip result of a closed trade, rounded to one
// decimal. Positive is profit. Any side other than "buy" is treated as a sell.
func ResultPips(entry, closePrice float64, side string) float64 {
	var pips float64
	if strings.EqualFold(side, "buy") {
		pips = (closePrice - entry) * PipMultiplier
	} else {
		pips = (entry - closePrice) * PipMultiplier
	}
	return round(pips, 1)
}

// PipValuePerLot returns the USD value of one pip on one lot, or 0 for a
// non-positive entry price.
func PipValuePerLot(entry float64) float64 {
	if entry <= 0 {
		return 0
	}
	return pipValueNumerator / entry
}

// RiskAmount is the USD amount at stake per trade.
func RiskAmount(balance, riskPct float64) float64 {
	return balance * riskPct
}

// LotSize returns the recommended lot under DefaultLotLimits.
func LotSize(balance, slPips, entry, riskPct float64) float64 {
	return LotSizeWithLimits(balance, slPips, entry, riskPct, DefaultLotLimits)
}

// LotSizeWithLimits sizes a position so that hitting the stop loses
// balance*riskPct. Non-positive stop distance, balance or entry yield
// limits.MinLot; that is a fallback, not a computed size.
func LotSizeWithLimits(balance, slPips, entry, riskPct float64, limits LotLimits) float64 {
	if slPips <= 0 || balance <= 0 || entry <= 0 {
		return limits.MinLot
	}

	riskAmount := RiskAmount(balance, riskPct)
	rawLot := riskAmount / (slPips * PipValuePerLot(entry))

	stepped := roundToStep(rawLot, limits.Step)
	clamped := math.Max(limits.MinLot, math.Min(limits.MaxLot, stepped))

	return round(clamped, 2)
}

// ProfitLoss returns the USD result of a closed trade of the given lot.
func ProfitLoss(entry, closePrice float64, side string, lot float64) float64 {
	return ResultPips(entry, closePrice, side) * PipValuePerLot(entry) * lot
}

// round rounds half away from zero. The float is first converted to its
// shortest decimal form so 0.35 rounds like 0.35 and not like 0.34999...
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func roundToStep(v, step float64) float64 {
	if step <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	s := decimal.NewFromFloat(step)
	return decimal.NewFromFloat(v).Div(s).Round(0).Mul(s).InexactFloat64()
}
