package models

import "strings"

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide normalizes a wire side value. Unknown values are returned
// lower-cased as-is; callers decide whether that is an error.
func ParseSide(s string) Side {
	return Side(strings.ToLower(strings.TrimSpace(s)))
}

// Valid reports whether the side is buy or sell.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Trade is one USDJPY position as reported by the records API.
// A trade is open iff ClosePrice and ClosedAt are both nil.
type Trade struct {
	Ticket     string   `json:"ticket"`
	Pair       string   `json:"pair"`
	Side       Side     `json:"side"`
	EntryPrice float64  `json:"entry_price"`
	StopLoss   float64  `json:"stop_loss"`
	ClosePrice *float64 `json:"close_price,omitempty"`
	OpenedAt   string   `json:"opened_at"`
	ClosedAt   *string  `json:"closed_at,omitempty"`
}

// IsOpen reports whether the trade is still running.
func (t Trade) IsOpen() bool {
	return t.ClosePrice == nil
}
