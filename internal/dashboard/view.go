package dashboard

import (
	"time"

	"forexradar/internal/calculator"
	"forexradar/internal/models"
)

// View is the display form of a State, with per-trade figures computed at
// the current settings.
type View struct {
	Account      AccountView `json:"account"`
	RunningTrade *TradeView  `json:"running_trade"`
	History      []TradeView `json:"history"`
	IsLoading    bool        `json:"is_loading"`
	Error        string      `json:"error,omitempty"`
	LastUpdated  *time.Time  `json:"last_updated,omitempty"`
}

// AccountView summarizes balance, risk and realized profit.
type AccountView struct {
	Balance       float64 `json:"balance"`
	RiskPercent   float64 `json:"risk_percent"` // percent, 1 = 1%
	RiskAmount    float64 `json:"risk_amount"`
	TotalProfit   float64 `json:"total_profit"`
	ProfitPercent float64 `json:"profit_percent"`
	SkippedTrades int     `json:"skipped_trades,omitempty"`
}

// TradeView carries one trade and the figures shown for it.
type TradeView struct {
	Ticket         string   `json:"ticket"`
	Pair           string   `json:"pair"`
	Side           string   `json:"side"`
	Status         string   `json:"status"`
	EntryPrice     float64  `json:"entry_price"`
	StopLoss       float64  `json:"stop_loss"`
	ClosePrice     *float64 `json:"close_price,omitempty"`
	SlPips         float64  `json:"sl_pips"`
	PipValuePerLot float64  `json:"pip_value_per_lot"`
	Lot            float64  `json:"lot"`
	RiskAmount     float64  `json:"risk_amount"`
	ResultPips     *float64 `json:"result_pips,omitempty"`
	ProfitUSD      *float64 `json:"profit_usd,omitempty"`
	OpenedAt       string   `json:"opened_at"`
	ClosedAt       *string  `json:"closed_at,omitempty"`
	DisplayTime    string   `json:"display_time"`
}

const (
	StatusRunning = "running"
	StatusClosed  = "closed"
)

// NewView renders a state.
func NewView(s State) View {
	v := View{
		Account: AccountView{
			Balance:       s.Settings.Balance,
			RiskPercent:   s.Settings.RiskPercent * 100,
			RiskAmount:    calculator.RiskAmount(s.Settings.Balance, s.Settings.RiskPercent),
			TotalProfit:   s.TotalProfit,
			SkippedTrades: len(s.Skipped),
		},
		History:   make([]TradeView, 0, len(s.History)),
		IsLoading: s.IsLoading,
		Error:     s.Error,
	}
	if s.Settings.Balance > 0 {
		v.Account.ProfitPercent = s.TotalProfit / s.Settings.Balance * 100
	}
	if !s.LastUpdated.IsZero() {
		at := s.LastUpdated
		v.LastUpdated = &at
	}
	if s.RunningTrade != nil {
		tv := NewTradeView(*s.RunningTrade, s.Settings)
		v.RunningTrade = &tv
	}
	for _, t := range s.History {
		v.History = append(v.History, NewTradeView(t, s.Settings))
	}
	return v
}

// NewTradeView computes the per-trade figures. Result pips and profit are set
// only for closed trades.
func NewTradeView(t models.Trade, settings models.Settings) TradeView {
	lot := calculator.LotForTrade(t, settings)
	v := TradeView{
		Ticket:         t.Ticket,
		Pair:           t.Pair,
		Side:           string(t.Side),
		Status:         StatusRunning,
		EntryPrice:     t.EntryPrice,
		StopLoss:       t.StopLoss,
		ClosePrice:     t.ClosePrice,
		SlPips:         calculator.SlPips(t.EntryPrice, t.StopLoss),
		PipValuePerLot: calculator.PipValuePerLot(t.EntryPrice),
		Lot:            lot,
		RiskAmount:     calculator.RiskAmount(settings.Balance, settings.RiskPercent),
		OpenedAt:       t.OpenedAt,
		ClosedAt:       t.ClosedAt,
		DisplayTime:    DisplayTime(t.OpenedAt),
	}
	if t.IsOpen() {
		return v
	}

	v.Status = StatusClosed
	pips := calculator.ResultPips(t.EntryPrice, *t.ClosePrice, string(t.Side))
	profit := calculator.ProfitLoss(t.EntryPrice, *t.ClosePrice, string(t.Side), lot)
	v.ResultPips, v.ProfitUSD = &pips, &profit
	if t.ClosedAt != nil {
		v.DisplayTime = DisplayTime(*t.ClosedAt)
	}
	return v
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.000Z",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// DisplayTime formats a broker timestamp as "Dec 17, 14:30" without changing
// its zone. Unparseable input is returned unchanged.
func DisplayTime(ts string) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("Jan 2, 15:04")
		}
	}
	return ts
}
