package dashboard

import (
	"time"

	"forexradar/internal/calculator"
	"forexradar/internal/models"
)

// State is the session snapshot read by the presentation layer.
type State struct {
	RunningTrade *models.Trade
	History      []models.Trade
	Settings     models.Settings
	TotalProfit  float64
	IsLoading    bool
	Error        string
	LastUpdated  time.Time
	// Skipped lists closed trades left out of TotalProfit by the last calculation.
	Skipped []SkippedTrade
}

// SkippedTrade is a closed trade whose profit could not be evaluated.
type SkippedTrade struct {
	Ticket string
	Err    error
}

// NewState returns the initial state for the given settings.
func NewState(settings models.Settings) State {
	return State{Settings: settings}
}

// Action is a state transition consumed by Reduce.
type Action interface {
	isAction()
}

type (
	SetLoading struct{ Loading bool }
	// SetError records a failure message; an empty message clears it.
	SetError struct{ Message string }
	// SetTrades replaces the running trade and history wholesale.
	SetTrades struct {
		Running *models.Trade
		History []models.Trade
		At      time.Time
	}
	SetBalance     struct{ Balance float64 }
	SetRiskPercent struct{ RiskPercent float64 }
	// CalculateTotalProfit re-evaluates every closed trade at the current settings.
	CalculateTotalProfit struct{}
)

func (SetLoading) isAction()           {}
func (SetError) isAction()             {}
func (SetTrades) isAction()            {}
func (SetBalance) isAction()           {}
func (SetRiskPercent) isAction()       {}
func (CalculateTotalProfit) isAction() {}

// Reduce applies one action. It never mutates the input state.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetLoading:
		s.IsLoading = a.Loading
	case SetError:
		s.Error = a.Message
		s.IsLoading = false
	case SetTrades:
		s.RunningTrade = a.Running
		s.History = a.History
		s.LastUpdated = a.At
		s.IsLoading = false
		s.Error = ""
	case SetBalance:
		s.Settings.Balance = a.Balance
	case SetRiskPercent:
		s.Settings.RiskPercent = a.RiskPercent
	case CalculateTotalProfit:
		s.TotalProfit, s.Skipped = sumProfit(s.History, s.Settings)
	}
	return s
}

func sumProfit(history []models.Trade, settings models.Settings) (float64, []SkippedTrade) {
	var (
		total   float64
		skipped []SkippedTrade
	)
	for _, t := range history {
		if t.IsOpen() {
			continue
		}
		pl, err := calculator.TradeProfit(t, settings)
		if err != nil {
			skipped = append(skipped, SkippedTrade{Ticket: t.Ticket, Err: err})
			continue
		}
		total += pl
	}
	return total, skipped
}
