package records

import (
	"fmt"
	"strings"

	"forexradar/internal/models"
	"github.com/spf13/cast"
)

// ListResponse is the paginated envelope returned by the records endpoint.
type ListResponse struct {
	Items      []Record `json:"items"`
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
}

// Record is a raw trade record as stored by the records API.
// Fields are untyped because the API may return prices as numbers or strings.
type Record struct {
	Pair       any `json:"pair"`
	Side       any `json:"side"`
	EntryPrice any `json:"entry_price"`
	StopLoss   any `json:"stop_loss"`
	ClosePrice any `json:"close_price"`
	OpenedAt   any `json:"opened_at"`
	ClosedAt   any `json:"closed_at"`
	Ticket     any `json:"ticket"`
}

// Trade normalizes the record into the canonical trade shape.
// A close price of 0 or null and an empty close time both mean "open".
func (r Record) Trade() (models.Trade, error) {
	ticket, err := cast.ToStringE(r.Ticket)
	if err != nil || ticket == "" {
		return models.Trade{}, fmt.Errorf("%w: missing ticket", ErrMalformedRecord)
	}

	fail := func(field string, err error) (models.Trade, error) {
		return models.Trade{}, fmt.Errorf("%w: ticket %s: %s: %v", ErrMalformedRecord, ticket, field, err)
	}

	entry, err := price(r.EntryPrice)
	if err != nil {
		return fail("entry_price", err)
	}
	stop, err := price(r.StopLoss)
	if err != nil {
		return fail("stop_loss", err)
	}

	var closePrice *float64
	if !blank(r.ClosePrice) {
		v, err := price(r.ClosePrice)
		if err != nil {
			return fail("close_price", err)
		}
		if v != 0 {
			closePrice = &v
		}
	}

	var closedAt *string
	if s := cast.ToString(r.ClosedAt); s != "" {
		closedAt = &s
	}

	if (closePrice == nil) != (closedAt == nil) {
		return fail("close_price/closed_at", fmt.Errorf("close price present=%t but close time present=%t",
			closePrice != nil, closedAt != nil))
	}

	return models.Trade{
		Ticket:     ticket,
		Pair:       strings.ToUpper(cast.ToString(r.Pair)),
		Side:       models.ParseSide(cast.ToString(r.Side)),
		EntryPrice: entry,
		StopLoss:   stop,
		ClosePrice: closePrice,
		OpenedAt:   cast.ToString(r.OpenedAt),
		ClosedAt:   closedAt,
	}, nil
}

// EncodeRecord is the inverse of Record.Trade: an open trade is written with
// close_price 0 and an empty closed_at, as the API stores it.
func EncodeRecord(t models.Trade) Record {
	r := Record{
		Pair:       t.Pair,
		Side:       string(t.Side),
		EntryPrice: t.EntryPrice,
		StopLoss:   t.StopLoss,
		ClosePrice: 0.0,
		OpenedAt:   t.OpenedAt,
		ClosedAt:   "",
		Ticket:     t.Ticket,
	}
	if t.ClosePrice != nil {
		r.ClosePrice = *t.ClosePrice
	}
	if t.ClosedAt != nil {
		r.ClosedAt = *t.ClosedAt
	}
	return r
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func price(v any) (float64, error) {
	switch v.(type) {
	case nil:
		return 0, fmt.Errorf("missing value")
	case bool:
		return 0, fmt.Errorf("unexpected boolean")
	}
	return cast.ToFloat64E(v)
}
