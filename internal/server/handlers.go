package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"go.uber.org/zap"
)

const (
	MinRiskPercent = 0.1
	MaxRiskPercent = 10.0
)

var (
	ErrInvalidBalance     = errors.New("please enter a valid balance amount greater than 0")
	ErrInvalidRiskPercent = fmt.Errorf("risk percentage must be between %.1f%% and %.0f%%", MinRiskPercent, MaxRiskPercent)
)

type handler struct {
	dashboard Dashboard
	logger    *zap.Logger
}

// SettingsRequest updates either or both settings. RiskPercent is a
// percentage (1.5 means 1.5%).
type SettingsRequest struct {
	Balance     *float64 `json:"balance"`
	RiskPercent *float64 `json:"risk_percent"`
}

// ValidateBalance accepts positive finite balances.
func ValidateBalance(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return ErrInvalidBalance
	}
	return nil
}

// ValidateRiskPercent accepts a percentage in [0.1, 10].
func ValidateRiskPercent(percent float64) error {
	if math.IsNaN(percent) || percent < MinRiskPercent || percent > MaxRiskPercent {
		return ErrInvalidRiskPercent
	}
	return nil
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (h *handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.dashboard.View())
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Refresh(r.Context()); err != nil {
		h.writeError(w, http.StatusBadGateway, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.dashboard.View())
}

func (h *handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Balance == nil && req.RiskPercent == nil {
		h.writeError(w, http.StatusBadRequest, errors.New("nothing to update"))
		return
	}

	// Validate everything before touching the session.
	if req.Balance != nil {
		if err := ValidateBalance(*req.Balance); err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if req.RiskPercent != nil {
		if err := ValidateRiskPercent(*req.RiskPercent); err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	if req.Balance != nil {
		if err := h.dashboard.SetBalance(*req.Balance); err != nil {
			h.writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	if req.RiskPercent != nil {
		if err := h.dashboard.SetRiskPercent(*req.RiskPercent / 100); err != nil {
			h.writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, h.dashboard.View())
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) writeError(w http.ResponseWriter, status int, err error) {
	h.logger.Warn("Request failed", zap.Int("status", status), zap.Error(err))
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
