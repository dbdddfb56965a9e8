package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/internal/screener"
	"github.com/wonny/superinvestor/pkg/logger"
)

// Runner executes one screening pass (satisfied by *screener.Shared)
type Runner interface {
	Run(ctx context.Context, progress screener.ProgressFunc) (*contracts.Result, error)
}

// StatusHeader tells CSV clients why a download has no body
const StatusHeader = "X-Screener-Status"

// Response statuses
const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

// HoldingsResponse is the JSON body of GET /api/holdings
type HoldingsResponse struct {
	Status   string                  `json:"status"`
	RunID    string                  `json:"run_id,omitempty"`
	Count    int                     `json:"count"`
	Enriched int                     `json:"enriched"`
	Message  string                  `json:"message,omitempty"`
	Rows     []contracts.EnrichedRow `json:"rows"`
}

// ProgressResponse is the JSON body of GET /api/holdings/progress
type ProgressResponse struct {
	Status   string              `json:"status"`
	Progress *contracts.Progress `json:"progress,omitempty"`
	Fraction float64             `json:"fraction"`
}

// HoldingsHandler serves screener results.
// The runner records progress into tracker; the handler only reads it.
// ⭐ SSOT: 스크리너 API 핸들러는 이 구조체에서만
type HoldingsHandler struct {
	runner  Runner
	tracker *screener.Tracker
	logger  *logger.Logger
}

// NewHoldingsHandler creates a new holdings handler
func NewHoldingsHandler(runner Runner, tracker *screener.Tracker, log *logger.Logger) *HoldingsHandler {
	return &HoldingsHandler{
		runner:  runner,
		tracker: tracker,
		logger:  log,
	}
}

// GetHoldings runs the screener and returns all rows
// GET /api/holdings
func (h *HoldingsHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.Run(r.Context(), nil)
	if err != nil {
		if errors.Is(err, contracts.ErrEmptyResult) {
			respondJSON(w, http.StatusOK, HoldingsResponse{
				Status:  StatusNoData,
				Message: contracts.ErrEmptyResult.Error(),
				Rows:    []contracts.EnrichedRow{},
			})
			return
		}
		h.respondRunError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, HoldingsResponse{
		Status:   StatusOK,
		RunID:    result.RunID,
		Count:    len(result.Rows),
		Enriched: result.Enriched,
		Rows:     result.Rows,
	})
}

// GetHoldingsCSV runs the screener and returns the CSV export as a download.
// An empty result is a 404 no-data response, never a header-only file.
// GET /api/holdings.csv
func (h *HoldingsHandler) GetHoldingsCSV(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.Run(r.Context(), nil)
	if err != nil {
		if errors.Is(err, contracts.ErrEmptyResult) {
			w.Header().Set(StatusHeader, StatusNoData)
			respondError(w, http.StatusNotFound, contracts.ErrEmptyResult.Error())
			return
		}
		h.respondRunError(w, err)
		return
	}

	w.Header().Set(StatusHeader, StatusOK)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", screener.DefaultCSVName))
	w.WriteHeader(http.StatusOK)

	if err := screener.WriteCSV(w, result.Rows); err != nil {
		h.logger.WithError(err).Error("Failed to write CSV response")
	}
}

// GetProgress returns the latest run progress
// GET /api/holdings/progress
func (h *HoldingsHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	p, ok := h.tracker.Latest()
	if !ok {
		respondJSON(w, http.StatusOK, ProgressResponse{Status: "idle"})
		return
	}

	respondJSON(w, http.StatusOK, ProgressResponse{
		Status:   StatusOK,
		Progress: &p,
		Fraction: p.Fraction(),
	})
}

func (h *HoldingsHandler) respondRunError(w http.ResponseWriter, err error) {
	if errors.Is(err, contracts.ErrSourceUnavailable) {
		h.logger.WithError(err).Warn("Holdings source unavailable")
		respondError(w, http.StatusServiceUnavailable, contracts.ErrSourceUnavailable.Error())
		return
	}

	h.logger.WithError(err).Error("Screening run failed")
	respondError(w, http.StatusInternalServerError, "Failed to run screener")
}
