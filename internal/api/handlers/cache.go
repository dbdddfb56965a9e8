package handlers

import (
	"net/http"

	"github.com/wonny/superinvestor/internal/cache"
	"github.com/wonny/superinvestor/pkg/logger"
)

// PurgeResponse is the JSON body of DELETE /api/cache
type PurgeResponse struct {
	Status string `json:"status"`
	Purged int    `json:"purged"`
}

// CacheHandler manages the screener cache
type CacheHandler struct {
	purger cache.Purger
	logger *logger.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(purger cache.Purger, log *logger.Logger) *CacheHandler {
	return &CacheHandler{
		purger: purger,
		logger: log,
	}
}

// Purge drops every cached listing and quote so the next run fetches fresh data
// DELETE /api/cache
func (h *CacheHandler) Purge(w http.ResponseWriter, r *http.Request) {
	n, err := h.purger.Purge(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Cache purge failed")
		respondError(w, http.StatusInternalServerError, "Failed to purge cache")
		return
	}

	h.logger.WithField("purged", n).Info("Cache purged via API")
	respondJSON(w, http.StatusOK, PurgeResponse{Status: StatusOK, Purged: n})
}
