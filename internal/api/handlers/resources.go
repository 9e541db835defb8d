package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wonny/tickerpulse/internal/contracts"
	"github.com/wonny/tickerpulse/pkg/logger"
)

// Resources is the refresh orchestrator as seen by the HTTP layer
type Resources interface {
	Posts(ctx context.Context, refresh bool) ([]contracts.Post, error)
	Signals(ctx context.Context, refresh bool) (contracts.SignalSet, error)
	Historical(ctx context.Context) (contracts.HistoricalLedger, error)
}

// ResourceHandler serves the posts, signals and historical endpoints
// ⭐ SSOT: 리소스 API 핸들러는 이 구조체에서만
type ResourceHandler struct {
	resources  Resources
	postsLimit int
	logger     *logger.Logger
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resources Resources, postsLimit int, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{
		resources:  resources,
		postsLimit: postsLimit,
		logger:     log,
	}
}

// GetPosts returns the latest posts
// GET /api/posts?refresh=true
func (h *ResourceHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.resources.Posts(r.Context(), refreshRequested(r))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get posts")
		respondFailure(w, err)
		return
	}

	posts = contracts.Latest(posts, h.postsLimit)
	if posts == nil {
		posts = []contracts.Post{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"posts":   posts,
	})
}

// GetSignals returns industry and stock signals
// GET /api/signals?refresh=true
func (h *ResourceHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	set, err := h.resources.Signals(r.Context(), refreshRequested(r))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get signals")
		respondFailure(w, err)
		return
	}

	set.Normalize()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"industry_signals": set.IndustrySignals,
		"stock_signals":    set.StockSignals,
	})
}

// GetHistorical returns the accuracy ledger. The refresh flag is ignored.
// GET /api/historical
func (h *ResourceHandler) GetHistorical(w http.ResponseWriter, r *http.Request) {
	l, err := h.resources.Historical(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get historical data")
		respondFailure(w, err)
		return
	}

	data := l.Data
	if data == nil {
		data = []contracts.HistoricalDayRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"historical_data": data,
		"accuracy_stats":  l.AccuracyStats,
	})
}

// refreshRequested reads ?refresh=true (case-insensitive); anything else is false
func refreshRequested(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("refresh"), "true")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondFailure(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}
