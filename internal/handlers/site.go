package handlers

import (
	"context"
	"net/http"
	"time"

	"iptvsite/internal/services"
	"iptvsite/internal/utils/helpers"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type SiteHandler struct {
	sitemap *services.SitemapService
	db      Pinger
}

func NewSiteHandler(sitemap *services.SitemapService, db Pinger) *SiteHandler {
	return &SiteHandler{sitemap: sitemap, db: db}
}

type healthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type realtimeResponse struct {
	ActiveUsers int    `json:"activeUsers"`
	Message     string `json:"message"`
}

// Health godoc
// @Summary API health
// @Tags system
// @Produce json
// @Success 200 {object} healthResponse
// @Router /api/health [get]
func (h *SiteHandler) Health(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Message:   "IPTV Backend API is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *SiteHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz reports 503 until the database answers.
func (h *SiteHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if h.db == nil || h.db.Ping(ctx) != nil {
		helpers.Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Realtime godoc
// @Summary Live visitors (placeholder)
// @Tags analytics
// @Produce json
// @Success 200 {object} realtimeResponse
// @Router /api/analytics/realtime [get]
func (h *SiteHandler) Realtime(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, realtimeResponse{
		ActiveUsers: 0,
		Message:     "Configure Google Analytics API credentials to see live data",
	})
}

func (h *SiteHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := h.sitemap.Build(r.Context())
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(body)
}

// NotFound is the JSON 404 for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	helpers.Error(w, http.StatusNotFound, "Route not found")
}
