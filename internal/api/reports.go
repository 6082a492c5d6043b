package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/potooio/campaign-notifier/internal/types"
)

// maxReportBytes bounds the request body of POST /api/v1/reports.
const maxReportBytes = 1 << 20

// ReportPublisher is implemented by notifier.Publisher.
type ReportPublisher interface {
	Publish(ctx context.Context, campaignKey string, report types.CampaignReport)
}

// PublishRequest is the wire format for POST /api/v1/reports.
// CampaignKey defaults to Report.CampaignKey when empty.
type PublishRequest struct {
	CampaignKey string               `json:"campaignKey,omitempty"`
	Report      types.CampaignReport `json:"report"`
}

// PublishResponse acknowledges a report. Published is false when no publisher is registered.
type PublishResponse struct {
	CampaignKey string `json:"campaignKey"`
	Published   bool   `json:"published"`
}

// ReportsHandler handles POST /api/v1/reports.
type ReportsHandler struct {
	logger    *zap.Logger
	publisher ReportPublisher
}

// NewReportsHandler creates a new ReportsHandler. A nil publisher accepts and drops reports.
func NewReportsHandler(publisher ReportPublisher, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{
		logger:    logger.Named("reports"),
		publisher: publisher,
	}
}

// ServeHTTP implements http.Handler.
func (h *ReportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PublishRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReportBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid report: "+err.Error(), http.StatusBadRequest)
		return
	}

	key := strings.TrimSpace(req.CampaignKey)
	if key == "" {
		key = strings.TrimSpace(req.Report.CampaignKey)
	}
	if key == "" {
		http.Error(w, "campaignKey is required", http.StatusBadRequest)
		return
	}
	if req.Report.Status == "" {
		http.Error(w, "report.status is required", http.StatusBadRequest)
		return
	}

	published := h.publisher != nil
	if published {
		h.publisher.Publish(r.Context(), key, req.Report)
	} else {
		h.logger.Debug("No publisher registered, dropping report", zap.String("campaign", key))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(PublishResponse{CampaignKey: key, Published: published}); err != nil {
		h.logger.Error("Failed to encode publish response", zap.Error(err))
	}
}

// HealthHandler handles GET /health.
type HealthHandler struct {
	logger  *zap.Logger
	enabled bool
}

// NewHealthHandler creates a new HealthHandler. enabled reports whether the
// Slack publisher is registered.
func NewHealthHandler(enabled bool, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		logger:  logger.Named("health"),
		enabled: enabled,
	}
}

// HealthResponse is the response for health endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Publisher string `json:"publisher"` // enabled, disabled
	Timestamp string `json:"timestamp"`
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	publisher := "disabled"
	if h.enabled {
		publisher = "enabled"
	}
	response := HealthResponse{
		Status:    "healthy",
		Publisher: publisher,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// RegisterHandlers registers the report, health and metrics handlers on mux.
// A nil publisher registers the routes but drops every report.
func RegisterHandlers(mux *http.ServeMux, publisher ReportPublisher, logger *zap.Logger) {
	healthHandler := NewHealthHandler(publisher != nil, logger)

	mux.Handle("/api/v1/reports", NewReportsHandler(publisher, logger))
	mux.Handle("/api/v1/health", healthHandler)
	mux.Handle("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
