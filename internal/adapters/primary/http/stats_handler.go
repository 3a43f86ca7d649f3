package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/ticket-insights/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/stats"
)

// StatsHandler serves the derived chart views.
type StatsHandler struct {
	statsService ports.StatsService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService ports.StatsService, errorHandler *ErrorHandler, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "stats"),
	}
}

// RegisterRoutes sets up the routing for the stats endpoints.
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.HandleSummary)
	r.Get("/stats/{dimension}", h.HandleSeries)
	r.Get("/dashboard", h.HandleDashboard)
	r.Get("/unfinished", h.HandleUnfinished)
	r.Get("/years", h.HandleYears)
}

// SeriesResponse is one chart's data together with the filter it was built for.
type SeriesResponse struct {
	Dimension domain.Dimension   `json:"dimension"`
	Filter    domain.FilterState `json:"filter"`
	domain.Series
}

// HandleSummary handles GET /summary
func (h *StatsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := validation.ParseFilter(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	view, err := h.statsService.Summary(r.Context(), filter)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// HandleSeries handles GET /stats/{dimension}
func (h *StatsHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	dim := domain.Dimension(chi.URLParam(r, "dimension"))

	filter, err := validation.ParseFilter(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	// Charts that start with drafts hidden keep doing so unless told otherwise.
	if !r.URL.Query().Has(validation.ParamExcludeDraft) {
		filter.ExcludeDraft = dim.ChartDefault().ExcludeDraft
	}

	series, err := h.statsService.Series(r.Context(), dim, filter)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, SeriesResponse{
		Dimension: dim,
		Filter:    filter,
		Series:    series,
	})
}

// HandleDashboard handles GET /dashboard
func (h *StatsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := validation.ParseFilter(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	// Without an explicit excludeDraft every chart keeps its own default.
	chartDrafts := r.URL.Query().Has(validation.ParamExcludeDraft)
	view, err := h.statsService.Dashboard(r.Context(), filter, chartDrafts)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// HandleUnfinished handles GET /unfinished
func (h *StatsHandler) HandleUnfinished(w http.ResponseWriter, r *http.Request) {
	filter, err := validation.ParseFilter(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	tickets, err := h.statsService.Unfinished(r.Context(), filter)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteList(w, tickets)
}

// HandleYears handles GET /years
func (h *StatsHandler) HandleYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.statsService.Years(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteList[stats.YearOption](w, years)
}
