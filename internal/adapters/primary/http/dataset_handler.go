package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// DatasetPath is where dashboards fetch the dataset document.
const DatasetPath = "/ticket_data.json"

// DatasetHandler serves the loaded dataset document as-is.
type DatasetHandler struct {
	provider     ports.DatasetProvider
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(provider ports.DatasetProvider, errorHandler *ErrorHandler, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{
		provider:     provider,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "dataset"),
	}
}

// RegisterRoutes sets up the dataset route.
func (h *DatasetHandler) RegisterRoutes(r chi.Router) {
	r.Get(DatasetPath, h.HandleGetDataset)
	r.Head(DatasetPath, h.HandleGetDataset)
}

// HandleGetDataset handles GET /ticket_data.json. The body is the exact
// document that was loaded; its fingerprint is the ETag.
func (h *DatasetHandler) HandleGetDataset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.provider.Current()
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	etag := `"` + snap.Fingerprint + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Last-Modified", snap.LoadedAt.UTC().Format(http.TimeFormat))

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(snap.Raw)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(snap.Raw); err != nil {
		h.logger.DebugContext(r.Context(), "dataset write aborted", "error", err)
	}
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
