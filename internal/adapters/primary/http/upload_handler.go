package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/ticket-insights/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/services"
)

const (
	// UploadPath receives spreadsheet uploads.
	UploadPath = "/upload"
	// UploadField is the multipart field holding the spreadsheet.
	UploadField = "file"

	// MsgInvalidContentType is returned for non-multipart requests.
	MsgInvalidContentType = "无效的内容类型"

	// multipartOverhead covers boundaries and part headers on top of the file.
	multipartOverhead = 1 << 20

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// UploadHandler accepts spreadsheets and exposes the upload history.
type UploadHandler struct {
	uploadService ports.UploadService
	errorHandler  *ErrorHandler
	maxBytes      int64
	logger        *slog.Logger
}

// NewUploadHandler creates a new upload handler. maxBytes is the largest
// accepted file.
func NewUploadHandler(uploadService ports.UploadService, errorHandler *ErrorHandler, maxBytes int64, logger *slog.Logger) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = domain.MaxUploadBytes
	}
	return &UploadHandler{
		uploadService: uploadService,
		errorHandler:  errorHandler,
		maxBytes:      maxBytes,
		logger:        logger.With("handler", "upload"),
	}
}

// RegisterRoutes registers POST /upload. Middlewares apply only to it.
func (h *UploadHandler) RegisterRoutes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.With(middlewares...).Post(UploadPath, h.HandleUpload)
}

// RegisterHistoryRoutes registers GET /uploads.
func (h *UploadHandler) RegisterHistoryRoutes(r chi.Router) {
	r.Get("/uploads", h.HandleListUploads)
}

// HandleUpload handles POST /upload. The response body is always
// {success, message}.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		h.writeResult(w, http.StatusBadRequest, false, MsgInvalidContentType)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.reject(w, r, apperrors.UploadRejectedError(apperrors.ErrFileTooLarge))
			return
		}
		if errors.Is(err, http.ErrMissingFile) {
			h.reject(w, r, apperrors.UploadRejectedError(apperrors.ErrFileRequired))
			return
		}
		h.writeResult(w, http.StatusBadRequest, false, MsgInvalidContentType)
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the service to reject the file.
	content, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		h.reject(w, r, err)
		return
	}

	record, err := h.uploadService.Upload(r.Context(), ports.UploadParams{
		Filename: header.Filename,
		Content:  content,
	})
	if err != nil {
		h.reject(w, r, err)
		return
	}

	h.writeResult(w, http.StatusOK, true, record.Message)
}

// reject logs err and answers with the user-facing upload message.
func (h *UploadHandler) reject(w http.ResponseWriter, r *http.Request, err error) {
	status := h.errorHandler.StatusCode(err)
	if status >= 500 {
		h.logger.ErrorContext(r.Context(), "upload failed", "error", err)
	} else {
		h.logger.WarnContext(r.Context(), "upload rejected", "status_code", status, "error", err)
	}
	h.writeResult(w, status, false, services.UploadMessage(err))
}

func (h *UploadHandler) writeResult(w http.ResponseWriter, status int, success bool, message string) {
	WriteJSON(w, status, domain.UploadResult{Success: success, Message: message})
}

// HandleListUploads handles GET /uploads
func (h *UploadHandler) HandleListUploads(w http.ResponseWriter, r *http.Request) {
	limit, err := validation.ParseLimit(r, defaultHistoryLimit, maxHistoryLimit)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	records, err := h.uploadService.History(r.Context(), limit)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteList(w, records)
}
