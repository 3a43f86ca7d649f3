// Package client uploads ticket spreadsheets to a running dashboard server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
)

// Messages reported for client-side failures.
const (
	MsgWrongType     = "请选择Excel文件（.xlsx 或 .xls 格式）"
	MsgTooLarge      = "文件大小不能超过10MB"
	MsgUploadFailed  = "上传失败"
	MsgProcessFailed = "处理失败"
)

const (
	uploadPath  = "/upload"
	uploadField = "file"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 64 << 10
)

// RejectionError is an upload refused by the client checks or by the server.
// It matches ErrUploadRejected.
type RejectionError struct {
	StatusCode int // 0 when rejected before any request was sent
	Message    string
	Cause      error
}

func (e *RejectionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", MsgUploadFailed, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", MsgUploadFailed, e.Message)
}

func (e *RejectionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{apperrors.ErrUploadRejected}
	}
	return []error{apperrors.ErrUploadRejected, e.Cause}
}

// Uploader posts spreadsheets to the /upload endpoint. Calls on one Uploader
// run one at a time.
type Uploader struct {
	baseURL    string
	token      string
	maxBytes   int64
	httpClient *http.Client

	mu sync.Mutex
}

// Option customises an Uploader.
type Option func(*Uploader)

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(u *Uploader) { u.token = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) { u.httpClient = c }
}

// WithMaxBytes overrides the client-side size limit.
func WithMaxBytes(n int64) Option {
	return func(u *Uploader) { u.maxBytes = n }
}

// NewUploader creates an uploader for the server at baseURL.
func NewUploader(baseURL string, opts ...Option) *Uploader {
	u := &Uploader{
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: domain.MaxUploadBytes,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload checks the file at path and sends it. Files with the wrong
// extension or over the size limit are rejected without any request.
func (u *Uploader) Upload(ctx context.Context, path string) (*domain.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	name := filepath.Base(path)
	if !domain.HasAllowedExtension(name) {
		return nil, &RejectionError{Message: MsgWrongType, Cause: apperrors.ErrUnsupportedFileType}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > u.maxBytes {
		return nil, &RejectionError{Message: MsgTooLarge, Cause: apperrors.ErrFileTooLarge}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return u.send(ctx, name, content)
}

func (u *Uploader) send(ctx context.Context, name string, content []byte) (*domain.UploadResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(uploadField, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	url := u.baseURL + uploadPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if u.token != "" {
		req.Header.Set("Authorization", "Bearer "+u.token)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result domain.UploadResult
	decodeErr := json.Unmarshal(respBody, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := result.Message
		if decodeErr != nil || msg == "" {
			msg = serverErrorMessage(respBody, resp.StatusCode)
		}
		return nil, &RejectionError{StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return nil, &RejectionError{
			StatusCode: resp.StatusCode,
			Message:    MsgProcessFailed,
			Cause:      fmt.Errorf("%w: %w", apperrors.ErrMalformedResponse, decodeErr),
		}
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = MsgProcessFailed
		}
		return nil, &RejectionError{StatusCode: resp.StatusCode, Message: msg}
	}

	return &result, nil
}

// serverErrorMessage picks the {"error": ...} text of a non-upload error
// body, such as an authentication failure, or falls back to a generic text.
func serverErrorMessage(body []byte, status int) string {
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return MsgUploadFailed
}

// IsRejection reports whether err is an upload rejection and returns it.
func IsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	ok := errors.As(err, &rej)
	return rej, ok
}
