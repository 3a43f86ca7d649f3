package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot() *domain.DatasetSnapshot {
	return &domain.DatasetSnapshot{
		Dataset: &domain.Dataset{
			Summary:   domain.Summary{TotalTickets: 30, TotalDepartments: 2},
			YearStats: domain.Series{Labels: []string{"2022", "2023"}, Data: []int{10, 20}},
		},
		Raw:         []byte(`{"summary":{"total_tickets":30}}`),
		Fingerprint: "0123456789abcdef0123456789abcdef",
		LoadedAt:    time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// multipartBody builds a request body with one file part.
func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}
