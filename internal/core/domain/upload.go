package domain

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxUploadBytes is the largest spreadsheet accepted for upload (10 MiB).
const MaxUploadBytes int64 = 10 << 20

// AllowedUploadExtensions are the accepted spreadsheet extensions.
var AllowedUploadExtensions = []string{".xlsx", ".xls"}

// HasAllowedExtension reports whether filename ends in an accepted extension,
// ignoring case.
func HasAllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedUploadExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// UploadStatus is the outcome of an upload attempt.
type UploadStatus string

const (
	UploadSucceeded UploadStatus = "SUCCEEDED"
	UploadFailed    UploadStatus = "FAILED"
)

// IsValid checks if the status is one of the allowed values.
func (s UploadStatus) IsValid() bool {
	return s == UploadSucceeded || s == UploadFailed
}

// UploadRecord is the history entry of one upload attempt.
type UploadRecord struct {
	ID           uuid.UUID    `json:"id"`
	Filename     string       `json:"filename"`
	SizeBytes    int64        `json:"sizeBytes"`
	Status       UploadStatus `json:"status"`
	Message      string       `json:"message"`
	TotalTickets int          `json:"totalTickets"`
	Fingerprint  string       `json:"fingerprint,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// NewUploadRecord starts a record for an incoming file.
func NewUploadRecord(filename string, size int64) *UploadRecord {
	return &UploadRecord{
		ID:        uuid.New(),
		Filename:  filename,
		SizeBytes: size,
		CreatedAt: time.Now().UTC(),
	}
}

// Succeed marks the upload as applied.
func (u *UploadRecord) Succeed(totalTickets int, fingerprint, message string) {
	u.Status = UploadSucceeded
	u.TotalTickets = totalTickets
	u.Fingerprint = fingerprint
	u.Message = message
}

// Fail marks the upload as rejected.
func (u *UploadRecord) Fail(message string) {
	u.Status = UploadFailed
	u.Message = message
}

// UploadResult is the body of the /upload response.
type UploadResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
