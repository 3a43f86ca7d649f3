package domain

import "time"

// EventType defines the type of real-time event.
type EventType string

const (
	EventDatasetReloaded EventType = "DATASET_RELOADED"
	EventUploadFailed    EventType = "UPLOAD_FAILED"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}

// DatasetReloadedPayload tells dashboards to refetch the dataset.
type DatasetReloadedPayload struct {
	Fingerprint  string    `json:"fingerprint"`
	TotalTickets int       `json:"totalTickets"`
	LoadedAt     time.Time `json:"loadedAt"`
}

// UploadFailedPayload reports a rejected upload.
type UploadFailedPayload struct {
	UploadID string `json:"uploadId"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}
