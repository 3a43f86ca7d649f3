package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// DefaultHistoryRetention is how many upload records are kept.
const DefaultHistoryRetention = 200

type UploadRepository struct {
	pool   *pgxpool.Pool
	retain int
}

var _ ports.UploadRepository = (*UploadRepository)(nil)

// NewUploadRepository creates a repository keeping the newest retain records.
// A non-positive retain selects DefaultHistoryRetention.
func NewUploadRepository(pool *pgxpool.Pool, retain int) *UploadRepository {
	if retain <= 0 {
		retain = DefaultHistoryRetention
	}
	return &UploadRepository{pool: pool, retain: retain}
}

// Create stores record and trims the history beyond the retention limit.
func (r *UploadRepository) Create(ctx context.Context, record *domain.UploadRecord) error {
	const insert = `
INSERT INTO uploads (id, filename, size_bytes, status, message, total_tickets, fingerprint, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	const prune = `
DELETE FROM uploads
WHERE id IN (
    SELECT id FROM uploads
    ORDER BY created_at DESC, id
    OFFSET $1
)
`

	return WithTransaction(ctx, r.pool, func(ctx context.Context) error {
		q := GetDBTX(ctx, r.pool)
		if _, err := q.Exec(ctx, insert,
			pgtype.UUID{Bytes: record.ID, Valid: true},
			record.Filename,
			record.SizeBytes,
			string(record.Status),
			record.Message,
			record.TotalTickets,
			record.Fingerprint,
			record.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert upload: %w", err)
		}
		if _, err := q.Exec(ctx, prune, r.retain); err != nil {
			return fmt.Errorf("prune uploads: %w", err)
		}
		return nil
	})
}

// ListRecent returns the newest records first.
func (r *UploadRepository) ListRecent(ctx context.Context, limit int) ([]*domain.UploadRecord, error) {
	const query = `
SELECT id, filename, size_bytes, status, message, total_tickets, fingerprint, created_at
FROM uploads
ORDER BY created_at DESC, id
LIMIT $1
`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.UploadRecord, 0, limit)
	for rows.Next() {
		var (
			id     pgtype.UUID
			status string
			rec    domain.UploadRecord
		)
		if err := rows.Scan(&id, &rec.Filename, &rec.SizeBytes, &status, &rec.Message,
			&rec.TotalTickets, &rec.Fingerprint, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.ID = id.Bytes
		rec.Status = domain.UploadStatus(status)
		rec.CreatedAt = rec.CreatedAt.UTC()
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
