package db

import (
	"context"
	"fmt"
	"time"

	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// InsertExportRecord records a downloaded export file.
func (db *DB) InsertExportRecord(rec models.ExportRecord) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := db.ExecContext(context.Background(),
		`INSERT INTO exports (created_at, kind, task_id, path, bytes) VALUES (?, ?, ?, ?, ?)`,
		createdAt.UTC().Format(sqlTimeFormat),
		rec.Kind,
		rec.TaskID,
		rec.Path,
		rec.Bytes,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert export record: %w", err)
	}
	return result.LastInsertId()
}

// ListExportRecords returns the most recent downloads, newest first.
func (db *DB) ListExportRecords(limit int) ([]models.ExportRecord, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT id, created_at, kind, task_id, path, bytes
		FROM exports
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query export records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.ExportRecord
	for rows.Next() {
		var rec models.ExportRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Kind, &rec.TaskID, &rec.Path, &rec.Bytes); err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}
