package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/referral-admin-tui/internal/logger"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// InsertRequestLog records a completed API request.
func (db *DB) InsertRequestLog(entry *models.RequestLogEntry) error {
	query := `
		INSERT INTO request_log (
			timestamp, method, path, status_code, duration_ms, request_id, error
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	result, err := db.ExecContext(context.Background(), query,
		timestamp.UTC().Format(sqlTimeFormat),
		entry.Method,
		entry.Path,
		entry.StatusCode,
		entry.DurationMs,
		nullString(entry.RequestID),
		nullString(entry.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert request log: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}

	return nil
}

// GetRecentRequests returns the most recent requests, newest first.
func (db *DB) GetRecentRequests(limit int) ([]models.RequestLogEntry, error) {
	query := `
		SELECT id, timestamp, method, path, status_code, duration_ms, request_id, error
		FROM request_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []models.RequestLogEntry
	for rows.Next() {
		var e models.RequestLogEntry
		var ts string
		var reqID, errStr sql.NullString

		err := rows.Scan(
			&e.ID,
			&ts,
			&e.Method,
			&e.Path,
			&e.StatusCode,
			&e.DurationMs,
			&reqID,
			&errStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request log: %w", err)
		}

		e.Timestamp = parseTime(ts)
		e.RequestID = reqID.String
		e.Error = errStr.String
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// GetHourlyStats returns request statistics grouped by hour for the last
// hours, newest first.
func (db *DB) GetHourlyStats(hours int) ([]models.HourlyStats, error) {
	query := `
		SELECT
			strftime('` + sqlHourFormat + `', timestamp) as hour,
			COUNT(*) as total_requests,
			SUM(CASE WHEN status_code >= 400 OR status_code = 0 OR error IS NOT NULL THEN 1 ELSE 0 END) as error_count,
			COALESCE(AVG(duration_ms), 0) as avg_duration
		FROM request_log
		WHERE timestamp >= datetime('now', ?)
		GROUP BY hour
		ORDER BY hour DESC
	`

	rows, err := db.QueryContext(context.Background(), query, fmt.Sprintf("-%d hours", hours))
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly stats: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var stats []models.HourlyStats
	for rows.Next() {
		var s models.HourlyStats
		var hourStr string

		if err := rows.Scan(&hourStr, &s.TotalRequests, &s.ErrorCount, &s.AvgDurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan hourly stats: %w", err)
		}

		s.Hour = parseTime(hourStr)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetTotalStats returns request statistics for the last hours. A zero
// window covers the whole log.
func (db *DB) GetTotalStats(hours int) (*models.TotalStats, error) {
	query := `
		SELECT
			COUNT(*) as total_requests,
			COALESCE(SUM(CASE WHEN status_code >= 400 OR status_code = 0 OR error IS NOT NULL THEN 1 ELSE 0 END), 0) as error_count,
			COUNT(DISTINCT path) as unique_paths,
			COALESCE(AVG(duration_ms), 0) as avg_duration
		FROM request_log
	`
	var args []any
	if hours > 0 {
		query += " WHERE timestamp >= datetime('now', ?)"
		args = append(args, fmt.Sprintf("-%d hours", hours))
	}

	var stats models.TotalStats
	err := db.QueryRowContext(context.Background(), query, args...).Scan(
		&stats.TotalRequests,
		&stats.ErrorCount,
		&stats.UniquePaths,
		&stats.AvgDurationMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query total stats: %w", err)
	}

	return &stats, nil
}

// PruneRequestLog deletes entries older than maxAge and returns the number
// removed.
func (db *DB) PruneRequestLog(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UTC().Format(sqlTimeFormat)
	result, err := db.ExecContext(context.Background(), "DELETE FROM request_log WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune request log: %w", err)
	}
	return result.RowsAffected()
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// parseTime reads a stored UTC timestamp. Drivers may hand back either the
// stored text or an RFC 3339 rendering of it.
func parseTime(s string) time.Time {
	for _, layout := range []string{sqlTimeFormat, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
