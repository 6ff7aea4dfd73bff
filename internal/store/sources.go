package store

import (
	"context"
	"fmt"
)

// RecordSourceStat appends a probe result.
func (s *Store) RecordSourceStat(ctx context.Context, st SourceStat) error {
	if st.TestedAt.IsZero() {
		st.TestedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO source_stats (source_id, speed_ms, success, test_time, error_message)
		VALUES (?, ?, ?, ?, ?)
	`, st.SourceID, st.SpeedMs, st.Success, formatTime(st.TestedAt), st.ErrorMessage)
	return wrap(fmt.Sprintf("record source stat %s", st.SourceID), err)
}

// RecentSourceStats returns up to limit probes, newest first. With
// successOnly, failed probes are skipped.
func (s *Store) RecentSourceStats(ctx context.Context, limit int, successOnly bool) ([]SourceStat, error) {
	query := `
		SELECT id, source_id, COALESCE(speed_ms, 0), success, test_time, COALESCE(error_message, '')
		FROM source_stats
	`
	if successOnly {
		query += ` WHERE success = 1`
	}
	query += ` ORDER BY test_time DESC, id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, wrap("list source stats", err)
	}
	defer rows.Close()

	var stats []SourceStat
	for rows.Next() {
		var st SourceStat
		var testedAt string
		if err := rows.Scan(&st.ID, &st.SourceID, &st.SpeedMs, &st.Success, &testedAt, &st.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan source stat row: %w", err)
		}
		if st.TestedAt, err = parseTime(testedAt); err != nil {
			return nil, fmt.Errorf("failed to parse test_time: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source stats: %w", err)
	}
	return stats, nil
}
