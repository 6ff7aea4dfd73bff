package store

import (
	"context"
	"fmt"
)

// IncrementStat adds one to the integer counter key, creating it at 1.
func (s *Store) IncrementStat(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_stats (stat_key, stat_value, last_updated) VALUES (?, '1', ?)
		ON CONFLICT (stat_key) DO UPDATE SET
			stat_value = CAST(CAST(COALESCE(app_stats.stat_value, '0') AS INTEGER) + 1 AS TEXT),
			last_updated = excluded.last_updated
	`, key, formatTime(s.now()))
	return wrap(fmt.Sprintf("increment stat %s", key), err)
}

// SetStat stores value under key.
func (s *Store) SetStat(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO app_stats (stat_key, stat_value, last_updated) VALUES (?, ?, ?)`,
		key, value, formatTime(s.now()),
	)
	return wrap(fmt.Sprintf("set stat %s", key), err)
}

// ListStats returns all stats ordered by key.
func (s *Store) ListStats(ctx context.Context) ([]Stat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stat_key, COALESCE(stat_value, ''), COALESCE(last_updated, '') FROM app_stats ORDER BY stat_key`)
	if err != nil {
		return nil, wrap("list stats", err)
	}
	defer rows.Close()

	var out []Stat
	for rows.Next() {
		var st Stat
		var updated string
		if err := rows.Scan(&st.Key, &st.Value, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan stat row: %w", err)
		}
		if st.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, fmt.Errorf("failed to parse last_updated: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats: %w", err)
	}
	return out, nil
}

// TableCounts returns the row count of each table.
func (s *Store) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, table := range []string{"installed_apps", "category_cache", "source_stats", "search_suggestions", "app_stats"} {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, wrap("count "+table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
