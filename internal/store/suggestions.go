package store

import (
	"context"
	"fmt"
	"strings"
)

// RecordSuggestions upserts suggestions for their queries. An existing
// query/app pair has its search_count incremented.
func (s *Store) RecordSuggestions(ctx context.Context, suggestions []Suggestion) error {
	query := `
		INSERT INTO search_suggestions (query, app_id, app_name, match_type, search_count, last_searched)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT (query, app_id) DO UPDATE SET
			app_name = excluded.app_name,
			match_type = excluded.match_type,
			search_count = search_suggestions.search_count + 1,
			last_searched = excluded.last_searched
	`
	now := formatTime(s.now())
	for _, sg := range suggestions {
		q := strings.ToLower(strings.TrimSpace(sg.Query))
		if _, err := s.db.ExecContext(ctx, query, q, sg.ID, sg.Name, sg.MatchType, now); err != nil {
			return wrap(fmt.Sprintf("record suggestion %s/%s", q, sg.ID), err)
		}
	}
	return nil
}

// ListSuggestions returns the persisted suggestions for query, most searched
// first.
func (s *Store) ListSuggestions(ctx context.Context, query string) ([]Suggestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query, app_id, app_name, COALESCE(match_type, ''), search_count, last_searched
		FROM search_suggestions
		WHERE query = ?
		ORDER BY search_count DESC, app_id
	`, strings.ToLower(strings.TrimSpace(query)))
	if err != nil {
		return nil, wrap("list suggestions", err)
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		var sg Suggestion
		var last string
		if err := rows.Scan(&sg.Query, &sg.ID, &sg.Name, &sg.MatchType, &sg.SearchCount, &last); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion row: %w", err)
		}
		if sg.LastSearched, err = parseTime(last); err != nil {
			return nil, fmt.Errorf("failed to parse last_searched: %w", err)
		}
		out = append(out, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestions: %w", err)
	}
	return out, nil
}

// ClearSuggestions deletes every persisted suggestion.
func (s *Store) ClearSuggestions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM search_suggestions`)
	return wrap("clear suggestions", err)
}
