package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blackwell-systems/pkghub/internal/winget"
)

// LoadCategory returns the cached listing for category regardless of age.
func (s *Store) LoadCategory(ctx context.Context, category string) ([]winget.Package, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT app_data FROM category_cache WHERE category = ?`, category,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrap(fmt.Sprintf("load category %s", category), err)
	}

	var pkgs []winget.Package
	if err := json.Unmarshal([]byte(data), &pkgs); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal category %s: %w", category, err)
	}
	return pkgs, true, nil
}

// SaveCategory inserts or replaces the listing for category.
func (s *Store) SaveCategory(ctx context.Context, category string, pkgs []winget.Package) error {
	if pkgs == nil {
		pkgs = []winget.Package{}
	}
	data, err := json.Marshal(pkgs)
	if err != nil {
		return fmt.Errorf("failed to marshal category %s: %w", category, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO category_cache (category, app_data, cached_at) VALUES (?, ?, ?)`,
		category, string(data), formatTime(s.now()),
	)
	return wrap(fmt.Sprintf("save category %s", category), err)
}

// ClearCategories deletes every cached listing.
func (s *Store) ClearCategories(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM category_cache`)
	return wrap("clear category cache", err)
}
