package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// RecordInstall inserts or replaces the record for app.ID, so reinstalling
// updates the existing row.
func (s *Store) RecordInstall(ctx context.Context, app InstalledApp) error {
	if app.InstalledAt.IsZero() {
		app.InstalledAt = s.now()
	}
	query := `
		INSERT OR REPLACE INTO installed_apps
		(app_id, app_name, version, install_date, source)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		app.ID,
		app.Name,
		app.Version,
		formatTime(app.InstalledAt),
		app.Source,
	)
	return wrap(fmt.Sprintf("record install %s", app.ID), err)
}

// GetInstalledApp returns the record for id.
func (s *Store) GetInstalledApp(ctx context.Context, id string) (*InstalledApp, error) {
	query := `
		SELECT app_id, app_name, COALESCE(version, ''), install_date, COALESCE(source, '')
		FROM installed_apps
		WHERE app_id = ?
	`
	var app InstalledApp
	var installedAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&app.ID, &app.Name, &app.Version, &installedAt, &app.Source,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("installed app %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, wrap(fmt.Sprintf("get installed app %s", id), err)
	}
	if app.InstalledAt, err = parseTime(installedAt); err != nil {
		return nil, fmt.Errorf("failed to parse install_date for %s: %w", id, err)
	}
	return &app, nil
}

// ListInstalledApps returns every recorded install, newest first.
func (s *Store) ListInstalledApps(ctx context.Context) ([]InstalledApp, error) {
	query := `
		SELECT app_id, app_name, COALESCE(version, ''), install_date, COALESCE(source, '')
		FROM installed_apps
		ORDER BY install_date DESC, app_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrap("list installed apps", err)
	}
	defer rows.Close()

	var apps []InstalledApp
	for rows.Next() {
		var app InstalledApp
		var installedAt string
		if err := rows.Scan(&app.ID, &app.Name, &app.Version, &installedAt, &app.Source); err != nil {
			return nil, fmt.Errorf("failed to scan installed app row: %w", err)
		}
		if app.InstalledAt, err = parseTime(installedAt); err != nil {
			return nil, fmt.Errorf("failed to parse install_date for %s: %w", app.ID, err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installed apps: %w", err)
	}
	return apps, nil
}
