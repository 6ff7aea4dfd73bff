package store

const schema = `
CREATE TABLE IF NOT EXISTS installed_apps (
    app_id TEXT PRIMARY KEY,
    app_name TEXT NOT NULL,
    version TEXT,
    install_date TEXT NOT NULL,
    source TEXT
);

CREATE TABLE IF NOT EXISTS category_cache (
    category TEXT PRIMARY KEY,
    app_data TEXT NOT NULL,
    cached_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS source_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id TEXT NOT NULL,
    speed_ms INTEGER,
    success BOOLEAN NOT NULL DEFAULT 1,
    test_time TEXT NOT NULL,
    error_message TEXT
);

CREATE TABLE IF NOT EXISTS search_suggestions (
    query TEXT NOT NULL,
    app_id TEXT NOT NULL,
    app_name TEXT NOT NULL,
    match_type TEXT,
    search_count INTEGER NOT NULL DEFAULT 1,
    last_searched TEXT NOT NULL,
    PRIMARY KEY (query, app_id)
);

CREATE TABLE IF NOT EXISTS app_stats (
    stat_key TEXT PRIMARY KEY,
    stat_value TEXT,
    last_updated TEXT
);

CREATE INDEX IF NOT EXISTS idx_search_query ON search_suggestions(query);
CREATE INDEX IF NOT EXISTS idx_source_stats ON source_stats(source_id, test_time);
`
