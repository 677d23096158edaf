package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- URLs table: normalized URL components
CREATE TABLE IF NOT EXISTS urls (
    url_id INTEGER PRIMARY KEY AUTOINCREMENT,
    original_url TEXT NOT NULL UNIQUE,
    canonical_url TEXT,
    scheme TEXT NOT NULL,
    domain TEXT NOT NULL,
    path TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_urls_domain ON urls(domain);
CREATE INDEX IF NOT EXISTS idx_urls_canonical ON urls(canonical_url);

-- Runs: one pipeline execution per URL, latest wins for lookups
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url_id INTEGER NOT NULL,
    source_type TEXT NOT NULL,       -- wordpress_rest, shopify_api, html_scraper, ...
    content_type TEXT NOT NULL,      -- article, blog_post, product, ...
    confidence REAL NOT NULL,        -- 0..1 extraction confidence
    capabilities TEXT,               -- JSON array of available capability names
    document_count INTEGER NOT NULL DEFAULT 0,
    jsonld TEXT,                     -- generated JSON-LD payload
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (url_id) REFERENCES urls(url_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_url ON runs(url_id);
CREATE INDEX IF NOT EXISTS idx_runs_content_type ON runs(content_type);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
`
