package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// RunRecord is one pipeline execution result.
type RunRecord struct {
	RunID         int64
	URL           string
	SourceType    string
	ContentType   string
	Confidence    float64
	Capabilities  []string
	DocumentCount int
	JSONLD        string
	CreatedAt     time.Time
}

// InsertURL parses and inserts a URL, returning the url_id.
// If the URL already exists, returns the existing url_id.
func (db *DB) InsertURL(rawURL string) (int64, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %w", err)
	}

	var existingID int64
	err = db.QueryRow("SELECT url_id FROM urls WHERE original_url = ?", rawURL).Scan(&existingID)
	if err == nil {
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing URL: %w", err)
	}

	// Canonical form drops query and fragment
	canonicalURL := fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, parsed.Path)

	result, err := db.Exec(`
		INSERT INTO urls (original_url, canonical_url, scheme, domain, path)
		VALUES (?, ?, ?, ?, ?)
	`, rawURL, canonicalURL, parsed.Scheme, parsed.Host, parsed.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to insert URL: %w", err)
	}

	urlID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get URL ID: %w", err)
	}

	return urlID, nil
}

// RecordRun persists one pipeline execution, returning the run_id.
func (db *DB) RecordRun(record RunRecord) (int64, error) {
	urlID, err := db.InsertURL(record.URL)
	if err != nil {
		return 0, err
	}

	caps, err := json.Marshal(record.Capabilities)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal capabilities: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO runs (url_id, source_type, content_type, confidence, capabilities, document_count, jsonld)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, urlID, record.SourceType, record.ContentType, record.Confidence, string(caps), record.DocumentCount, record.JSONLD)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	return runID, nil
}

// LatestRun returns the most recent run for a URL, or nil when none exists.
func (db *DB) LatestRun(rawURL string) (*RunRecord, error) {
	var record RunRecord
	var caps sql.NullString

	err := db.QueryRow(`
		SELECT r.run_id, u.original_url, r.source_type, r.content_type,
			r.confidence, r.capabilities, r.document_count, r.jsonld, r.created_at
		FROM runs r
		JOIN urls u ON r.url_id = u.url_id
		WHERE u.original_url = ?
		ORDER BY r.run_id DESC
		LIMIT 1
	`, rawURL).Scan(&record.RunID, &record.URL, &record.SourceType, &record.ContentType,
		&record.Confidence, &caps, &record.DocumentCount, &record.JSONLD, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	if caps.Valid && caps.String != "" {
		if err := json.Unmarshal([]byte(caps.String), &record.Capabilities); err != nil {
			return nil, fmt.Errorf("failed to decode capabilities: %w", err)
		}
	}

	return &record, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := db.Query(`
		SELECT r.run_id, u.original_url, r.source_type, r.content_type,
			r.confidence, r.document_count, r.created_at
		FROM runs r
		JOIN urls u ON r.url_id = u.url_id
		ORDER BY r.run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		err := rows.Scan(&record.RunID, &record.URL, &record.SourceType, &record.ContentType,
			&record.Confidence, &record.DocumentCount, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// CountRunsByContentType returns run counts keyed by content type.
func (db *DB) CountRunsByContentType() (map[string]int, error) {
	rows, err := db.Query(`
		SELECT content_type, COUNT(*)
		FROM runs
		GROUP BY content_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var contentType string
		var count int
		if err := rows.Scan(&contentType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[contentType] = count
	}

	return counts, rows.Err()
}
