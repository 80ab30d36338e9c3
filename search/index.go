// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: search/index.go
// Summary: SQLite FTS5 persistent index over scrollback text.
//
// Provides substring search across terminal history with:
//   - Async batch indexing for regular output
//   - Sync indexing for command lines (OSC 133 marks)
//   - Trigram tokenizer so any substring matches

package search

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// IndexResult is a single persistent-index match.
type IndexResult struct {
	GlobalLineIdx int64
	Timestamp     time.Time
	Content       string
	IsCommand     bool
}

// IndexConfig holds configuration for the persistent index.
type IndexConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string
	// BatchSize is the number of entries accumulated before a flush.
	BatchSize int
	// BatchTimeout flushes a partial batch after this long.
	BatchTimeout time.Duration
	// ChannelBuffer sizes the async indexing queue.
	ChannelBuffer int
}

// DefaultIndexConfig returns sensible defaults.
func DefaultIndexConfig(dbPath string) IndexConfig {
	return IndexConfig{
		DBPath:        dbPath,
		BatchSize:     100,
		BatchTimeout:  5 * time.Second,
		ChannelBuffer: 1000,
	}
}

type indexEntry struct {
	lineIdx   int64
	timestamp time.Time
	text      string
	isCommand bool
}

// Index is the SQLite-backed history index.
type Index struct {
	config IndexConfig
	db     *sql.DB

	batchChan chan indexEntry
	stopCh    chan struct{}
	doneCh    chan struct{}
	flushCh   chan chan struct{}
}

const indexSchema = `
CREATE TABLE IF NOT EXISTS lines (
    id INTEGER PRIMARY KEY,           -- global line index
    timestamp INTEGER NOT NULL,       -- UnixNano
    is_command INTEGER DEFAULT 0,     -- 1 for OSC 133 command lines
    content TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lines_timestamp ON lines(timestamp);

CREATE VIRTUAL TABLE IF NOT EXISTS lines_fts USING fts5(
    content,
    content='lines',
    content_rowid='id',
    tokenize='trigram'
);

CREATE TRIGGER IF NOT EXISTS lines_ai AFTER INSERT ON lines BEGIN
    INSERT INTO lines_fts(rowid, content) VALUES (new.id, new.content);
END;

CREATE TRIGGER IF NOT EXISTS lines_au AFTER UPDATE ON lines BEGIN
    INSERT INTO lines_fts(lines_fts, rowid, content) VALUES ('delete', old.id, old.content);
    INSERT INTO lines_fts(rowid, content) VALUES (new.id, new.content);
END;

CREATE TRIGGER IF NOT EXISTS lines_ad AFTER DELETE ON lines BEGIN
    INSERT INTO lines_fts(lines_fts, rowid, content) VALUES ('delete', old.id, old.content);
END;
`

// NewIndex opens (or creates) the index database and starts the batch
// indexer.
func NewIndex(dbPath string) (*Index, error) {
	return NewIndexWithConfig(DefaultIndexConfig(dbPath))
}

// NewIndexWithConfig opens the index with custom batching parameters.
func NewIndexWithConfig(config IndexConfig) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(config.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	dsn := config.DBPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to index database: %w", err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index schema: %w", err)
	}

	idx := &Index{
		config:    config,
		db:        db,
		batchChan: make(chan indexEntry, config.ChannelBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
	}
	go idx.batchIndexer()
	return idx, nil
}

// IndexLine records one line of history. Command lines index synchronously
// so they are searchable the moment the prompt returns; output batches.
func (idx *Index) IndexLine(lineIdx int64, ts time.Time, text string, isCommand bool) error {
	text = strings.TrimRight(text, " ")
	if text == "" {
		return nil
	}
	entry := indexEntry{lineIdx: lineIdx, timestamp: ts, text: text, isCommand: isCommand}
	if isCommand {
		return idx.insert([]indexEntry{entry})
	}
	select {
	case idx.batchChan <- entry:
	default:
		// Queue full: drop to batch-insert inline rather than lose the line.
		return idx.insert([]indexEntry{entry})
	}
	return nil
}

// DeleteLine removes a line, e.g. when history is cleared.
func (idx *Index) DeleteLine(lineIdx int64) error {
	_, err := idx.db.Exec("DELETE FROM lines WHERE id = ?", lineIdx)
	return err
}

// Search runs a trigram substring query, newest results first.
func (idx *Index) Search(query string, limit int) ([]IndexResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := idx.db.Query(`
		SELECT l.id, l.timestamp, l.content, l.is_command
		FROM lines_fts f JOIN lines l ON l.id = f.rowid
		WHERE lines_fts MATCH ?
		ORDER BY l.timestamp DESC LIMIT ?`,
		ftsQuote(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []IndexResult
	for rows.Next() {
		var r IndexResult
		var ts int64
		var isCmd int
		if err := rows.Scan(&r.GlobalLineIdx, &ts, &r.Content, &isCmd); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(0, ts)
		r.IsCommand = isCmd != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// Flush blocks until every queued entry is indexed.
func (idx *Index) Flush() error {
	done := make(chan struct{})
	select {
	case idx.flushCh <- done:
		<-done
	case <-idx.stopCh:
	}
	return nil
}

// Close flushes pending writes and closes the database.
func (idx *Index) Close() error {
	close(idx.stopCh)
	<-idx.doneCh
	return idx.db.Close()
}

func (idx *Index) batchIndexer() {
	defer close(idx.doneCh)
	batch := make([]indexEntry, 0, idx.config.BatchSize)
	timer := time.NewTimer(idx.config.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := idx.insert(batch); err != nil {
			log.Printf("search: index flush failed: %v", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-idx.batchChan:
			batch = append(batch, entry)
			if len(batch) >= idx.config.BatchSize {
				flush()
				timer.Reset(idx.config.BatchTimeout)
			}
		case <-timer.C:
			flush()
			timer.Reset(idx.config.BatchTimeout)
		case done := <-idx.flushCh:
			for drained := false; !drained; {
				select {
				case entry := <-idx.batchChan:
					batch = append(batch, entry)
				default:
					drained = true
				}
			}
			flush()
			close(done)
		case <-idx.stopCh:
			for {
				select {
				case entry := <-idx.batchChan:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (idx *Index) insert(entries []indexEntry) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO lines (id, timestamp, is_command, content)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			timestamp = excluded.timestamp,
			is_command = excluded.is_command,
			content = excluded.content`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		isCmd := 0
		if e.isCommand {
			isCmd = 1
		}
		if _, err := stmt.Exec(e.lineIdx, e.timestamp.UnixNano(), isCmd, e.text); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ftsQuote wraps the query so FTS5 treats it as a literal string, not
// query syntax.
func ftsQuote(q string) string {
	return `"` + strings.ReplaceAll(q, `"`, `""`) + `"`
}
