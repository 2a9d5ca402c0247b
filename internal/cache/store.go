// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists compiled taxonomies so that graph parsing and
// pattern compilation are not repeated on every run. Each taxonomy source
// gets one SQLite file, named after the source's base name, holding the
// single and composite keywords and the creation time.
//
// The cache file is rewritten wholesale on every save. Concurrent writers
// against the same source are not coordinated.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/taxonomy-engine/internal/diag"
	"github.com/pdiddy/taxonomy-engine/internal/keyword"
	"github.com/pdiddy/taxonomy-engine/internal/pattern"
)

// formatVersion is bumped whenever the schema or payload layout changes.
// Files with another version are treated as corrupt.
const formatVersion = 1

var (
	// ErrMiss is returned when no cache file exists for a source.
	ErrMiss = errors.New("cache miss")
	// ErrCorrupt is returned when a cache file exists but cannot be read.
	// The file has been removed by the time the error is returned.
	ErrCorrupt = errors.New("cache corrupt")
)

// Store reads and writes cache files in the directory chosen by a Resolver.
type Store struct {
	resolver *Resolver
	sink     diag.Sink
}

// NewStore returns a Store using resolver for file locations.
func NewStore(resolver *Resolver, sink diag.Sink) *Store {
	if sink == nil {
		sink = diag.Discard
	}
	return &Store{resolver: resolver, sink: sink}
}

// Path returns the cache file path for source.
func (s *Store) Path(source string) (string, error) {
	return s.resolver.FileFor(source)
}

// Readable reports whether a cache file for source exists and can be opened.
func (s *Store) Readable(source string) bool {
	path, err := s.Path(source)
	if err != nil {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

type storedPattern struct {
	Source string `json:"source"`
	Label  string `json:"label"`
	Hidden bool   `json:"hidden,omitempty"`
}

func schemaStatements() []string {
	return []string{
		`CREATE TABLE meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE single_keywords (
			id TEXT PRIMARY KEY,
			concept TEXT NOT NULL,
			standalone INTEGER NOT NULL,
			external_id TEXT,
			patterns TEXT NOT NULL
		)`,
		`CREATE TABLE composite_keywords (
			id TEXT PRIMARY KEY,
			concept TEXT NOT NULL,
			components TEXT NOT NULL,
			external_id TEXT,
			patterns TEXT NOT NULL
		)`,
	}
}

// Save writes set to the cache file for source, replacing any previous file.
func (s *Store) Save(ctx context.Context, source string, set *keyword.Set) error {
	path, err := s.Path(source)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	os.Remove(tmp)

	if err := writeDB(ctx, tmp, source, set); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing cache %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing cache %s: %w", path, err)
	}

	s.sink.WriteMessage(fmt.Sprintf("Writing cache to file %s.", path), diag.Info)
	return nil
}

func writeDB(ctx context.Context, path, source string, set *keyword.Set) error {
	db, err := sql.Open("sqlite3", fileURI(path, "rwc"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	meta := map[string]string{
		"format_version": strconv.Itoa(formatVersion),
		"created_at":     set.CreatedAt.UTC().Format(time.RFC3339Nano),
		"source":         source,
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("inserting meta %s: %w", k, err)
		}
	}

	singleStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO single_keywords (id, concept, standalone, external_id, patterns)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing single insert: %w", err)
	}
	defer singleStmt.Close()

	for _, id := range set.SingleIDs() {
		kw := set.Single[id]
		patternsJSON, err := json.Marshal(toStored(kw.Patterns))
		if err != nil {
			return fmt.Errorf("encoding patterns of %s: %w", id, err)
		}
		if _, err := singleStmt.ExecContext(ctx,
			id, kw.Concept, kw.Standalone, kw.ExternalID, string(patternsJSON),
		); err != nil {
			return fmt.Errorf("inserting single keyword %s: %w", id, err)
		}
	}

	compositeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO composite_keywords (id, concept, components, external_id, patterns)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing composite insert: %w", err)
	}
	defer compositeStmt.Close()

	for _, id := range set.CompositeIDs() {
		kw := set.Composite[id]
		componentsJSON, _ := json.Marshal(kw.Components)
		patternsJSON, err := json.Marshal(toStored(kw.Patterns))
		if err != nil {
			return fmt.Errorf("encoding patterns of %s: %w", id, err)
		}
		if _, err := compositeStmt.ExecContext(ctx,
			id, kw.Concept, string(componentsJSON), kw.ExternalID, string(patternsJSON),
		); err != nil {
			return fmt.Errorf("inserting composite keyword %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// Load reads the cache file for source. A missing file yields ErrMiss. A
// file that cannot be decoded is deleted and yields ErrCorrupt.
func (s *Store) Load(ctx context.Context, source string) (*keyword.Set, error) {
	path, err := s.Path(source)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("checking cache %s: %w", path, err)
	}

	start := time.Now()
	set, err := readDB(ctx, path)
	if err != nil {
		s.sink.WriteMessage(fmt.Sprintf("The existing cache in %s is not readable (%v). Removing it.", path, err), diag.Warning)
		os.Remove(path)
		return nil, fmt.Errorf("%s: %w", path, ErrCorrupt)
	}

	s.sink.WriteMessage(fmt.Sprintf("Found cache created on %s.", set.CreatedAt.Format(time.RFC1123)), diag.Info)
	s.sink.WriteMessage(fmt.Sprintf("Retrieved cache... %d terms read in %.1f sec.",
		set.Len(), time.Since(start).Seconds()), diag.Info)
	return set, nil
}

// CreatedAt returns the creation time recorded in the cache file for source.
func (s *Store) CreatedAt(ctx context.Context, source string) (time.Time, error) {
	path, err := s.Path(source)
	if err != nil {
		return time.Time{}, err
	}
	db, err := openReadOnly(path)
	if err != nil {
		return time.Time{}, err
	}
	defer db.Close()
	return readCreatedAt(ctx, db)
}

// Info summarizes a cache file.
type Info struct {
	Path       string    `json:"path" yaml:"path"`
	Source     string    `json:"source" yaml:"source"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	Singles    int       `json:"singles" yaml:"singles"`
	Composites int       `json:"composites" yaml:"composites"`
}

// Stat returns a summary of the cache file for source without compiling
// its patterns.
func (s *Store) Stat(ctx context.Context, source string) (Info, error) {
	path, err := s.Path(source)
	if err != nil {
		return Info{}, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Info{}, ErrMiss
		}
		return Info{}, err
	}
	db, err := openReadOnly(path)
	if err != nil {
		return Info{}, err
	}
	defer db.Close()

	info := Info{Path: path}
	if info.CreatedAt, err = readCreatedAt(ctx, db); err != nil {
		return Info{}, err
	}
	if err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'source'`).Scan(&info.Source); err != nil {
		return Info{}, fmt.Errorf("reading source: %w", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM single_keywords`).Scan(&info.Singles); err != nil {
		return Info{}, fmt.Errorf("counting single keywords: %w", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM composite_keywords`).Scan(&info.Composites); err != nil {
		return Info{}, fmt.Errorf("counting composite keywords: %w", err)
	}
	return info, nil
}

// Clear removes the cache file for source. A missing file is not an error.
func (s *Store) Clear(source string) error {
	path, err := s.Path(source)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache %s: %w", path, err)
	}
	return nil
}

func openReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fileURI(path, "ro"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// fileURI returns an SQLite URI for path opened in mode. Source names may
// carry '#', '?' or '%', so the path is escaped rather than concatenated.
func fileURI(path, mode string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path), RawQuery: "mode=" + mode}
	return u.String()
}

func readCreatedAt(ctx context.Context, db *sql.DB) (time.Time, error) {
	var version, created string
	if err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'format_version'`).Scan(&version); err != nil {
		return time.Time{}, fmt.Errorf("reading format version: %w", err)
	}
	if version != strconv.Itoa(formatVersion) {
		return time.Time{}, fmt.Errorf("unsupported format version %q", version)
	}
	if err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'created_at'`).Scan(&created); err != nil {
		return time.Time{}, fmt.Errorf("reading creation time: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing creation time: %w", err)
	}
	return t, nil
}

func readDB(ctx context.Context, path string) (*keyword.Set, error) {
	db, err := openReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	set := &keyword.Set{
		Single:    make(map[string]*keyword.SingleKeyword),
		Composite: make(map[string]*keyword.CompositeKeyword),
	}
	if set.CreatedAt, err = readCreatedAt(ctx, db); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, concept, standalone, external_id, patterns FROM single_keywords`)
	if err != nil {
		return nil, fmt.Errorf("querying single keywords: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			kw           keyword.SingleKeyword
			externalID   sql.NullString
			patternsJSON string
		)
		if err := rows.Scan(&kw.ID, &kw.Concept, &kw.Standalone, &externalID, &patternsJSON); err != nil {
			return nil, fmt.Errorf("scanning single keyword: %w", err)
		}
		kw.ExternalID = externalID.String
		if kw.Patterns, err = fromStored(patternsJSON); err != nil {
			return nil, fmt.Errorf("single keyword %s: %w", kw.ID, err)
		}
		set.Single[kw.ID] = &kw
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := db.QueryContext(ctx,
		`SELECT id, concept, components, external_id, patterns FROM composite_keywords`)
	if err != nil {
		return nil, fmt.Errorf("querying composite keywords: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var (
			kw                           keyword.CompositeKeyword
			externalID                   sql.NullString
			componentsJSON, patternsJSON string
		)
		if err := crows.Scan(&kw.ID, &kw.Concept, &componentsJSON, &externalID, &patternsJSON); err != nil {
			return nil, fmt.Errorf("scanning composite keyword: %w", err)
		}
		kw.ExternalID = externalID.String
		if err := json.Unmarshal([]byte(componentsJSON), &kw.Components); err != nil {
			return nil, fmt.Errorf("composite keyword %s components: %w", kw.ID, err)
		}
		if kw.Patterns, err = fromStored(patternsJSON); err != nil {
			return nil, fmt.Errorf("composite keyword %s: %w", kw.ID, err)
		}
		set.Composite[kw.ID] = &kw
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}

	return set, nil
}

func toStored(patterns []keyword.LabeledPattern) []storedPattern {
	out := make([]storedPattern, len(patterns))
	for i, p := range patterns {
		out[i] = storedPattern{Source: p.Source, Label: p.Label, Hidden: p.Hidden}
	}
	return out
}

func fromStored(data string) ([]keyword.LabeledPattern, error) {
	var stored []storedPattern
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("decoding patterns: %w", err)
	}
	out := make([]keyword.LabeledPattern, 0, len(stored))
	for _, sp := range stored {
		p, err := pattern.Compile(sp.Source)
		if err != nil {
			return nil, err
		}
		out = append(out, keyword.LabeledPattern{Pattern: p, Label: sp.Label, Hidden: sp.Hidden})
	}
	return out, nil
}
