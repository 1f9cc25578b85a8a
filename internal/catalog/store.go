package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Registry is the read contract the validate surface depends on.
type Registry interface {
	// HasTaxonomy reports whether name is a registered taxonomy.
	HasTaxonomy(ctx context.Context, name string) (bool, error)
	// CastType returns the registered cast type of an attribute key.
	// ok is false for unknown keys.
	CastType(ctx context.Context, key string) (cast string, ok bool, err error)
}

// Store is a SQLite-backed Registry.
type Store struct {
	db *sql.DB
}

// Open creates or opens the catalog database at path. The connection is
// configured with WAL mode and a single writer; opening is idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect catalog: %w", err)
	}

	// SQLite supports one writer at a time; keep the pool at one
	// connection to avoid SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// RegisterTaxonomy records a taxonomy name. Re-registering is a no-op.
func (s *Store) RegisterTaxonomy(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO taxonomies (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("register taxonomy %q: %w", name, err)
	}
	return nil
}

// RegisterMetaKey records an attribute key with its cast type,
// overwriting any previous registration.
func (s *Store) RegisterMetaKey(ctx context.Context, key, cast string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta_keys (name, cast_type) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET cast_type = excluded.cast_type`, key, cast)
	if err != nil {
		return fmt.Errorf("register meta key %q: %w", key, err)
	}
	return nil
}

// HasTaxonomy implements Registry.
func (s *Store) HasTaxonomy(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM taxonomies WHERE name = ?`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query taxonomy %q: %w", name, err)
	}
	return true, nil
}

// CastType implements Registry.
func (s *Store) CastType(ctx context.Context, key string) (string, bool, error) {
	var cast string
	err := s.db.QueryRowContext(ctx,
		`SELECT cast_type FROM meta_keys WHERE name = ?`, key).Scan(&cast)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query meta key %q: %w", key, err)
	}
	return cast, true, nil
}

// Taxonomies returns every registered taxonomy name in lexical order.
func (s *Store) Taxonomies(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM taxonomies ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query taxonomies: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// MemRegistry is an in-memory Registry for tests and embedding.
type MemRegistry struct {
	Tax  map[string]bool
	Meta map[string]string // key → cast type
}

// HasTaxonomy implements Registry.
func (m *MemRegistry) HasTaxonomy(_ context.Context, name string) (bool, error) {
	return m.Tax[name], nil
}

// CastType implements Registry.
func (m *MemRegistry) CastType(_ context.Context, key string) (string, bool, error) {
	cast, ok := m.Meta[key]
	return cast, ok, nil
}

// Names returns the registry's taxonomy names in lexical order.
// Mirrors Store.Taxonomies for diagnostics.
func (m *MemRegistry) Names() []string {
	names := make([]string, 0, len(m.Tax))
	for name, ok := range m.Tax {
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
