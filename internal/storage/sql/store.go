package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aglmct/tracker/internal/core"
)

// Store implements core.Storage on a kv_slots table.
type Store struct {
	db      *sql.DB
	dialect Dialect

	loadQuery string
	saveQuery string
	keysQuery string
}

func newStore(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:        db,
		dialect:   dialect,
		loadQuery: rebind(dialect, `SELECT payload FROM kv_slots WHERE slot_key = ?`),
		saveQuery: rebind(dialect, `INSERT INTO kv_slots (slot_key, payload, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (slot_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`),
		keysQuery: `SELECT slot_key FROM kv_slots ORDER BY slot_key`,
	}
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
// This should be called when shutting down the application.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	if err := core.ValidateKey(key); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx, s.loadQuery, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrSlotNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", key, err)
	}
	return []byte(payload), nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if err := core.ValidateKey(key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.saveQuery, key, string(data)); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", key, err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.keysQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan slot key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return keys, nil
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
