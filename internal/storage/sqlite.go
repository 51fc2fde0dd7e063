// Package storage provides credential persistence implementations.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// Fixed keys for the persisted credential pair. These mirror the service's
// own naming for the token field.
const (
	keyAccessToken = "accessToken"
	keyUser        = "user"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Compile-time interface check.
var _ domain.CredentialStore = (*SQLiteStore)(nil)

// SQLiteStore keeps the credential pair in a local SQLite database so a
// session survives restarts. Token and user are written and cleared inside
// one transaction — a crash can never leave only one of them behind.
type SQLiteStore struct {
	db  *sqlx.DB
	log *logger.Logger
}

// OpenSQLite opens (creating if needed) the state database at path and
// ensures the schema exists.
func OpenSQLite(path string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: init schema: %w", err)
	}
	log.Debug("storage: opened state db at %s", path)
	return &SQLiteStore{db: db, log: log}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save persists the token and user together, replacing any previous pair.
func (s *SQLiteStore) Save(ctx context.Context, token string, user *domain.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("storage: marshal user: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin save: %w", err)
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsert, keyAccessToken, token); err != nil {
		return fmt.Errorf("storage: save token: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, keyUser, string(userJSON)); err != nil {
		return fmt.Errorf("storage: save user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit save: %w", err)
	}

	s.log.Debug("storage: credentials saved (user=%s)", user.ID)
	return nil
}

// Load returns the persisted pair. A missing or half-present pair is
// reported as absent ("", nil) after clearing whatever was left, so the
// both-or-neither invariant holds even across a corrupted write.
func (s *SQLiteStore) Load(ctx context.Context) (string, *domain.User, error) {
	var token, userJSON string
	tokenErr := s.db.GetContext(ctx, &token, `SELECT value FROM credentials WHERE key = ?`, keyAccessToken)
	userErr := s.db.GetContext(ctx, &userJSON, `SELECT value FROM credentials WHERE key = ?`, keyUser)

	if errors.Is(tokenErr, sql.ErrNoRows) || errors.Is(userErr, sql.ErrNoRows) {
		if (tokenErr == nil) != (userErr == nil) {
			s.log.Warn("storage: half-present credential pair, clearing")
			_ = s.Clear(ctx)
		}
		return "", nil, nil
	}
	if tokenErr != nil {
		return "", nil, fmt.Errorf("storage: load token: %w", tokenErr)
	}
	if userErr != nil {
		return "", nil, fmt.Errorf("storage: load user: %w", userErr)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		s.log.Warn("storage: stored user is unreadable, clearing: %v", err)
		_ = s.Clear(ctx)
		return "", nil, nil
	}
	return token, &user, nil
}

// Clear removes both keys. Clearing an empty store is not an error.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin clear: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM credentials WHERE key IN (?, ?)`, keyAccessToken, keyUser); err != nil {
		return fmt.Errorf("storage: clear: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit clear: %w", err)
	}
	s.log.Debug("storage: credentials cleared")
	return nil
}
