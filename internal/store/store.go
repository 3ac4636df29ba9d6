// Package store owns the persistent representation: connection, schema versions,
// transactions, indexed predicates and the translation of driver errors.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quotebook/quotebook/internal/platform/db"
	"github.com/quotebook/quotebook/internal/shared"
)

// DBTX is implemented by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Store is the opened database.
type Store struct {
	pool   *pgxpool.Pool
	schema Schema
	logger *slog.Logger
}

// Option customises Open.
type Option func(*Store)

// WithLogger sets the logger used for migration messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithSchema replaces the default schema.
func WithSchema(schema Schema) Option {
	return func(s *Store) { s.schema = schema }
}

// Open connects and applies the schema. Connection failures are reported as
// shared.ErrStorageUnavailable.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	s := &Store{schema: Default, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	pool, err := db.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrStorageUnavailable, err)
	}
	s.pool = pool
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", shared.ErrStorageUnavailable, err)
	}
	return s, nil
}

// Pool exposes the connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Schema returns the schema the store was opened with.
func (s *Store) Schema() Schema {
	return s.schema
}

// WithTx runs fn in a repeatable-read transaction.
func (s *Store) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return db.WithTx(ctx, s.pool, fn)
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStorageUnavailable, err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

const uniqueViolation = "23505"

// Translate maps driver errors into the shared taxonomy. Errors already in the
// taxonomy pass through unchanged.
func Translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, shared.ErrValidation) || errors.Is(err, shared.ErrNotFound) ||
		errors.Is(err, shared.ErrConflict) || errors.Is(err, shared.ErrIO) ||
		errors.Is(err, shared.ErrStorageUnavailable) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, shared.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w: %s", op, shared.ErrConflict, pgErr.ConstraintName)
	}
	return &shared.IOError{Op: op, Err: err}
}
