package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const defaultMaxTxRetries = 5

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	key        TEXT NOT NULL,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, key)
)`

const (
	selectDocForUpdate = `SELECT body FROM documents WHERE collection = $1 AND key = $2 FOR UPDATE`
	selectDoc          = `SELECT body FROM documents WHERE collection = $1 AND key = $2`
	upsertDoc          = `INSERT INTO documents (collection, key, body, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (collection, key) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`
)

// Retryable SQLSTATE codes: serialization_failure, deadlock_detected and
// unique_violation (two transactions inserting the same new document).
var retryableCodes = map[string]bool{
	"40001": true,
	"40P01": true,
	"23505": true,
}

// PostgresStore keeps documents in a single JSONB table and runs every
// transaction at serializable isolation.
type PostgresStore struct {
	pool       *pgxpool.Pool
	maxRetries int
	logger     *zap.Logger
}

// NewPostgresStore connects to databaseURL.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return NewPostgresStoreFromPool(pool), nil
}

// NewPostgresStoreFromPool wraps an existing pool.
func NewPostgresStoreFromPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, maxRetries: defaultMaxTxRetries, logger: logger.Log}
}

// Migrate creates the documents table if needed.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// RunTx executes fn within a serializable transaction, retrying on
// serialization conflicts.
func (s *PostgresStore) RunTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err = s.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		if attempt < s.maxRetries {
			s.logger.Warn("Transaction conflict, retrying",
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", s.maxRetries),
				zap.Error(err),
			)
		}
	}
	return apperr.Wrap(err, apperr.KindUnavailable, "transaction kept conflicting")
}

func (s *PostgresStore) runOnce(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperr.Wrap(err, apperr.KindUnavailable, "failed to begin transaction")
	}

	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.logger.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if isRetryable(err) {
			return err
		}
		return apperr.Wrap(err, apperr.KindUnavailable, "failed to commit transaction")
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, key string, dest interface{}) (bool, error) {
	return getDoc(ctx, s.pool, selectDoc, collection, key, dest)
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Get(ctx context.Context, collection, key string, dest interface{}) (bool, error) {
	return getDoc(ctx, t.tx, selectDocForUpdate, collection, key, dest)
}

func (t *pgTx) Put(ctx context.Context, collection, key string, value interface{}) error {
	body, err := json.Marshal(value)
	if err != nil {
		return apperr.Wrap(err, apperr.KindInvalidArgument, "encode document")
	}
	if _, err := t.tx.Exec(ctx, upsertDoc, collection, key, body); err != nil {
		return wrapQueryError(err, "write document")
	}
	return nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getDoc(ctx context.Context, q querier, sql, collection, key string, dest interface{}) (bool, error) {
	var body []byte
	err := q.QueryRow(ctx, sql, collection, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrapQueryError(err, "read document")
	}
	return decodeDoc(body, dest)
}

// wrapQueryError leaves retryable conflicts bare so RunTx can recognize them.
func wrapQueryError(err error, action string) error {
	if isRetryable(err) {
		return err
	}
	return apperr.Wrap(err, apperr.KindUnavailable, fmt.Sprintf("failed to %s", action))
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && retryableCodes[pgErr.Code]
}
