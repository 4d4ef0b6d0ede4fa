package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"projecthub/lifecycle"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const uniqueViolation = "23505"

// DB is the Postgres implementation of the project and application stores,
// the identity resolver, the profile check and the stats notifier.
type DB struct {
	Pool *pgxpool.Pool
	*queries
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct {
	q querier
}

func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return &DB{Pool: pool, queries: &queries{q: pool}}, nil
}

// InTx runs fn in a READ COMMITTED transaction. Status writes inside fn are
// conditional updates, which is what serialises concurrent transitions.
func (db *DB) InTx(ctx context.Context, fn func(tx lifecycle.Tx) error) error {
	return pgx.BeginTxFunc(ctx, db.Pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(&queries{q: tx})
	})
}

func (db *DB) Close() {
	db.Pool.Close()
	logrus.Info("Database connection closed")
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return lifecycle.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", lifecycle.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

func timed(op string, start time.Time, fields logrus.Fields) {
	fields["duration"] = time.Since(start)
	logrus.WithFields(fields).Debug(op)
}

type rowScanner interface {
	Scan(dest ...any) error
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}
