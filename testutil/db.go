// Package testutil provides shared helpers for integration tests.
// Helpers in this package skip automatically when required environment
// variables are not set, so unit tests can run without a running database.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/douglasrujana/react-form-restaurant/migrations"
)

// DSNEnv names the environment variable holding the test database URL.
const DSNEnv = "TEST_DATABASE_URL"

// NewPool opens a *pgxpool.Pool connected to the test database.
// The test is skipped when TEST_DATABASE_URL is not set, and the pool is
// closed when the test finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := requireDSN(t)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewReservationsTx begins a transaction on pool with the reservations table
// emptied inside it. The transaction is rolled back when the test finishes,
// so nothing a test writes is ever committed.
func NewReservationsTx(t *testing.T, pool *pgxpool.Pool) pgx.Tx {
	t.Helper()
	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("testutil.NewReservationsTx: begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })

	if _, err := tx.Exec(ctx, "DELETE FROM reservations"); err != nil {
		t.Fatalf("testutil.NewReservationsTx: clear reservations: %v", err)
	}
	return tx
}

// NewSQLDB opens a *sql.DB on the test database using the pgx database/sql
// driver, for driving goose directly. It is closed when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openSQLDB(requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustMigrate applies all migrations to the test database and panics on any
// error. It is meant for TestMain, where no *testing.T is available, and
// does nothing when TEST_DATABASE_URL is not set.
func MustMigrate() {
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		return
	}

	db, err := openSQLDB(dsn)
	if err != nil {
		panic("testutil.MustMigrate: " + err.Error())
	}
	defer db.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := migrations.Up(context.Background(), db, log); err != nil {
		panic("testutil.MustMigrate: " + err.Error())
	}
}

func openSQLDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// requireDSN returns the TEST_DATABASE_URL environment variable value,
// skipping the test if it is not set.
func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	return dsn
}
