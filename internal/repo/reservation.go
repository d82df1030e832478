// Package repo contains the data store gateways for reservations.
// Each gateway hides one persistence service behind ReservationRepo.
// No business logic lives here, only queries and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/douglasrujana/react-form-restaurant/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ReservationRepo is the gateway to the external reservation store.
// Failures are reported as *domain.StoreError (possibly wrapped).
type ReservationRepo interface {
	// Insert appends one reservation. The store assigns id and created_at.
	// Implementations must not retry.
	Insert(ctx context.Context, r domain.NewReservation) error

	// ListAll returns every reservation ordered by date, then time, ascending.
	ListAll(ctx context.Context) ([]domain.Reservation, error)
}

// pgReservationRepo is the Postgres implementation of ReservationRepo.
type pgReservationRepo struct {
	db db
}

// NewReservationRepo constructs a ReservationRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewReservationRepo(db db) ReservationRepo {
	return &pgReservationRepo{db: db}
}

// Insert adds a reservation row. id and created_at come from column defaults.
func (r *pgReservationRepo) Insert(ctx context.Context, res domain.NewReservation) error {
	const q = `
		INSERT INTO reservations (name, email, phone, date, time, guests, notes)
		VALUES (@name, @email, @phone, @date::date, @time::time, @guests, @notes)`

	args := pgx.NamedArgs{
		"name":   res.Name,
		"email":  res.Email,
		"phone":  res.Phone,
		"date":   res.Date,
		"time":   res.Time,
		"guests": res.Guests,
		"notes":  res.Notes, // nil becomes NULL
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.ReservationRepo.Insert: %w", pgStoreError("insert", err))
	}
	return nil
}

// ListAll returns all reservations ordered by date and time.
func (r *pgReservationRepo) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	const q = `
		SELECT id, name, email, phone,
		       to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'),
		       guests, notes, created_at
		FROM reservations
		ORDER BY date ASC, time ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListAll: %w", pgStoreError("list", err))
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReservationRepo.ListAll: scan: %w", pgStoreError("list", err))
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListAll: rows: %w", pgStoreError("list", err))
	}

	return out, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanReservation maps a single database row into a domain.Reservation.
func scanReservation(s scanner) (domain.Reservation, error) {
	var (
		res   domain.Reservation
		id    pgtype.UUID
		notes pgtype.Text
	)

	err := s.Scan(&id, &res.Name, &res.Email, &res.Phone, &res.Date, &res.Time,
		&res.Guests, &notes, &res.CreatedAt)
	if err != nil {
		return domain.Reservation{}, err
	}

	res.ID = uuid.UUID(id.Bytes)
	if notes.Valid {
		n := notes.String
		res.Notes = &n
	}
	return res, nil
}

// pgStoreError wraps err as a StoreError, lifting the server's message out
// of a Postgres error so it reads like the store's own wording.
func pgStoreError(op string, err error) *domain.StoreError {
	se := &domain.StoreError{Op: op, Message: err.Error(), Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		se.Message = pgErr.Message
	}
	return se
}
