package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douglasrujana/react-form-restaurant/internal/domain"
	"github.com/douglasrujana/react-form-restaurant/internal/repo"
	"github.com/douglasrujana/react-form-restaurant/internal/service"
)

// mockReservationRepo is a hand-written test double for repo.ReservationRepo.
// Set only the method fields your test needs.
type mockReservationRepo struct {
	insert  func(ctx context.Context, r domain.NewReservation) error
	listAll func(ctx context.Context) ([]domain.Reservation, error)
}

func (m *mockReservationRepo) Insert(ctx context.Context, r domain.NewReservation) error {
	return m.insert(ctx, r)
}
func (m *mockReservationRepo) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	return m.listAll(ctx)
}

// compile-time check: mockReservationRepo must satisfy repo.ReservationRepo.
var _ repo.ReservationRepo = (*mockReservationRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newReservation() domain.NewReservation {
	return domain.NewReservation{
		Name:   "Ana García",
		Email:  "ana@x.com",
		Phone:  "1234567",
		Date:   "2025-06-01",
		Time:   "19:30",
		Guests: 4,
	}
}

func storedReservation(date, clock string, guests int) domain.Reservation {
	return domain.Reservation{
		ID:        uuid.New(),
		Name:      "Ana García",
		Email:     "ana@x.com",
		Phone:     "1234567",
		Date:      date,
		Time:      clock,
		Guests:    guests,
		CreatedAt: time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC),
	}
}

// ---- Create ----------------------------------------------------------------

func TestReservationService_Create_PassesPayloadThrough(t *testing.T) {
	var got domain.NewReservation
	calls := 0
	r := &mockReservationRepo{
		insert: func(_ context.Context, in domain.NewReservation) error {
			calls++
			got = in
			return nil
		},
	}
	svc := service.NewReservationService(r, discardLogger())

	err := svc.Create(context.Background(), newReservation())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, newReservation(), got)
}

func TestReservationService_Create_StoreErrorPreserved(t *testing.T) {
	storeErr := &domain.StoreError{Op: "insert", Message: "duplicate key"}
	calls := 0
	r := &mockReservationRepo{
		insert: func(context.Context, domain.NewReservation) error {
			calls++
			return storeErr
		},
	}
	svc := service.NewReservationService(r, discardLogger())

	err := svc.Create(context.Background(), newReservation())

	require.Error(t, err)
	assert.Equal(t, 1, calls, "insert must not be retried")
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, "duplicate key", domain.StoreMessage(err))
}

// ---- List ------------------------------------------------------------------

func TestReservationService_List_NilBecomesEmpty(t *testing.T) {
	r := &mockReservationRepo{
		listAll: func(context.Context) ([]domain.Reservation, error) { return nil, nil },
	}
	svc := service.NewReservationService(r, discardLogger())

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReservationService_List_KeepsStoreOrder(t *testing.T) {
	rows := []domain.Reservation{
		storedReservation("2025-06-01", "09:00", 2),
		storedReservation("2025-06-02", "10:00", 3),
	}
	r := &mockReservationRepo{
		listAll: func(context.Context) ([]domain.Reservation, error) { return rows, nil },
	}
	svc := service.NewReservationService(r, discardLogger())

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReservationService_List_Error(t *testing.T) {
	repoErr := errors.New("connection refused")
	r := &mockReservationRepo{
		listAll: func(context.Context) ([]domain.Reservation, error) { return nil, repoErr },
	}
	svc := service.NewReservationService(r, discardLogger())

	_, err := svc.List(context.Background())

	assert.ErrorIs(t, err, repoErr)
}
