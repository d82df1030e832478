// Package service contains the reservation flows: submitting a booking and
// keeping a listing of all bookings current. Services validate input,
// interpret store results, and coordinate refreshes.
// No SQL or HTTP lives here; the store is reached through repo.ReservationRepo.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/douglasrujana/react-form-restaurant/internal/domain"
	"github.com/douglasrujana/react-form-restaurant/internal/repo"
)

// ReservationService passes reservations to and from the store.
type ReservationService struct {
	repo repo.ReservationRepo
	log  *slog.Logger
}

// NewReservationService constructs a ReservationService backed by r.
func NewReservationService(r repo.ReservationRepo, log *slog.Logger) *ReservationService {
	return &ReservationService{repo: r, log: log}
}

// Create stores one reservation. It is called exactly once per accepted
// submission and never retries.
func (s *ReservationService) Create(ctx context.Context, res domain.NewReservation) error {
	err := s.repo.Insert(ctx, res)
	s.log.DebugContext(ctx, "reservation insert result",
		"date", res.Date,
		"time", res.Time,
		"guests", res.Guests,
		"has_notes", res.Notes != nil,
		"error", err,
	)
	if err != nil {
		return fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	return nil
}

// List returns every reservation ordered by date and time.
// Always returns a non-nil slice on success.
func (s *ReservationService) List(ctx context.Context) ([]domain.Reservation, error) {
	out, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ReservationService.List: %w", err)
	}
	if out == nil {
		return []domain.Reservation{}, nil
	}
	return out, nil
}
