// Package domain contains the core data types for the reservation service.
// This package has no internal dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reservation is a single booking as persisted by the store.
// ID and CreatedAt are assigned by the store and never sent on creation.
type Reservation struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"` // "2006-01-02"
	Time      string    `json:"time"` // "15:04", 24-hour clock
	Guests    int       `json:"guests"`
	Notes     *string   `json:"notes"` // nil when the guest left no notes
	CreatedAt time.Time `json:"created_at"`
}

// NewReservation is the creation payload sent to the store.
// It is produced only by the validation package, so every field is already
// known to satisfy the booking rules.
type NewReservation struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  string  `json:"phone"`
	Date   string  `json:"date"`
	Time   string  `json:"time"`
	Guests int     `json:"guests"`
	Notes  *string `json:"notes"`
}

// NormalizeClock trims a trailing seconds component from a time-of-day
// string, so "19:30:00" becomes "19:30". Any other input is returned as-is.
// Stores that keep time-of-day in a TIME column hand back seconds even when
// none were submitted.
func NormalizeClock(s string) string {
	if len(s) == len("15:04:05") && strings.Count(s, ":") == 2 {
		return s[:len("15:04")]
	}
	return s
}
