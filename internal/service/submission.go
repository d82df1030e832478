package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/douglasrujana/react-form-restaurant/internal/domain"
	"github.com/douglasrujana/react-form-restaurant/internal/refresh"
	"github.com/douglasrujana/react-form-restaurant/internal/validation"
)

// User-facing banner texts.
const (
	ConfirmationText  = "¡Reserva confirmada! Te enviaremos un correo de confirmación."
	FallbackErrorText = "Error al crear la reserva. Por favor intenta de nuevo."
)

// ErrSubmissionInProgress is returned when a form is submitted again while
// its previous submission has not finished.
var ErrSubmissionInProgress = errors.New("submission already in progress")

// ReservationCreator stores one validated reservation.
type ReservationCreator interface {
	Create(ctx context.Context, res domain.NewReservation) error
}

// SubmissionState is where a form is in the submit cycle.
type SubmissionState int

const (
	StateIdle SubmissionState = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s SubmissionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// MessageKind distinguishes the confirmation banner from the error banner.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is the single banner shown above the submit button.
type Message struct {
	Kind MessageKind
	Text string
}

// SubmitResult describes how one submission ended.
type SubmitResult struct {
	FormID string
	// Outcome is StateSucceeded, StateFailed, or StateIdle when validation
	// rejected the form before anything was sent.
	Outcome SubmissionState
	// Form holds the values to show next: defaults after success, the
	// submitted values otherwise.
	Form        validation.Form
	FieldErrors validation.FieldErrors
	Message     *Message
	// Created is the payload that was stored, set only on success.
	Created *domain.NewReservation
	// Err is the store failure, set only when Outcome is StateFailed.
	Err error
	// Version is the refresh version announced for the new reservation, set
	// only on success. A listing whose view reflects it shows the new row.
	Version uint64
}

// Submitter runs the submit cycle for booking forms:
// validate, insert once, report, and signal listings to refresh.
type Submitter struct {
	creator  ReservationCreator
	notifier refresh.Notifier
	log      *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewSubmitter wires a Submitter to the store and the refresh signal.
func NewSubmitter(creator ReservationCreator, notifier refresh.Notifier, log *slog.Logger) *Submitter {
	return &Submitter{
		creator:  creator,
		notifier: notifier,
		log:      log,
		inFlight: make(map[string]struct{}),
	}
}

// State reports StateSubmitting while formID has a submission in flight and
// StateIdle otherwise. Success and failure are transient: once Submit
// returns, the form is idle again.
func (s *Submitter) State(formID string) SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[formID]; busy {
		return StateSubmitting
	}
	return StateIdle
}

// Submit validates f and, if it passes, stores it exactly once.
// formID identifies the form instance; an empty formID gets a fresh one.
// The only error returned is ErrSubmissionInProgress; validation and store
// failures are reported through the result.
func (s *Submitter) Submit(ctx context.Context, formID string, f validation.Form) (SubmitResult, error) {
	if formID == "" {
		formID = uuid.NewString()
	}
	result := SubmitResult{FormID: formID, Form: f}

	payload, fieldErrs := validation.Validate(f)
	if len(fieldErrs) > 0 {
		result.Outcome = StateIdle
		result.FieldErrors = fieldErrs
		return result, nil
	}

	if !s.begin(formID) {
		result.Outcome = StateSubmitting
		return result, ErrSubmissionInProgress
	}
	defer s.end(formID)

	if err := s.creator.Create(ctx, payload); err != nil {
		s.log.ErrorContext(ctx, "reservation insert failed", "form_id", formID, "error", err)

		text := domain.StoreMessage(err)
		if text == "" {
			text = FallbackErrorText
		}
		result.Outcome = StateFailed
		result.Message = &Message{Kind: MessageError, Text: text}
		result.Err = err
		return result, nil
	}

	s.log.InfoContext(ctx, "reservation created", "form_id", formID, "date", payload.Date, "time", payload.Time)

	result.Outcome = StateSucceeded
	result.Form = validation.DefaultForm()
	result.Message = &Message{Kind: MessageSuccess, Text: ConfirmationText}
	result.Created = &payload
	result.Version = s.notifier.Notify(ctx)
	return result, nil
}

func (s *Submitter) begin(formID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[formID]; busy {
		return false
	}
	s.inFlight[formID] = struct{}{}
	return true
}

func (s *Submitter) end(formID string) {
	s.mu.Lock()
	delete(s.inFlight, formID)
	s.mu.Unlock()
}
