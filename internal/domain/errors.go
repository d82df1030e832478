package domain

import "errors"

// ErrValidation is returned when a reservation submission fails one or more
// field rules. Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// StoreError is returned by the reservation gateways when the persistence
// service rejects or fails a call. Message is passed through from the
// underlying service verbatim; it is what the user sees on a failed insert.
type StoreError struct {
	// Op names the gateway operation, e.g. "insert" or "list".
	Op string
	// Message is the human-readable reason reported by the store. May be empty.
	Message string
	// Err is the underlying error, if any.
	Err error
}

func (e *StoreError) Error() string {
	switch {
	case e.Message != "":
		return "store " + e.Op + ": " + e.Message
	case e.Err != nil:
		return "store " + e.Op + ": " + e.Err.Error()
	default:
		return "store " + e.Op + " failed"
	}
}

func (e *StoreError) Unwrap() error { return e.Err }

// StoreMessage returns the store-supplied message carried by err, or "" when
// err is not a StoreError or the store gave no message.
func StoreMessage(err error) string {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
