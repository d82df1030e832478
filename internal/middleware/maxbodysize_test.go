package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douglasrujana/react-form-restaurant/internal/middleware"
)

// reservationDecoder decodes a reservation the way the API does: 413 when the
// body limit is hit, 400 for anything else it cannot read, 201 otherwise.
func reservationDecoder(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		var body struct {
			Name  string `json:"name"`
			Notes string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
}

func reservationJSON(notes string) string {
	return `{"name":"Ana García","email":"ana@example.com","phone":"5551234567",` +
		`"date":"2025-06-01","time":"19:30","guests":"4","notes":"` + notes + `"}`
}

func TestMaxBodySizeHandler_ReservationWithinLimit(t *testing.T) {
	var calls int
	h := middleware.NewMaxBodySizeHandler(1024)(reservationDecoder(&calls))

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(reservationJSON("ventana")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestMaxBodySizeHandler_OversizedReservation(t *testing.T) {
	body := reservationJSON(strings.Repeat("sin gluten ", 200))

	tests := []struct {
		name          string
		contentLength int64
		wantCalls     int
	}{
		// A declared length over the limit is refused before the handler runs.
		{"declared length", int64(len(body)), 0},
		// An unknown length is cut off while the handler decodes.
		{"streamed", -1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls int
			h := middleware.NewMaxBodySizeHandler(1024)(reservationDecoder(&calls))

			req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body))
			req.ContentLength = tc.contentLength
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			assert.Equal(t, tc.wantCalls, calls)
		})
	}
}

func TestMaxBodySizeHandler_OversizedBookingForm(t *testing.T) {
	var parseErr error
	h := middleware.NewMaxBodySizeHandler(256)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parseErr = r.ParseForm()
		w.WriteHeader(http.StatusOK)
	}))

	form := "name=Ana&guests=4&notes=" + strings.Repeat("a", 512)
	req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var tooBig *http.MaxBytesError
	assert.ErrorAs(t, parseErr, &tooBig)
}
