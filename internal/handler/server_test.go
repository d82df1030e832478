package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/douglasrujana/react-form-restaurant/internal/domain"
	"github.com/douglasrujana/react-form-restaurant/internal/handler"
	"github.com/douglasrujana/react-form-restaurant/internal/handler/gen"
	"github.com/douglasrujana/react-form-restaurant/internal/refresh"
	"github.com/douglasrujana/react-form-restaurant/internal/service"
	"github.com/douglasrujana/react-form-restaurant/internal/validation"
)

// mockSubmitter is a test double for handler.Submitter.
type mockSubmitter struct {
	submit func(ctx context.Context, formID string, f validation.Form) (service.SubmitResult, error)
}

func (m *mockSubmitter) Submit(ctx context.Context, formID string, f validation.Form) (service.SubmitResult, error) {
	return m.submit(ctx, formID, f)
}

// staticListing always returns the same view and never announces a load.
type staticListing struct {
	view service.ListView
}

func (s staticListing) View() service.ListView { return s.view }

func (s staticListing) WaitFor(context.Context, uint64) service.ListView { return s.view }

func (s staticListing) Subscribe() *refresh.Subscription { return refresh.NewBroker().Subscribe() }

// listerFunc adapts a function to service.ReservationLister.
type listerFunc func(ctx context.Context) ([]domain.Reservation, error)

func (f listerFunc) List(ctx context.Context) ([]domain.Reservation, error) { return f(ctx) }

// mockReader is a test double for handler.ReservationReader.
type mockReader struct {
	list func(ctx context.Context) ([]domain.Reservation, error)
}

func (m *mockReader) List(ctx context.Context) ([]domain.Reservation, error) {
	return m.list(ctx)
}

// compile-time checks: the doubles and the real types must satisfy the interfaces.
var (
	_ handler.Submitter         = (*mockSubmitter)(nil)
	_ handler.ListingViewer     = staticListing{}
	_ handler.ReservationReader = (*mockReader)(nil)
	_ handler.Submitter         = (*service.Submitter)(nil)
	_ handler.ListingViewer     = (*service.Lister)(nil)
	_ handler.ReservationReader = (*service.ReservationService)(nil)
)

// ---- helpers ---------------------------------------------------------------

type deps struct {
	submitter handler.Submitter
	listing   handler.ListingViewer
	reader    handler.ReservationReader
}

// newHTTPHandler wires a Server the way main.go does. Unset dependencies get
// doubles that fail the test if they are reached.
func newHTTPHandler(t *testing.T, d deps) http.Handler {
	t.Helper()
	if d.submitter == nil {
		d.submitter = &mockSubmitter{submit: func(context.Context, string, validation.Form) (service.SubmitResult, error) {
			t.Fatal("unexpected Submit call")
			return service.SubmitResult{}, nil
		}}
	}
	if d.listing == nil {
		d.listing = staticListing{view: service.ListView{State: service.ListLoaded}}
	}
	if d.reader == nil {
		d.reader = &mockReader{list: func(context.Context) ([]domain.Reservation, error) {
			t.Fatal("unexpected List call")
			return nil, nil
		}}
	}
	srv := handler.NewServer(d.submitter, d.listing, d.reader, discardLogger())
	return srv.Routes()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, r io.Reader) gen.ErrorResponse {
	t.Helper()
	var body gen.ErrorResponse
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func validForm() validation.Form {
	return validation.Form{
		Name:   "Ana García",
		Email:  "ana@example.com",
		Phone:  "5551234567",
		Date:   "2025-06-01",
		Time:   "19:30",
		Guests: "4",
	}
}
