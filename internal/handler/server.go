// Package handler implements the HTTP surface of the reservation server:
// the booking page, its form endpoint, and a small JSON API over the same
// operations. All handlers are methods on Server; the JSON API is the
// gen.StrictServerInterface generated from api/openapi.yaml.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/douglasrujana/react-form-restaurant/api"
	"github.com/douglasrujana/react-form-restaurant/internal/domain"
	"github.com/douglasrujana/react-form-restaurant/internal/handler/gen"
	"github.com/douglasrujana/react-form-restaurant/internal/refresh"
	"github.com/douglasrujana/react-form-restaurant/internal/service"
	"github.com/douglasrujana/react-form-restaurant/internal/validation"
)

// Submitter runs one booking submission. Defining the interface here, in the
// consumer package, lets handler tests inject a stub.
type Submitter interface {
	Submit(ctx context.Context, formID string, f validation.Form) (service.SubmitResult, error)
}

// ListingViewer exposes the reservation listing: its current snapshot, a way
// to wait for a given refresh version, and a signal per applied fetch.
type ListingViewer interface {
	View() service.ListView
	WaitFor(ctx context.Context, version uint64) service.ListView
	Subscribe() *refresh.Subscription
}

// ReservationReader reads all reservations straight from the store.
type ReservationReader interface {
	List(ctx context.Context) ([]domain.Reservation, error)
}

var _ gen.StrictServerInterface = (*Server)(nil)

// Server holds the dependencies shared by every handler.
type Server struct {
	submitter    Submitter
	listing      ListingViewer
	reservations ReservationReader
	log          *slog.Logger

	// now is swapped in tests to pin the date hint on the form.
	now func() time.Time

	streamsDone chan struct{}
	closeOnce   sync.Once
}

// NewServer constructs the Server with all its dependencies.
func NewServer(sub Submitter, listing ListingViewer, reservations ReservationReader, log *slog.Logger) *Server {
	return &Server{
		submitter:    sub,
		listing:      listing,
		reservations: reservations,
		log:          log,
		now:          time.Now,
		streamsDone:  make(chan struct{}),
	}
}

// CloseStreams ends every open event stream. It is safe to call more than once.
func (s *Server) CloseStreams() {
	s.closeOnce.Do(func() { close(s.streamsDone) })
}

// Routes returns the router for every endpoint: the page routes and the
// event stream are registered by hand, the rest by the generated handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", serveOpenAPI)

	r.Get("/", s.getPage)
	r.Post("/reservations", s.postReservationForm)
	r.Get("/reservations/list", s.getListFragment)
	r.Get("/api/reservations/events", s.streamRefresh)

	strict := gen.NewStrictHandlerWithOptions(s, nil, gen.StrictHTTPServerOptions{
		RequestErrorHandlerFunc:  s.requestError,
		ResponseErrorHandlerFunc: s.responseError,
	})
	return gen.HandlerWithOptions(strict, gen.ChiServerOptions{BaseRouter: r})
}

// requestError answers a JSON body the generated handler could not decode.
func (s *Server) requestError(w http.ResponseWriter, _ *http.Request, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		writeJSON(w, http.StatusRequestEntityTooLarge, requestBody("request body too large"))
		return
	}
	writeJSON(w, http.StatusBadRequest, requestBody("request body must be a JSON reservation"))
}

// responseError answers an error returned by a strict handler. The cause is
// logged; the client gets the generic failure text.
func (s *Server) responseError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "api request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, storeBody(service.FallbackErrorText))
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(api.OpenAPI)
}
