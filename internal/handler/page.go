package handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/douglasrujana/react-form-restaurant/internal/service"
	"github.com/douglasrujana/react-form-restaurant/internal/validation"
)

// listErrorText is shown when the listing could not be fetched.
const listErrorText = "Error al cargar las reservas."

// listingWait bounds how long a page or fragment request naming a refresh
// version waits for the listing to catch up before rendering what it has.
const listingWait = 2 * time.Second

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"loadingText":   func() string { return service.LoadingText },
	"emptyText":     func() string { return service.EmptyText },
	"listErrorText": func() string { return listErrorText },
}).ParseFS(templateFS, "templates/*.html"))

// pageData is everything the booking page renders.
type pageData struct {
	FormID     string
	Form       validation.Form
	Errors     validation.FieldErrors
	Message    *service.Message
	Submitting bool
	Today      string
	List       service.ListView
}

// getPage handles GET /.
// A fresh form id is issued on every render; ?reserved=1 marks the redirect
// that follows a successful submission, whose ?v= names the refresh the new
// row arrives with.
func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(uuid.NewString(), validation.DefaultForm())
	data.List = s.listingFor(r)
	if r.URL.Query().Get("reserved") == "1" {
		data.Message = &service.Message{Kind: service.MessageSuccess, Text: service.ConfirmationText}
	}
	s.render(w, r, http.StatusOK, "page", data)
}

// getListFragment handles GET /reservations/list, the listing alone, which
// the page swaps in when a refresh event arrives.
func (s *Server) getListFragment(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "list", s.listingFor(r))
}

// listingFor returns the listing view. When the request carries ?v=, it
// waits up to listingWait for a loaded view that reflects that version.
func (s *Server) listingFor(r *http.Request) service.ListView {
	v, err := strconv.ParseUint(r.URL.Query().Get("v"), 10, 64)
	if err != nil || v == 0 {
		return s.listing.View()
	}
	ctx, cancel := context.WithTimeout(r.Context(), listingWait)
	defer cancel()
	return s.listing.WaitFor(ctx, v)
}

// postReservationForm handles POST /reservations from the booking page.
func (s *Server) postReservationForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	formID := r.PostFormValue("form_id")
	f := validation.Form{
		Name:   r.PostFormValue("name"),
		Email:  r.PostFormValue("email"),
		Phone:  r.PostFormValue("phone"),
		Date:   r.PostFormValue("date"),
		Time:   r.PostFormValue("time"),
		Guests: r.PostFormValue("guests"),
		Notes:  r.PostFormValue("notes"),
	}

	res, err := s.submitter.Submit(r.Context(), formID, f)
	if errors.Is(err, service.ErrSubmissionInProgress) {
		data := s.newPageData(res.FormID, f)
		data.Submitting = true
		s.render(w, r, http.StatusConflict, "page", data)
		return
	}
	if err != nil {
		s.log.ErrorContext(r.Context(), "submit reservation form", "error", err)
		data := s.newPageData(res.FormID, f)
		data.Message = &service.Message{Kind: service.MessageError, Text: service.FallbackErrorText}
		s.render(w, r, http.StatusInternalServerError, "page", data)
		return
	}

	switch res.Outcome {
	case service.StateSucceeded:
		http.Redirect(w, r, fmt.Sprintf("/?reserved=1&v=%d", res.Version), http.StatusSeeOther)
	case service.StateFailed:
		data := s.newPageData(res.FormID, res.Form)
		data.Message = res.Message
		s.render(w, r, http.StatusBadGateway, "page", data)
	default:
		data := s.newPageData(res.FormID, res.Form)
		data.Errors = res.FieldErrors
		s.render(w, r, http.StatusUnprocessableEntity, "page", data)
	}
}

func (s *Server) newPageData(formID string, f validation.Form) pageData {
	return pageData{
		FormID: formID,
		Form:   f,
		Today:  s.now().Format(time.DateOnly),
		List:   s.listing.View(),
	}
}

// render executes the named template into a buffer first so a template error
// never leaves a half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.ErrorContext(r.Context(), "render template", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
