package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/douglasrujana/react-form-restaurant/internal/domain"
	"github.com/douglasrujana/react-form-restaurant/internal/handler/gen"
	"github.com/douglasrujana/react-form-restaurant/internal/service"
	"github.com/douglasrujana/react-form-restaurant/internal/validation"
)

// CreateReservation handles POST /api/reservations.
func (s *Server) CreateReservation(ctx context.Context, req gen.CreateReservationRequestObject) (gen.CreateReservationResponseObject, error) {
	if req.Body == nil {
		return gen.CreateReservation400JSONResponse(requestBody("request body is required")), nil
	}
	formID, f := requestToForm(req.Body)

	res, err := s.submitter.Submit(ctx, formID, f)
	if errors.Is(err, service.ErrSubmissionInProgress) {
		return gen.CreateReservation409JSONResponse(conflictBody()), nil
	}
	if err != nil {
		return nil, err
	}

	switch res.Outcome {
	case service.StateSucceeded:
		return gen.CreateReservation201JSONResponse{
			FormId:      res.FormID,
			Message:     res.Message.Text,
			Reservation: newReservationToResponse(*res.Created),
		}, nil
	case service.StateFailed:
		return gen.CreateReservation502JSONResponse(storeBody(res.Message.Text)), nil
	default:
		return gen.CreateReservation422JSONResponse(validationBody(res.FieldErrors)), nil
	}
}

// ListReservations handles GET /api/reservations.
// It reads the store directly rather than the cached listing, so API clients
// always see the latest rows.
func (s *Server) ListReservations(ctx context.Context, _ gen.ListReservationsRequestObject) (gen.ListReservationsResponseObject, error) {
	list, err := s.reservations.List(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "list reservations", "error", err)
		msg := domain.StoreMessage(err)
		if msg == "" {
			msg = listErrorText
		}
		return gen.ListReservations502JSONResponse(storeBody(msg)), nil
	}

	out := make(gen.ListReservations200JSONResponse, len(list))
	for i, res := range list {
		r, err := reservationToResponse(res)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// requestToForm converts the JSON body into the form the validator reads.
func requestToForm(body *gen.CreateReservationRequest) (string, validation.Form) {
	f := validation.Form{
		Name:   body.Name,
		Email:  body.Email,
		Phone:  body.Phone,
		Date:   body.Date,
		Time:   body.Time,
		Guests: body.Guests,
	}
	if body.Notes != nil {
		f.Notes = *body.Notes
	}
	var formID string
	if body.FormId != nil {
		formID = *body.FormId
	}
	return formID, f
}

func newReservationToResponse(n domain.NewReservation) gen.NewReservation {
	return gen.NewReservation{
		Name:   n.Name,
		Email:  n.Email,
		Phone:  n.Phone,
		Date:   n.Date,
		Time:   n.Time,
		Guests: n.Guests,
		Notes:  n.Notes,
	}
}

// reservationToResponse adds the display labels the page shows. A stored
// date that is not YYYY-MM-DD is an error.
func reservationToResponse(r domain.Reservation) (gen.Reservation, error) {
	d, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return gen.Reservation{}, fmt.Errorf("reservation %s: %w", r.ID, err)
	}
	return gen.Reservation{
		Id:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Date:        openapi_types.Date{Time: d},
		Time:        r.Time,
		Guests:      r.Guests,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		DateLabel:   service.FormatDate(r.Date),
		TimeLabel:   service.FormatTime(r.Time),
		GuestsLabel: service.GuestsLabel(r.Guests),
	}, nil
}
