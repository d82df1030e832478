// Package validation checks reservation submissions before they reach the
// store. It is pure: no I/O, no logging, no shared mutable state.
package validation

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/douglasrujana/react-form-restaurant/internal/domain"
)

// Form is a reservation exactly as collected from the booking form:
// every field is text, including the party size.
type Form struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Guests string `json:"guests"`
	Notes  string `json:"notes"`
}

// DefaultGuests is the party size a blank form starts with.
const DefaultGuests = "2"

// DefaultForm returns the values an empty booking form is reset to.
func DefaultForm() Form {
	return Form{Guests: DefaultGuests}
}

// FieldErrors maps a form field name ("name", "email", ...) to the message
// shown next to that input. A nil or empty FieldErrors means the form passed.
type FieldErrors map[string]string

// Error joins all messages in field order so the result is deterministic.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + fe[f]
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets callers match any FieldErrors with errors.Is(err, domain.ErrValidation).
func (fe FieldErrors) Unwrap() error { return domain.ErrValidation }

// payload is the typed shadow of Form that the validator inspects.
// The form tag names the field in FieldErrors.
type payload struct {
	Name   string `form:"name" validate:"min=2,max=100"`
	Email  string `form:"email" validate:"email"`
	Phone  string `form:"phone" validate:"min=7,max=20"`
	Date   string `form:"date" validate:"required"`
	Time   string `form:"time" validate:"required"`
	Guests int    `form:"guests" validate:"min=1,max=20"`
	Notes  string `form:"notes" validate:"max=500"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

// messages holds the user-facing text per field and failed rule.
var messages = map[string]map[string]string{
	"name": {
		"min": "El nombre debe tener al menos 2 caracteres",
		"max": "El nombre es muy largo",
	},
	"email": {
		"email": "Ingresa un correo electrónico válido",
	},
	"phone": {
		"min": "El teléfono debe tener al menos 7 dígitos",
		"max": "El teléfono es muy largo",
	},
	"date": {
		"required": "Selecciona una fecha",
	},
	"time": {
		"required": "Selecciona una hora",
	},
	"guests": {
		"min":     "Mínimo 1 persona",
		"max":     "Máximo 20 personas",
		"number":  "Ingresa un número válido",
		"integer": "Debe ser un número entero",
	},
	"notes": {
		"max": "Las notas son muy largas",
	},
}

// Validate checks every field of f independently and returns either the
// normalised creation payload or the full set of field errors.
// Date and time are only checked for presence; calendar validity and
// opening hours are left to the form's input hints.
func Validate(f Form) (domain.NewReservation, FieldErrors) {
	errs := FieldErrors{}

	guests, guestsRule := coerceGuests(f.Guests)

	p := payload{
		Name:   f.Name,
		Email:  f.Email,
		Phone:  f.Phone,
		Date:   f.Date,
		Time:   f.Time,
		Guests: guests,
		Notes:  f.Notes,
	}

	var except []string
	if guestsRule != "" {
		errs["guests"] = messages["guests"][guestsRule]
		except = append(except, "Guests")
	}

	var verrs validator.ValidationErrors
	if err := validate.StructExcept(p, except...); errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, seen := errs[fe.Field()]; seen {
				continue
			}
			errs[fe.Field()] = messageFor(fe.Field(), fe.Tag())
		}
	}

	if len(errs) > 0 {
		return domain.NewReservation{}, errs
	}

	out := domain.NewReservation{
		Name:   f.Name,
		Email:  f.Email,
		Phone:  f.Phone,
		Date:   f.Date,
		Time:   f.Time,
		Guests: guests,
	}
	if f.Notes != "" {
		notes := f.Notes
		out.Notes = &notes
	}
	return out, nil
}

func messageFor(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return "Valor inválido"
}

// coerceGuests turns the party-size text into an integer the way a numeric
// form input does: blank is zero, decimals must be whole. The second return
// value names the failed coercion rule, or is empty on success.
func coerceGuests(s string) (int, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ""
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, "number"
	}
	if n != math.Trunc(n) {
		return 0, "integer"
	}
	// Out-of-range values only need to stay out of range for the min/max rules.
	switch {
	case n < 1:
		return 0, ""
	case n > 20:
		return 21, ""
	}
	return int(n), ""
}
