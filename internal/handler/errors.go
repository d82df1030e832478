package handler

import (
	"encoding/json"
	"net/http"

	"github.com/douglasrujana/react-form-restaurant/internal/handler/gen"
	"github.com/douglasrujana/react-form-restaurant/internal/validation"
)

// validationBody returns an ErrorResponse listing every failed field.
func validationBody(fe validation.FieldErrors) gen.ErrorResponse {
	fields := map[string]string(fe)
	return gen.ErrorResponse{Error: gen.ErrorDetail{
		Code:    "validation_error",
		Message: "reservation has invalid fields",
		Fields:  &fields,
	}}
}

// storeBody returns an ErrorResponse for a failure reported by the store.
// The message is shown to the user as-is.
func storeBody(message string) gen.ErrorResponse {
	return gen.ErrorResponse{Error: gen.ErrorDetail{Code: "store_error", Message: message}}
}

// requestBody returns an ErrorResponse for a request rejected before it
// reached the service layer (e.g. malformed JSON).
func requestBody(message string) gen.ErrorResponse {
	return gen.ErrorResponse{Error: gen.ErrorDetail{Code: "bad_request", Message: message}}
}

// conflictBody returns an ErrorResponse for a duplicate in-flight submission.
func conflictBody() gen.ErrorResponse {
	return gen.ErrorResponse{Error: gen.ErrorDetail{Code: "submission_in_progress", Message: "Reservando..."}}
}

// writeJSON is for the error paths the generated handler hands back to us.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
