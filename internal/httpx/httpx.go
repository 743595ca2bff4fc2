// Package httpx holds the small shared HTTP vocabulary of the API:
// JSON responses, the error envelope, and request body decoding with
// validation.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidBody is returned by Decode when the request body is not valid
// JSON for the target type.
var ErrInvalidBody = errors.New("httpx: invalid request body")

var validate = validator.New(validator.WithRequiredStructEnabled())

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the error envelope: {"error": "..."}.
type errorResponse struct {
	Error string `json:"error"`
}

// Error writes a JSON error envelope with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// Decode reads the request body into v and validates it with the struct's
// `validate` tags. Returns ErrInvalidBody for malformed JSON and a
// validator error for failed constraints.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if err := validate.Struct(v); err != nil {
		return err
	}
	return nil
}

// IsValidationError reports whether err came from struct validation,
// so handlers can map it to a 400 instead of a 500.
func IsValidationError(err error) bool {
	var verr validator.ValidationErrors
	return errors.Is(err, ErrInvalidBody) || errors.As(err, &verr)
}
