// Package errmap translates engine and domain errors into HTTP responses.
package errmap

import (
	"errors"
	"net/http"

	"github.com/aelexs/phonekit/internal/domain"
	"github.com/aelexs/phonekit/pkg/phonenumbers"
)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e HTTPError) Error() string {
	return e.Message
}

// httpMapping defines an error to HTTP status/code mapping.
type httpMapping struct {
	err        error
	statusCode int
	code       string
}

// httpMappings maps errors to HTTP status codes and error codes.
// Order matters: first match wins (via errors.Is).
var httpMappings = []httpMapping{
	// Parse failures carry their kind as the code.
	{phonenumbers.ErrNotANumber, http.StatusBadRequest, "NOT_A_NUMBER"},
	{phonenumbers.ErrInvalidCountryCode, http.StatusBadRequest, "INVALID_COUNTRY_CODE"},
	{phonenumbers.ErrTooShortAfterIDD, http.StatusBadRequest, "TOO_SHORT_AFTER_IDD"},
	{phonenumbers.ErrTooShortNSN, http.StatusBadRequest, "TOO_SHORT_NSN"},
	{phonenumbers.ErrTooLong, http.StatusBadRequest, "TOO_LONG"},

	// Resource errors
	{domain.ErrUnknownRegion, http.StatusNotFound, "UNKNOWN_REGION"},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},

	// Validation errors: 400
	{domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrInvalidPhoneNumber, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrTextTooLarge, http.StatusRequestEntityTooLarge, "TEXT_TOO_LARGE"},

	// Rate limiting: 429
	{domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},

	// Availability
	{domain.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
}

// ToHTTPError converts an error to an HTTP error.
func ToHTTPError(err error) HTTPError {
	if err == nil {
		return HTTPError{StatusCode: http.StatusOK}
	}
	for _, m := range httpMappings {
		if errors.Is(err, m.err) {
			return HTTPError{StatusCode: m.statusCode, Code: m.code, Message: err.Error()}
		}
	}
	// Never expose internal error details to clients
	return HTTPError{StatusCode: http.StatusInternalServerError, Code: "INTERNAL", Message: "internal error"}
}

// ToHTTPStatusCode extracts just the HTTP status code for an error.
func ToHTTPStatusCode(err error) int {
	return ToHTTPError(err).StatusCode
}
