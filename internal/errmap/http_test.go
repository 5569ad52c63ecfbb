package errmap_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/phonekit/internal/domain"
	"github.com/aelexs/phonekit/internal/errmap"
	"github.com/aelexs/phonekit/pkg/phonenumbers"
)

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatusCode int
		wantCode       string
	}{
		{"nil error", nil, http.StatusOK, ""},

		// Parse errors
		{"ErrNotANumber", phonenumbers.ErrNotANumber, http.StatusBadRequest, "NOT_A_NUMBER"},
		{"ErrInvalidCountryCode", phonenumbers.ErrInvalidCountryCode, http.StatusBadRequest, "INVALID_COUNTRY_CODE"},
		{"ErrTooShortAfterIDD", phonenumbers.ErrTooShortAfterIDD, http.StatusBadRequest, "TOO_SHORT_AFTER_IDD"},
		{"ErrTooShortNSN", phonenumbers.ErrTooShortNSN, http.StatusBadRequest, "TOO_SHORT_NSN"},
		{"ErrTooLong", phonenumbers.ErrTooLong, http.StatusBadRequest, "TOO_LONG"},

		// Resource errors
		{"ErrNotFound", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"ErrUnknownRegion", domain.ErrUnknownRegion, http.StatusNotFound, "UNKNOWN_REGION"},

		// Validation errors
		{"ErrInvalidInput", domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"ErrInvalidPhoneNumber", domain.ErrInvalidPhoneNumber, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"ErrTextTooLarge", domain.ErrTextTooLarge, http.StatusRequestEntityTooLarge, "TEXT_TOO_LARGE"},

		// Operational errors
		{"ErrRateLimited", domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"ErrUnavailable", domain.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},

		// Wrapped errors
		{"wrapped ErrUnknownRegion", fmt.Errorf("region %q: %w", "QQ", domain.ErrUnknownRegion), http.StatusNotFound, "UNKNOWN_REGION"},
		{"wrapped ErrTooLong", fmt.Errorf("parse: %w", phonenumbers.ErrTooLong), http.StatusBadRequest, "TOO_LONG"},

		// Config errors never reach clients
		{"ErrConfigInvalid", domain.ErrConfigInvalid, http.StatusInternalServerError, "INTERNAL"},

		// Unknown errors map to Internal
		{"unknown error", errors.New("unexpected"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errmap.ToHTTPError(tt.err)
			assert.Equal(t, tt.wantStatusCode, got.StatusCode, "expected status %d, got %d", tt.wantStatusCode, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.Code, "expected code %q, got %q", tt.wantCode, got.Code)
		})
	}
}

func TestToHTTPError_FromParse(t *testing.T) {
	tests := []struct {
		number   string
		region   string
		wantCode string
	}{
		{"hello", "US", "NOT_A_NUMBER"},
		{"650 253 0000", "ZZ", "INVALID_COUNTRY_CODE"},
		{"+1", "US", "NOT_A_NUMBER"},
		{"0111", "US", "TOO_SHORT_AFTER_IDD"},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			_, err := phonenumbers.Parse(tt.number, tt.region)
			require.Error(t, err)

			got := errmap.ToHTTPError(fmt.Errorf("parse number: %w", err))
			assert.Equal(t, http.StatusBadRequest, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestToHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"not a number", phonenumbers.ErrNotANumber, http.StatusBadRequest},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errmap.ToHTTPStatusCode(tt.err))
		})
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	httpErr := errmap.ToHTTPError(errors.New("metadata file corrupt at /etc/phonekit/GB.yaml"))

	assert.Equal(t, "internal error", httpErr.Error())
}
