package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aelexs/phonekit/internal/domain"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ErrUnavailable", domain.ErrUnavailable, true},
		{"ErrRateLimited", domain.ErrRateLimited, true},
		{"ErrNotFound", domain.ErrNotFound, false},
		{"ErrInvalidPhoneNumber", domain.ErrInvalidPhoneNumber, false},
		{"wrapped ErrUnavailable", fmt.Errorf("context: %w", domain.ErrUnavailable), true},
		{"random error", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsRetryable(tt.err))
		})
	}
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ErrInvalidInput", domain.ErrInvalidInput, true},
		{"ErrInvalidPhoneNumber", domain.ErrInvalidPhoneNumber, true},
		{"ErrTextTooLarge", domain.ErrTextTooLarge, true},
		{"ErrNotFound", domain.ErrNotFound, true},
		{"ErrUnknownRegion", domain.ErrUnknownRegion, true},
		{"ErrUnavailable", domain.ErrUnavailable, false},
		{"ErrRateLimited", domain.ErrRateLimited, false},
		{"ErrConfigRequired", domain.ErrConfigRequired, false},
		{"wrapped ErrUnknownRegion", fmt.Errorf("region %q: %w", "QQ", domain.ErrUnknownRegion), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsClientError(tt.err))
		})
	}
}
