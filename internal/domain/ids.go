// Package domain contains the service-level types, limits and errors shared
// by the phone lookup service. The phone number engine itself lives in
// pkg/phonenumbers.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// RequestID is a value object identifying one API request.
// Always valid in memory - use NewRequestID or GenerateRequestID to construct.
type RequestID struct {
	value string
}

// NewRequestID creates a RequestID from a raw string, validating it is a valid UUID.
func NewRequestID(raw string) (RequestID, error) {
	if raw == "" {
		return RequestID{}, fmt.Errorf("request ID cannot be empty: %w", ErrInvalidInput)
	}
	if _, err := uuid.Parse(raw); err != nil {
		return RequestID{}, fmt.Errorf("invalid request ID %q: %w", raw, ErrInvalidInput)
	}
	return RequestID{value: raw}, nil
}

// GenerateRequestID creates a new random RequestID.
func GenerateRequestID() RequestID {
	return RequestID{value: uuid.NewString()}
}

func (id RequestID) String() string { return id.value }
func (id RequestID) IsZero() bool   { return id.value == "" }
