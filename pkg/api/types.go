// Package api defines the JSON types of the phoned HTTP API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// NumberInfo describes a parsed number.
type NumberInfo struct {
	CountryCode    int32  `json:"country_code"`
	NationalNumber uint64 `json:"national_number"`
	Extension      string `json:"extension,omitempty"`

	E164          string `json:"e164"`
	International string `json:"international"`
	National      string `json:"national"`
	RFC3966       string `json:"rfc3966"`

	Region       string `json:"region"`
	Type         string `json:"type"`
	Valid        bool   `json:"valid"`
	Possible     bool   `json:"possible"`
	Possibility  string `json:"possibility"`
	Geographical bool   `json:"geographical"`
}

// FormatResponse is returned by GET /v1/numbers/format.
type FormatResponse struct {
	Style     string `json:"style"`
	Formatted string `json:"formatted"`
}

// FindRequest is the body of POST /v1/numbers/find. Empty fields fall back
// to the server defaults.
type FindRequest struct {
	Text     string `json:"text"`
	Region   string `json:"region,omitempty"`
	Leniency string `json:"leniency,omitempty"`
	MaxTries *int   `json:"max_tries,omitempty"`
}

// FoundNumber is one match inside FindResponse. Start and End are byte
// offsets into the request text.
type FoundNumber struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Raw    string `json:"raw"`
	E164   string `json:"e164"`
	Region string `json:"region"`
}

// FindResponse is returned by POST /v1/numbers/find.
type FindResponse struct {
	Leniency string        `json:"leniency"`
	Matches  []FoundNumber `json:"matches"`
}

// AsYouTypeRequest is the body of POST /v1/numbers/as-you-type. Input is fed
// to the formatter one character at a time.
type AsYouTypeRequest struct {
	Region string `json:"region,omitempty"`
	Input  string `json:"input"`
}

// AsYouTypeResponse holds the formatter output after every keystroke.
type AsYouTypeResponse struct {
	Outputs []string `json:"outputs"`
	Result  string   `json:"result"`
}

// MatchResponse is returned by GET /v1/numbers/match.
type MatchResponse struct {
	Result string `json:"result"`
}

// Region describes one supported region.
type Region struct {
	Code           string `json:"code"`
	CountryCode    int    `json:"country_code"`
	MobilePortable bool   `json:"mobile_portable"`
}

// RegionList is returned by GET /v1/regions.
type RegionList struct {
	Regions           []Region `json:"regions"`
	NonGeographicalCC []int    `json:"non_geographical_calling_codes"`
}

// ExampleResponse is returned by GET /v1/regions/{region}/example.
type ExampleResponse struct {
	Region string     `json:"region"`
	Type   string     `json:"type"`
	Number NumberInfo `json:"number"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrMalformedBody is returned by DecodeRequest for bodies that are not a
// single JSON object of the expected shape.
var ErrMalformedBody = errors.New("malformed request body")

// DecodeRequest reads exactly one JSON value from r into v, rejecting unknown
// fields and trailing data.
func DecodeRequest(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrMalformedBody)
	}
	return nil
}
