package phonenumbers

import "errors"

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// KindNotANumber: the input does not look like a phone number.
	KindNotANumber ErrorKind = iota + 1
	// KindInvalidCountryCode: no valid calling code and no usable default region.
	KindInvalidCountryCode
	// KindTooShortAfterIDD: nothing meaningful follows the international prefix.
	KindTooShortAfterIDD
	// KindTooShortNSN: the national significant number is shorter than two digits.
	KindTooShortNSN
	// KindTooLong: the input or the national significant number is too long.
	KindTooLong
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotANumber:
		return "NOT_A_NUMBER"
	case KindInvalidCountryCode:
		return "INVALID_COUNTRY_CODE"
	case KindTooShortAfterIDD:
		return "TOO_SHORT_AFTER_IDD"
	case KindTooShortNSN:
		return "TOO_SHORT_NSN"
	case KindTooLong:
		return "TOO_LONG"
	}
	return "UNKNOWN"
}

// ParseError is returned by the parsing functions.
type ParseError struct {
	Kind ErrorKind
	Msg  string
}

func (e *ParseError) Error() string {
	return "phonenumbers: " + e.Kind.String() + ": " + e.Msg
}

// Is matches any *ParseError of the same kind, so the sentinels below work
// with errors.Is.
func (e *ParseError) Is(target error) bool {
	var t *ParseError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotANumber         = &ParseError{Kind: KindNotANumber, Msg: "not a number"}
	ErrInvalidCountryCode = &ParseError{Kind: KindInvalidCountryCode, Msg: "invalid country calling code"}
	ErrTooShortAfterIDD   = &ParseError{Kind: KindTooShortAfterIDD, Msg: "too short after international prefix"}
	ErrTooShortNSN        = &ParseError{Kind: KindTooShortNSN, Msg: "national number too short"}
	ErrTooLong            = &ParseError{Kind: KindTooLong, Msg: "too long"}
)

func parseError(kind ErrorKind, msg string) *ParseError {
	return &ParseError{Kind: kind, Msg: msg}
}
