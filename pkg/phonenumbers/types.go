package phonenumbers

import (
	"fmt"
	"strings"
)

// PhoneNumberFormat selects an output style for Format.
type PhoneNumberFormat int

const (
	E164 PhoneNumberFormat = iota
	International
	National
	RFC3966
)

var formatNames = map[PhoneNumberFormat]string{
	E164:          "E164",
	International: "INTERNATIONAL",
	National:      "NATIONAL",
	RFC3966:       "RFC3966",
}

func (f PhoneNumberFormat) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("PhoneNumberFormat(%d)", int(f))
}

// ParseFormat maps a case-insensitive style name such as "e164" to its value.
func ParseFormat(name string) (PhoneNumberFormat, error) {
	for f, s := range formatNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown number format %q", name)
}

// PhoneNumberType classifies a valid number.
type PhoneNumberType int

const (
	FixedLine PhoneNumberType = iota
	Mobile
	// FixedLineOrMobile is reported where fixed-line and mobile numbers cannot
	// be told apart by looking at the number itself.
	FixedLineOrMobile
	TollFree
	PremiumRate
	// SharedCost numbers split the call cost between caller and recipient.
	SharedCost
	VoIP
	// PersonalNumber is a number associated with a person that may be routed
	// to mobile or fixed-line phones.
	PersonalNumber
	Pager
	// UAN is a Universal Access Number, a company number routed to specific
	// offices.
	UAN
	Voicemail
	// Unknown is returned for numbers that do not match any known pattern.
	Unknown
)

var typeNames = map[PhoneNumberType]string{
	FixedLine:         "FIXED_LINE",
	Mobile:            "MOBILE",
	FixedLineOrMobile: "FIXED_LINE_OR_MOBILE",
	TollFree:          "TOLL_FREE",
	PremiumRate:       "PREMIUM_RATE",
	SharedCost:        "SHARED_COST",
	VoIP:              "VOIP",
	PersonalNumber:    "PERSONAL_NUMBER",
	Pager:             "PAGER",
	UAN:               "UAN",
	Voicemail:         "VOICEMAIL",
	Unknown:           "UNKNOWN",
}

func (t PhoneNumberType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("PhoneNumberType(%d)", int(t))
}

// ParseNumberType maps a case-insensitive type name such as "mobile" to its value.
func ParseNumberType(name string) (PhoneNumberType, error) {
	for t, s := range typeNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unknown number type %q", name)
}

// ValidationResult explains the outcome of a possible-number check.
type ValidationResult int

const (
	IsPossible ValidationResult = iota
	// IsPossibleLocalOnly means the number can only be dialled within a local area.
	IsPossibleLocalOnly
	InvalidCountryCode
	TooShort
	// InvalidLength means the length matches no length for the region, while
	// lying between the shortest and longest ones.
	InvalidLength
	TooLong
)

func (r ValidationResult) String() string {
	switch r {
	case IsPossible:
		return "IS_POSSIBLE"
	case IsPossibleLocalOnly:
		return "IS_POSSIBLE_LOCAL_ONLY"
	case InvalidCountryCode:
		return "INVALID_COUNTRY_CODE"
	case TooShort:
		return "TOO_SHORT"
	case InvalidLength:
		return "INVALID_LENGTH"
	case TooLong:
		return "TOO_LONG"
	}
	return fmt.Sprintf("ValidationResult(%d)", int(r))
}

// MatchType is the result of comparing two numbers.
type MatchType int

const (
	NotANumber MatchType = iota
	NoMatch
	// ShortNSNMatch means one national number is a suffix of the other, or the
	// extensions or country codes are only compatible by omission.
	ShortNSNMatch
	// NSNMatch means the national numbers match but a country code is missing
	// on one side.
	NSNMatch
	ExactMatch
)

func (m MatchType) String() string {
	switch m {
	case NotANumber:
		return "NOT_A_NUMBER"
	case NoMatch:
		return "NO_MATCH"
	case ShortNSNMatch:
		return "SHORT_NSN_MATCH"
	case NSNMatch:
		return "NSN_MATCH"
	case ExactMatch:
		return "EXACT_MATCH"
	}
	return fmt.Sprintf("MatchType(%d)", int(m))
}
