// Package phonenumbers parses, validates and formats international telephone
// numbers, formats them as they are typed and finds them in free text.
//
// All behavior is driven by region metadata from a metadata.Provider. A Util
// binds a provider to an index; the package-level functions use Default, which
// serves the embedded data set.
package phonenumbers

import "strconv"

// CountryCodeSource records how the country calling code of a parsed number
// was obtained.
type CountryCodeSource int

const (
	CountryCodeSourceUnspecified CountryCodeSource = iota
	FromNumberWithPlusSign
	FromNumberWithIDD
	FromNumberWithoutPlusSign
	FromDefaultCountry
)

func (s CountryCodeSource) String() string {
	switch s {
	case FromNumberWithPlusSign:
		return "FROM_NUMBER_WITH_PLUS_SIGN"
	case FromNumberWithIDD:
		return "FROM_NUMBER_WITH_IDD"
	case FromNumberWithoutPlusSign:
		return "FROM_NUMBER_WITHOUT_PLUS_SIGN"
	case FromDefaultCountry:
		return "FROM_DEFAULT_COUNTRY"
	default:
		return "UNSPECIFIED"
	}
}

// PhoneNumber is a parsed telephone number.
//
// Optional fields are pointers; a nil pointer means the field is absent, which
// Equal distinguishes from a field set to its zero value.
type PhoneNumber struct {
	CountryCode    int32
	NationalNumber uint64
	Extension      *string
	// ItalianLeadingZero is set when the national number is written with one
	// or more leading zeros that are significant.
	ItalianLeadingZero bool
	// NumberOfLeadingZeros defaults to 1 and only matters with ItalianLeadingZero.
	NumberOfLeadingZeros         *int32
	RawInput                     *string
	CountryCodeSource            CountryCodeSource
	PreferredDomesticCarrierCode *string
}

func (n *PhoneNumber) GetCountryCode() int32 {
	if n == nil {
		return 0
	}
	return n.CountryCode
}

func (n *PhoneNumber) GetNationalNumber() uint64 {
	if n == nil {
		return 0
	}
	return n.NationalNumber
}

func (n *PhoneNumber) GetExtension() string {
	if n == nil || n.Extension == nil {
		return ""
	}
	return *n.Extension
}

func (n *PhoneNumber) HasExtension() bool { return n != nil && n.Extension != nil }

func (n *PhoneNumber) SetExtension(ext string) { n.Extension = &ext }

func (n *PhoneNumber) ClearExtension() { n.Extension = nil }

// GetNumberOfLeadingZeros returns 1 when the field is absent.
func (n *PhoneNumber) GetNumberOfLeadingZeros() int32 {
	if n == nil || n.NumberOfLeadingZeros == nil {
		return 1
	}
	return *n.NumberOfLeadingZeros
}

func (n *PhoneNumber) HasNumberOfLeadingZeros() bool {
	return n != nil && n.NumberOfLeadingZeros != nil
}

func (n *PhoneNumber) SetNumberOfLeadingZeros(count int32) { n.NumberOfLeadingZeros = &count }

func (n *PhoneNumber) ClearNumberOfLeadingZeros() { n.NumberOfLeadingZeros = nil }

func (n *PhoneNumber) GetRawInput() string {
	if n == nil || n.RawInput == nil {
		return ""
	}
	return *n.RawInput
}

func (n *PhoneNumber) HasRawInput() bool { return n != nil && n.RawInput != nil }

func (n *PhoneNumber) SetRawInput(raw string) { n.RawInput = &raw }

func (n *PhoneNumber) ClearRawInput() { n.RawInput = nil }

func (n *PhoneNumber) GetPreferredDomesticCarrierCode() string {
	if n == nil || n.PreferredDomesticCarrierCode == nil {
		return ""
	}
	return *n.PreferredDomesticCarrierCode
}

func (n *PhoneNumber) HasPreferredDomesticCarrierCode() bool {
	return n != nil && n.PreferredDomesticCarrierCode != nil
}

func (n *PhoneNumber) SetPreferredDomesticCarrierCode(code string) {
	n.PreferredDomesticCarrierCode = &code
}

func (n *PhoneNumber) ClearPreferredDomesticCarrierCode() { n.PreferredDomesticCarrierCode = nil }

// Clone returns a deep copy of n.
func (n *PhoneNumber) Clone() *PhoneNumber {
	if n == nil {
		return nil
	}
	c := *n
	c.Extension = cloneString(n.Extension)
	c.RawInput = cloneString(n.RawInput)
	c.PreferredDomesticCarrierCode = cloneString(n.PreferredDomesticCarrierCode)
	if n.NumberOfLeadingZeros != nil {
		z := *n.NumberOfLeadingZeros
		c.NumberOfLeadingZeros = &z
	}
	return &c
}

// Equal reports whether n and o carry the same fields, including presence of
// the optional ones.
func (n *PhoneNumber) Equal(o *PhoneNumber) bool {
	if n == nil || o == nil {
		return n == o
	}
	return n.CountryCode == o.CountryCode &&
		n.NationalNumber == o.NationalNumber &&
		equalString(n.Extension, o.Extension) &&
		n.ItalianLeadingZero == o.ItalianLeadingZero &&
		equalInt32(n.NumberOfLeadingZeros, o.NumberOfLeadingZeros) &&
		equalString(n.RawInput, o.RawInput) &&
		n.CountryCodeSource == o.CountryCodeSource &&
		equalString(n.PreferredDomesticCarrierCode, o.PreferredDomesticCarrierCode)
}

func (n *PhoneNumber) String() string {
	if n == nil {
		return "<nil>"
	}
	s := "Country Code: " + strconv.Itoa(int(n.CountryCode)) +
		" National Number: " + strconv.FormatUint(n.NationalNumber, 10)
	if n.ItalianLeadingZero {
		s += " Leading Zero(s): true"
	}
	if n.NumberOfLeadingZeros != nil {
		s += " Number of leading zeros: " + strconv.Itoa(int(*n.NumberOfLeadingZeros))
	}
	if n.Extension != nil {
		s += " Extension: " + *n.Extension
	}
	if n.CountryCodeSource != CountryCodeSourceUnspecified {
		s += " Country Code Source: " + n.CountryCodeSource.String()
	}
	if n.PreferredDomesticCarrierCode != nil {
		s += " Preferred Domestic Carrier Code: " + *n.PreferredDomesticCarrierCode
	}
	return s
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalInt32(a, b *int32) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
