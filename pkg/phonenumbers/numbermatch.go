package phonenumbers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/aelexs/phonekit/pkg/metadata"
)

// IsNumberMatch compares two numbers. Only the country code, national
// number, extension and leading zeros take part; raw input and provenance
// are ignored.
func (u *Util) IsNumberMatch(first, second *PhoneNumber) MatchType {
	a := copyCoreFields(first)
	b := copyCoreFields(second)

	if a.HasExtension() && b.HasExtension() && a.GetExtension() != b.GetExtension() {
		return NoMatch
	}
	if a.CountryCode != 0 && b.CountryCode != 0 {
		if a.Equal(b) {
			return ExactMatch
		}
		if a.CountryCode == b.CountryCode && isNationalNumberSuffixOfTheOther(a, b) {
			// One number may have been entered without its area code.
			return ShortNSNMatch
		}
		return NoMatch
	}
	// At least one country code is missing: assume it is the other one.
	a.CountryCode = b.CountryCode
	if a.Equal(b) {
		return NSNMatch
	}
	if isNationalNumberSuffixOfTheOther(a, b) {
		return ShortNSNMatch
	}
	return NoMatch
}

// IsNumberMatchWithOneString compares first with a number given as text.
// When second has no country code it is read in the region of first.
func (u *Util) IsNumberMatchWithOneString(first *PhoneNumber, second string) MatchType {
	parsed, err := u.Parse(second, metadata.UnknownRegion)
	if err == nil {
		return u.IsNumberMatch(first, parsed)
	}
	if !errors.Is(err, ErrInvalidCountryCode) {
		return NotANumber
	}
	firstRegion := u.RegionCodeForCountryCode(int(first.GetCountryCode()))
	if firstRegion != metadata.UnknownRegion {
		parsed, err = u.Parse(second, firstRegion)
		if err != nil {
			return NotANumber
		}
		// The country code of second was inferred, so an exact match is
		// only as good as a national number match.
		if m := u.IsNumberMatch(first, parsed); m != ExactMatch {
			return m
		}
		return NSNMatch
	}
	parsed, err = u.parseWithoutRegion(second)
	if err != nil {
		return NotANumber
	}
	return u.IsNumberMatch(first, parsed)
}

// IsNumberMatchWithTwoStrings compares two numbers given as text. Numbers
// without a country code are compared on their national numbers.
func (u *Util) IsNumberMatchWithTwoStrings(first, second string) MatchType {
	a, err := u.Parse(first, metadata.UnknownRegion)
	if err == nil {
		return u.IsNumberMatchWithOneString(a, second)
	}
	if !errors.Is(err, ErrInvalidCountryCode) {
		return NotANumber
	}
	b, err := u.Parse(second, metadata.UnknownRegion)
	if err == nil {
		return u.IsNumberMatchWithOneString(b, first)
	}
	if !errors.Is(err, ErrInvalidCountryCode) {
		return NotANumber
	}
	if a, err = u.parseWithoutRegion(first); err != nil {
		return NotANumber
	}
	if b, err = u.parseWithoutRegion(second); err != nil {
		return NotANumber
	}
	return u.IsNumberMatch(a, b)
}

// parseWithoutRegion parses number without requiring a region or a plus sign.
// The country code is left at zero when none is found.
func (u *Util) parseWithoutRegion(number string) (*PhoneNumber, error) {
	n := &PhoneNumber{}
	if err := u.parseHelper(number, metadata.UnknownRegion, false, false, n); err != nil {
		return nil, err
	}
	return n, nil
}

func copyCoreFields(in *PhoneNumber) *PhoneNumber {
	out := &PhoneNumber{
		CountryCode:    in.GetCountryCode(),
		NationalNumber: in.GetNationalNumber(),
	}
	if ext := in.GetExtension(); ext != "" {
		out.SetExtension(ext)
	}
	if in.ItalianLeadingZero {
		out.ItalianLeadingZero = true
		out.SetNumberOfLeadingZeros(in.GetNumberOfLeadingZeros())
	}
	return out
}

func isNationalNumberSuffixOfTheOther(a, b *PhoneNumber) bool {
	an := strconv.FormatUint(a.NationalNumber, 10)
	bn := strconv.FormatUint(b.NationalNumber, 10)
	return strings.HasSuffix(an, bn) || strings.HasSuffix(bn, an)
}
