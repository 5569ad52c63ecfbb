package phonenumbers

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aelexs/phonekit/pkg/metadata"
)

// Parse parses number into a PhoneNumber. defaultRegion is used when number
// is not written in international format; pass "ZZ" or "" when the number
// must start with a plus sign.
func (u *Util) Parse(number, defaultRegion string) (*PhoneNumber, error) {
	n := &PhoneNumber{}
	if err := u.parseHelper(number, canonicalRegion(defaultRegion), false, true, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ParseAndKeepRawInput is like Parse but also records the raw input, how the
// country calling code was found and any domestic carrier code.
func (u *Util) ParseAndKeepRawInput(number, defaultRegion string) (*PhoneNumber, error) {
	n := &PhoneNumber{}
	if err := u.parseHelper(number, canonicalRegion(defaultRegion), true, true, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (u *Util) parseHelper(numberToParse, defaultRegion string, keepRawInput, checkRegion bool, n *PhoneNumber) error {
	if utf8.RuneCountInString(numberToParse) > maxInputStringLength {
		return parseError(KindTooLong, "the string supplied was too long to parse")
	}

	national, err := buildNationalNumberForParsing(numberToParse)
	if err != nil {
		return err
	}
	if !IsViablePhoneNumber(national) {
		return parseError(KindNotANumber, "the string supplied did not seem to be a phone number")
	}
	if checkRegion && !u.checkRegionForParsing(national, defaultRegion) {
		return parseError(KindInvalidCountryCode, "missing or invalid default region")
	}

	if keepRawInput {
		n.SetRawInput(numberToParse)
	}
	national, ext := stripExtension(national)
	if ext != "" {
		n.SetExtension(ext)
	}

	regionMeta := u.regionMetadata(defaultRegion)
	countryCode, normalized, err := u.maybeExtractCountryCode(national, regionMeta, keepRawInput, n)
	if err != nil {
		loc := plusCharsPattern.FindStringIndex(national)
		pe, _ := err.(*ParseError)
		if pe == nil || pe.Kind != KindInvalidCountryCode || loc == nil {
			return err
		}
		// Strip the plus sign and try again: the number may have been
		// written with a spurious leading plus.
		countryCode, normalized, err = u.maybeExtractCountryCode(national[loc[1]:], regionMeta, keepRawInput, n)
		if err != nil {
			return err
		}
		if countryCode == 0 {
			return parseError(KindInvalidCountryCode, "could not interpret numbers after plus-sign")
		}
	}

	if countryCode != 0 {
		numberRegion := u.RegionCodeForCountryCode(countryCode)
		if numberRegion != defaultRegion {
			regionMeta = u.metadataForRegionOrCallingCode(countryCode, numberRegion)
		}
	} else {
		normalized = Normalize(national)
		if regionMeta != nil {
			n.CountryCode = int32(regionMeta.CountryCode)
		} else if keepRawInput {
			n.CountryCodeSource = CountryCodeSourceUnspecified
		}
	}
	if len(normalized) < minLengthForNSN {
		return parseError(KindTooShortNSN, "the string supplied is too short to be a phone number")
	}

	if regionMeta != nil {
		potential, carrierCode, _ := u.maybeStripNationalPrefixAndCarrierCode(normalized, regionMeta)
		// Keep the stripped form only when it still has a plausible length;
		// some national prefixes are also valid leading digits.
		switch testNumberLength(potential, regionMeta, Unknown) {
		case TooShort, IsPossibleLocalOnly, InvalidLength:
		default:
			normalized = potential
			if keepRawInput && carrierCode != "" {
				n.SetPreferredDomesticCarrierCode(carrierCode)
			}
		}
	}

	if len(normalized) < minLengthForNSN {
		return parseError(KindTooShortNSN, "the string supplied is too short to be a phone number")
	}
	if len(normalized) > maxLengthForNSN {
		return parseError(KindTooLong, "the string supplied is too long to be a phone number")
	}
	setItalianLeadingZeros(normalized, n)
	nn, err := strconv.ParseUint(normalized, 10, 64)
	if err != nil {
		return parseError(KindNotANumber, "national number is not numeric")
	}
	n.NationalNumber = nn
	return nil
}

// buildNationalNumberForParsing extracts the number part of an RFC 3966 URI,
// prefixing the global phone-context when there is one, or else the first
// plausible number in the input.
func buildNationalNumberForParsing(numberToParse string) (string, error) {
	var b strings.Builder
	indexOfPhoneContext := strings.Index(numberToParse, rfc3966PhoneContext)
	if indexOfPhoneContext >= 0 {
		phoneContext, ok := extractPhoneContext(numberToParse, indexOfPhoneContext)
		if !ok {
			return "", parseError(KindNotANumber, "the phone-context value is invalid")
		}
		// A global number context supplies the country calling code.
		if strings.HasPrefix(phoneContext, string(plusSign)) {
			b.WriteString(phoneContext)
		}
		// The number itself sits between "tel:" and ";phone-context=".
		indexOfRfc3966Prefix := strings.Index(numberToParse, rfc3966Prefix)
		start := 0
		if indexOfRfc3966Prefix >= 0 {
			start = indexOfRfc3966Prefix + len(rfc3966Prefix)
		}
		if start <= indexOfPhoneContext {
			b.WriteString(numberToParse[start:indexOfPhoneContext])
		}
	} else {
		b.WriteString(ExtractPossibleNumber(numberToParse))
	}

	national := b.String()
	// The ISDN subaddress is not part of the number.
	if i := strings.Index(national, rfc3966IsdnSubaddress); i > 0 {
		national = national[:i]
	}
	return national, nil
}

// extractPhoneContext returns the phone-context parameter value and whether
// it is acceptable. An absent parameter is acceptable; an empty one is not.
func extractPhoneContext(numberToParse string, indexOfPhoneContext int) (string, bool) {
	start := indexOfPhoneContext + len(rfc3966PhoneContext)
	if start >= len(numberToParse) {
		return "", false
	}
	value := numberToParse[start:]
	if end := strings.IndexByte(value, ';'); end >= 0 {
		value = value[:end]
	}
	if value == "" {
		return "", false
	}
	if rfc3966GlobalNumberDigits.MatchString(value) || rfc3966DomainName.MatchString(value) {
		return value, true
	}
	return "", false
}

// checkRegionForParsing reports whether the number can be parsed: either the
// default region is known or the number starts with a plus sign.
func (u *Util) checkRegionForParsing(number, defaultRegion string) bool {
	if u.index.IsValidRegion(defaultRegion) {
		return true
	}
	return number != "" && plusCharsPattern.MatchString(number)
}

// stripExtension splits a trailing extension off number. The extension is
// only removed when what remains is still a viable number.
func stripExtension(number string) (string, string) {
	loc := extnPattern.FindStringSubmatchIndex(number)
	if loc == nil || !IsViablePhoneNumber(number[:loc[0]]) {
		return number, ""
	}
	for g := 1; g < len(loc)/2; g++ {
		if loc[2*g] >= 0 {
			return number[:loc[0]], number[loc[2*g]:loc[2*g+1]]
		}
	}
	return number, ""
}

// maybeExtractCountryCode finds the country calling code at the start of
// number. It returns the calling code, or 0 if none was found, and the
// national number left after it. The returned national number is empty when
// no calling code was found.
func (u *Util) maybeExtractCountryCode(number string, defaultRegion *metadata.Region, keepRawInput bool, n *PhoneNumber) (int, string, error) {
	if number == "" {
		return 0, "", nil
	}
	var iddPrefix *metadata.Pattern
	if defaultRegion != nil {
		iddPrefix = defaultRegion.InternationalPrefix
	}
	full, source := stripInternationalPrefixAndNormalize(number, iddPrefix)
	if keepRawInput {
		n.CountryCodeSource = source
	}

	if source != FromDefaultCountry {
		if len(full) <= minLengthForNSN {
			return 0, "", parseError(KindTooShortAfterIDD, "phone number had an IDD, but after this was not long enough to be a viable phone number")
		}
		if cc, national := u.extractCountryCode(full); cc != 0 {
			n.CountryCode = int32(cc)
			return cc, national, nil
		}
		return 0, "", parseError(KindInvalidCountryCode, "country calling code supplied was not recognised")
	}

	if defaultRegion != nil {
		// The number may start with the default region's own calling code
		// written without a plus sign.
		ccString := strconv.Itoa(defaultRegion.CountryCode)
		if strings.HasPrefix(full, ccString) {
			potential, _, _ := u.maybeStripNationalPrefixAndCarrierCode(full[len(ccString):], defaultRegion)
			general := defaultRegion.GeneralDesc
			if (!general.MatchesNationalNumber(full) && general.MatchesNationalNumber(potential)) ||
				testNumberLength(full, defaultRegion, Unknown) == TooLong {
				if keepRawInput {
					n.CountryCodeSource = FromNumberWithoutPlusSign
				}
				n.CountryCode = int32(defaultRegion.CountryCode)
				return defaultRegion.CountryCode, potential, nil
			}
		}
	}
	n.CountryCode = 0
	return 0, "", nil
}

// stripInternationalPrefixAndNormalize removes a leading plus sign or IDD
// and normalizes the rest.
func stripInternationalPrefixAndNormalize(number string, iddPrefix *metadata.Pattern) (string, CountryCodeSource) {
	if number == "" {
		return "", FromDefaultCountry
	}
	if loc := plusCharsPattern.FindStringIndex(number); loc != nil {
		return Normalize(number[loc[1]:]), FromNumberWithPlusSign
	}
	normalized := Normalize(number)
	if stripped, ok := parsePrefixAsIdd(iddPrefix, normalized); ok {
		return stripped, FromNumberWithIDD
	}
	return normalized, FromDefaultCountry
}

// parsePrefixAsIdd strips the international prefix from number unless it is
// followed by a zero, which no calling code starts with.
func parsePrefixAsIdd(iddPrefix *metadata.Pattern, number string) (string, bool) {
	loc := iddPrefix.LookingAtSubmatchIndex(number)
	if loc == nil {
		return number, false
	}
	matchEnd := loc[1]
	if d := capturingDigitPattern.FindStringSubmatch(number[matchEnd:]); d != nil {
		if NormalizeDigitsOnly(d[1]) == "0" {
			return number, false
		}
	}
	return number[matchEnd:], true
}

// extractCountryCode scans the first one to three digits of fullNumber for an
// assigned calling code, shortest first.
func (u *Util) extractCountryCode(fullNumber string) (int, string) {
	if fullNumber == "" || fullNumber[0] == digitZero {
		return 0, ""
	}
	for i := 1; i <= maxLengthCountryCode && i <= len(fullNumber); i++ {
		cc, err := strconv.Atoi(fullNumber[:i])
		if err != nil {
			return 0, ""
		}
		if u.index.HasCode(cc) {
			return cc, fullNumber[i:]
		}
	}
	return 0, ""
}

// maybeStripNationalPrefixAndCarrierCode removes the national prefix and any
// carrier code captured with it. It returns the number unchanged when the
// region has no national prefix for parsing or stripping would turn a number
// matching the general description into one that does not.
func (u *Util) maybeStripNationalPrefixAndCarrierCode(number string, region *metadata.Region) (string, string, bool) {
	if number == "" || !region.HasNationalPrefixForParsing() {
		return number, "", false
	}
	prefix := region.NationalPrefixForParsing.Prefix()
	loc := prefix.FindStringSubmatchIndex(number)
	if loc == nil {
		return number, "", false
	}
	general := region.GeneralDesc
	isViableOriginal := general.MatchesNationalNumber(number)
	// With no capture groups the last group is the whole match, so a
	// transform rule still applies.
	numGroups := prefix.NumSubexp()
	lastGroupMatched := loc[2*numGroups] >= 0
	transformRule := region.NationalPrefixTransformRule

	if transformRule == "" || !lastGroupMatched {
		stripped := number[loc[1]:]
		if isViableOriginal && !general.MatchesNationalNumber(stripped) {
			return number, "", false
		}
		carrierCode := ""
		if numGroups > 0 && lastGroupMatched && loc[2] >= 0 {
			carrierCode = number[loc[2]:loc[3]]
		}
		return stripped, carrierCode, true
	}

	transformed := string(prefix.ExpandString(nil, expandTemplate(transformRule), number, loc)) + number[loc[1]:]
	if isViableOriginal && !general.MatchesNationalNumber(transformed) {
		return number, "", false
	}
	carrierCode := ""
	if numGroups > 1 && loc[2] >= 0 {
		carrierCode = number[loc[2]:loc[3]]
	}
	return transformed, carrierCode, true
}

// setItalianLeadingZeros records significant leading zeros. A number made
// only of zeros keeps its last zero as part of the national number.
func setItalianLeadingZeros(nationalNumber string, n *PhoneNumber) {
	if len(nationalNumber) <= 1 || nationalNumber[0] != '0' {
		return
	}
	n.ItalianLeadingZero = true
	zeros := 1
	for zeros < len(nationalNumber)-1 && nationalNumber[zeros] == '0' {
		zeros++
	}
	if zeros != 1 {
		n.SetNumberOfLeadingZeros(int32(zeros))
	}
}

// IsPossibleNumberString parses number and reports whether the result is a
// possible number. Unparseable input is never possible.
func (u *Util) IsPossibleNumberString(number, regionDialingFrom string) bool {
	n, err := u.Parse(number, regionDialingFrom)
	if err != nil {
		return false
	}
	return u.IsPossibleNumber(n)
}
