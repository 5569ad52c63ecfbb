package phonenumbers

import (
	"regexp"
	"strconv"
)

const (
	maxInputStringLength = 250
	minLengthForNSN      = 2
	// The ITU says the maximum length should be 15, but some numbers in
	// Germany are longer.
	maxLengthForNSN      = 17
	maxLengthCountryCode = 3

	plusSign  = '+'
	starSign  = '*'
	digitZero = '0'

	rfc3966ExtnPrefix     = ";ext="
	rfc3966Prefix         = "tel:"
	rfc3966PhoneContext   = ";phone-context="
	rfc3966IsdnSubaddress = ";isub="
	defaultExtnPrefix     = " ext. "
)

// Character classes shared by the parser and the matcher. Hyphens are
// escaped so the classes can be concatenated in any order.
const (
	digits           = `\p{Nd}`
	validAlpha       = `A-Za-z`
	plusChars        = `+\x{FF0B}`
	validPunctuation = `\-x\x{2010}-\x{2015}\x{2212}\x{30FC}\x{FF0D}-\x{FF0F} \x{00A0}\x{00AD}\x{200B}\x{2060}\x{3000}()\x{FF08}\x{FF09}\x{FF3B}\x{FF3D}.\[\]/~\x{2053}\x{223C}\x{FF5E}`
	validPhoneNumber = digits + `{2}|[` + plusChars + `]*(?:[` + validPunctuation + `*]*` + digits + `){3,}[` +
		validPunctuation + `*` + validAlpha + digits + `]*`
)

var (
	plusCharsPattern      = regexp.MustCompile(`^[` + plusChars + `]+`)
	separatorPattern      = regexp.MustCompile(`[` + validPunctuation + `]+`)
	capturingDigitPattern = regexp.MustCompile(`(` + digits + `)`)
	validStartCharPattern = regexp.MustCompile(`[` + plusChars + digits + `]`)
	secondNumberStart     = regexp.MustCompile(`[\\/] *x`)
	unwantedEndChars      = regexp.MustCompile(`[^\p{N}\p{L}#]+$`)
	validAlphaPhone       = regexp.MustCompile(`^(?:.*?[A-Za-z]){3}.*$`)

	extnPatternsForParsing  = createExtnPattern(true)
	extnPatternsForMatching = createExtnPattern(false)

	// validPhoneNumberPattern checks viability; anything with an extension
	// stripped must still match it.
	validPhoneNumberPattern = regexp.MustCompile(`(?i)^(?:` + validPhoneNumber + `)(?:` + extnPatternsForParsing + `)?$`)
	extnPattern             = regexp.MustCompile(`(?i)(?:` + extnPatternsForParsing + `)$`)
	firstGroupPattern       = regexp.MustCompile(`(\$\d)`)

	rfc3966GlobalNumberDigits = regexp.MustCompile(`^\+[\p{Nd}\-.()]*\p{Nd}[\p{Nd}\-.()]*$`)
	rfc3966DomainName         = regexp.MustCompile(`^(?:(?:[a-zA-Z0-9]|[a-zA-Z0-9][a-zA-Z0-9\-]*[a-zA-Z0-9])\.)*(?:[a-zA-Z]|[a-zA-Z][a-zA-Z0-9\-]*[a-zA-Z0-9])\.?$`)
)

// createExtnPattern builds the extension grammar. The parsing variant also
// accepts auto-dialling markers such as ",," and ";" that would produce false
// positives in free text.
func createExtnPattern(forParsing bool) string {
	const (
		extLimitAfterExplicitLabel = 20
		extLimitAfterLikelyLabel   = 15
		extLimitAfterAmbiguousChar = 9
		extLimitWhenNotSure        = 6

		possibleSeparatorsBetweenNumberAndExtLabel = `[ \x{00A0}\t,]*`
		possibleCharsAfterExtLabel                 = `[:\.\x{FF0E}]?[ \x{00A0}\t,\-]*`
		optionalExtnSuffix                         = `#?`
		explicitExtLabels                          = `(?:e?xt(?:ensi(?:o\x{0301}?|\x{00F3}))?n?|\x{FF45}?\x{FF58}\x{FF54}\x{FF4E}?|\x{0434}\x{043E}\x{0431}|anexo)`
		ambiguousExtLabels                         = `(?:[x\x{FF58}#\x{FF03}~\x{FF5E}]|int|\x{FF49}\x{FF4E}\x{FF54})`
		ambiguousSeparator                         = `[\- ]+`
		possibleSeparatorsNumberExtLabelNoComma    = `[ \x{00A0}\t]*`
		autoDiallingAndExtLabelsFound              = `(?:,{2}|;)`
	)

	rfcExtn := rfc3966ExtnPrefix + extnDigits(extLimitAfterExplicitLabel)
	explicitExtn := possibleSeparatorsBetweenNumberAndExtLabel + explicitExtLabels +
		possibleCharsAfterExtLabel + extnDigits(extLimitAfterExplicitLabel) + optionalExtnSuffix
	ambiguousExtn := possibleSeparatorsBetweenNumberAndExtLabel + ambiguousExtLabels +
		possibleCharsAfterExtLabel + extnDigits(extLimitAfterAmbiguousChar) + optionalExtnSuffix
	americanStyleExtnWithSuffix := ambiguousSeparator + extnDigits(extLimitWhenNotSure) + "#"

	pattern := rfcExtn + "|" + explicitExtn + "|" + ambiguousExtn + "|" + americanStyleExtnWithSuffix
	if !forParsing {
		return pattern
	}
	autoDiallingExtn := possibleSeparatorsNumberExtLabelNoComma + autoDiallingAndExtLabelsFound +
		possibleCharsAfterExtLabel + extnDigits(extLimitAfterLikelyLabel) + optionalExtnSuffix
	onlyCommasExtn := possibleSeparatorsNumberExtLabelNoComma + `(?:,)+` +
		possibleCharsAfterExtLabel + extnDigits(extLimitAfterAmbiguousChar) + optionalExtnSuffix
	return pattern + "|" + autoDiallingExtn + "|" + onlyCommasExtn
}

func extnDigits(maxLength int) string {
	return `(` + digits + `{1,` + strconv.Itoa(maxLength) + `})`
}
