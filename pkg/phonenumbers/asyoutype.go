package phonenumbers

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aelexs/phonekit/pkg/metadata"
)

const (
	separatorBeforeNationalNumber = ' '
	minLeadingDigitsLength        = 3
	// digitPlaceholder stands for a digit still to be typed in a template.
	digitPlaceholder = "\u2008"
	// longestPhoneNumber is matched against a format pattern to obtain the
	// longest number the pattern accepts.
	longestPhoneNumber = "999999999999999"
)

var (
	eligibleFormatPattern           = regexp.MustCompile(`^[` + validPunctuation + `]*\$1[` + validPunctuation + `]*(?:\$\d[` + validPunctuation + `]*)*$`)
	nationalPrefixSeparatorsPattern = regexp.MustCompile(`[- ]`)
	firstGroupOnlyPrefixPattern     = regexp.MustCompile(`^\(?\$1\)?$`)

	// emptyRegion stands in for regions without metadata so that the
	// formatter degrades to echoing its input.
	emptyRegion = &metadata.Region{
		InternationalPrefix: metadata.MustCompilePattern("NA"),
		GeneralDesc:         &metadata.NumberDesc{PossibleLengths: []int{-1}},
	}
)

// AsYouTypeFormatter formats a phone number one character at a time, the way
// a dialler shows it while it is typed. It is not safe for concurrent use;
// create one per number being entered.
type AsYouTypeFormatter struct {
	util *Util

	currentOutput                 string
	formattingTemplate            string
	currentFormattingPattern      string
	accruedInput                  strings.Builder
	accruedInputWithoutFormatting strings.Builder
	// ableToFormat turns false once the input cannot be formatted; from then
	// on the raw input is echoed.
	ableToFormat bool
	// inputHasFormatting is set when the user typed punctuation themselves.
	inputHasFormatting bool
	// isCompleteNumber is set once an IDD, a plus sign or a national prefix
	// has been seen, so the number is known to be complete rather than local.
	isCompleteNumber              bool
	isExpectingCountryCallingCode bool

	defaultCountry  string
	defaultMetadata *metadata.Region
	currentMetadata *metadata.Region

	lastMatchPosition  int
	originalPosition   int
	positionToRemember int

	prefixBeforeNationalNumber        string
	shouldAddSpaceAfterNationalPrefix bool
	extractedNationalPrefix           string
	nationalNumber                    string
	possibleFormats                   []*metadata.NumberFormat
}

// NewAsYouTypeFormatter returns a formatter for numbers dialled from region.
func (u *Util) NewAsYouTypeFormatter(region string) *AsYouTypeFormatter {
	f := &AsYouTypeFormatter{
		util:           u,
		defaultCountry: canonicalRegion(region),
		ableToFormat:   true,
	}
	f.currentMetadata = f.metadataForRegion(f.defaultCountry)
	f.defaultMetadata = f.currentMetadata
	return f
}

// metadataForRegion returns the metadata of the main region sharing the
// calling code of region.
func (f *AsYouTypeFormatter) metadataForRegion(region string) *metadata.Region {
	cc := f.util.index.CodeForRegion(region)
	if meta := f.util.regionMetadata(f.util.RegionCodeForCountryCode(cc)); meta != nil {
		return meta
	}
	return emptyRegion
}

// Clear resets the formatter so it can be reused for a new number.
func (f *AsYouTypeFormatter) Clear() {
	f.currentOutput = ""
	f.accruedInput.Reset()
	f.accruedInputWithoutFormatting.Reset()
	f.formattingTemplate = ""
	f.lastMatchPosition = 0
	f.currentFormattingPattern = ""
	f.prefixBeforeNationalNumber = ""
	f.extractedNationalPrefix = ""
	f.nationalNumber = ""
	f.ableToFormat = true
	f.inputHasFormatting = false
	f.positionToRemember = 0
	f.originalPosition = 0
	f.isCompleteNumber = false
	f.isExpectingCountryCallingCode = false
	f.possibleFormats = f.possibleFormats[:0]
	f.shouldAddSpaceAfterNationalPrefix = false
	if f.currentMetadata != f.defaultMetadata {
		f.currentMetadata = f.metadataForRegion(f.defaultCountry)
	}
}

// InputDigit adds the next character and returns the number formatted so far.
func (f *AsYouTypeFormatter) InputDigit(next rune) string {
	f.currentOutput = f.inputDigitWithOptionToRememberPosition(next, false)
	return f.currentOutput
}

// InputDigitAndRememberPosition is like InputDigit but also remembers the
// position of this character, see RememberedPosition.
func (f *AsYouTypeFormatter) InputDigitAndRememberPosition(next rune) string {
	f.currentOutput = f.inputDigitWithOptionToRememberPosition(next, true)
	return f.currentOutput
}

// RememberedPosition returns the position in the current output just after
// the character passed to the last InputDigitAndRememberPosition call.
func (f *AsYouTypeFormatter) RememberedPosition() int {
	if !f.ableToFormat {
		return f.originalPosition
	}
	accrued := f.accruedInputWithoutFormatting.String()
	output := []rune(f.currentOutput)
	accruedIndex, outputIndex := 0, 0
	for accruedIndex < f.positionToRemember && outputIndex < len(output) {
		if rune(accrued[accruedIndex]) == output[outputIndex] {
			accruedIndex++
		}
		outputIndex++
	}
	return outputIndex
}

func (f *AsYouTypeFormatter) inputDigitWithOptionToRememberPosition(next rune, rememberPosition bool) string {
	f.accruedInput.WriteRune(next)
	if rememberPosition {
		f.originalPosition = utf8.RuneCountInString(f.accruedInput.String())
	}
	if !f.isDigitOrLeadingPlusSign(next) {
		f.ableToFormat = false
		f.inputHasFormatting = true
	} else {
		next = f.normalizeAndAccrueDigitsAndPlusSign(next, rememberPosition)
	}

	if !f.ableToFormat {
		// Formatting may become possible again when the input turns out to
		// start with an IDD or a longer national prefix.
		switch {
		case f.inputHasFormatting:
			return f.accruedInput.String()
		case f.attemptToExtractIdd():
			if f.attemptToExtractCountryCallingCode() {
				return f.attemptToChoosePatternWithPrefixExtracted()
			}
		case f.ableToExtractLongerNdd():
			f.prefixBeforeNationalNumber += string(separatorBeforeNationalNumber)
			return f.attemptToChoosePatternWithPrefixExtracted()
		}
		return f.accruedInput.String()
	}

	switch f.accruedInputWithoutFormatting.Len() {
	case 0, 1, 2:
		return f.accruedInput.String()
	case 3:
		if !f.attemptToExtractIdd() {
			f.extractedNationalPrefix = f.removeNationalPrefixFromNationalNumber()
			return f.attemptToChooseFormattingPattern()
		}
		f.isExpectingCountryCallingCode = true
		fallthrough
	default:
		if f.isExpectingCountryCallingCode {
			if f.attemptToExtractCountryCallingCode() {
				f.isExpectingCountryCallingCode = false
			}
			return f.prefixBeforeNationalNumber + f.nationalNumber
		}
		if len(f.possibleFormats) == 0 {
			return f.attemptToChooseFormattingPattern()
		}
		// Feed the template first: attemptToFormatAccruedDigits may still
		// prefer an exact pattern match.
		tempNationalNumber := f.inputDigitHelper(next)
		if formatted := f.attemptToFormatAccruedDigits(); formatted != "" {
			return formatted
		}
		f.narrowDownPossibleFormats(f.nationalNumber)
		if f.maybeCreateNewTemplate() {
			return f.inputAccruedNationalNumber()
		}
		if f.ableToFormat {
			return f.appendNationalNumber(tempNationalNumber)
		}
		return f.accruedInput.String()
	}
}

func (f *AsYouTypeFormatter) isDigitOrLeadingPlusSign(next rune) bool {
	if unicode.IsDigit(next) {
		return true
	}
	return utf8.RuneCountInString(f.accruedInput.String()) == 1 && narrow(next) == plusSign
}

func (f *AsYouTypeFormatter) normalizeAndAccrueDigitsAndPlusSign(next rune, rememberPosition bool) rune {
	var normalized rune
	if narrow(next) == plusSign {
		normalized = plusSign
		f.accruedInputWithoutFormatting.WriteRune(normalized)
	} else {
		normalized, _ = asciiDigit(next)
		f.accruedInputWithoutFormatting.WriteRune(normalized)
		f.nationalNumber += string(normalized)
	}
	if rememberPosition {
		f.positionToRemember = f.accruedInputWithoutFormatting.Len()
	}
	return normalized
}

func (f *AsYouTypeFormatter) attemptToChoosePatternWithPrefixExtracted() string {
	f.ableToFormat = true
	f.isExpectingCountryCallingCode = false
	f.possibleFormats = f.possibleFormats[:0]
	f.lastMatchPosition = 0
	f.formattingTemplate = ""
	f.currentFormattingPattern = ""
	return f.attemptToChooseFormattingPattern()
}

// ableToExtractLongerNdd puts the extracted national prefix back and reports
// whether a different prefix can now be extracted.
func (f *AsYouTypeFormatter) ableToExtractLongerNdd() bool {
	if f.extractedNationalPrefix != "" {
		f.nationalNumber = f.extractedNationalPrefix + f.nationalNumber
		if i := strings.LastIndex(f.prefixBeforeNationalNumber, f.extractedNationalPrefix); i >= 0 {
			f.prefixBeforeNationalNumber = f.prefixBeforeNationalNumber[:i]
		}
	}
	return f.extractedNationalPrefix != f.removeNationalPrefixFromNationalNumber()
}

func (f *AsYouTypeFormatter) attemptToChooseFormattingPattern() string {
	if len(f.nationalNumber) < minLeadingDigitsLength {
		return f.appendNationalNumber(f.nationalNumber)
	}
	f.getAvailableFormats(f.nationalNumber)
	if formatted := f.attemptToFormatAccruedDigits(); formatted != "" {
		return formatted
	}
	if f.maybeCreateNewTemplate() {
		return f.inputAccruedNationalNumber()
	}
	return f.accruedInput.String()
}

func (f *AsYouTypeFormatter) getAvailableFormats(leadingDigits string) {
	isInternationalNumber := f.isCompleteNumber && f.extractedNationalPrefix == ""
	formats := f.currentMetadata.NumberFormats
	if isInternationalNumber && len(f.currentMetadata.IntlNumberFormats) > 0 {
		formats = f.currentMetadata.IntlNumberFormats
	}
	for _, nf := range formats {
		firstGroupOnly := formattingRuleHasFirstGroupOnly(nf.NationalPrefixFormattingRule)
		// A national prefix was typed, but this format never shows one.
		if f.extractedNationalPrefix != "" && firstGroupOnly &&
			!nf.NationalPrefixOptionalWhenFormatting && nf.DomesticCarrierCodeFormattingRule == "" {
			continue
		}
		// No national prefix was typed, but this format requires one.
		if f.extractedNationalPrefix == "" && !f.isCompleteNumber && !firstGroupOnly &&
			!nf.NationalPrefixOptionalWhenFormatting {
			continue
		}
		if eligibleFormatPattern.MatchString(nf.Format) {
			f.possibleFormats = append(f.possibleFormats, nf)
		}
	}
	f.narrowDownPossibleFormats(leadingDigits)
}

func formattingRuleHasFirstGroupOnly(rule string) bool {
	return rule == "" || firstGroupOnlyPrefixPattern.MatchString(rule)
}

func (f *AsYouTypeFormatter) narrowDownPossibleFormats(leadingDigits string) {
	indexOfLeadingDigitsPattern := len(leadingDigits) - minLeadingDigitsLength
	kept := f.possibleFormats[:0]
	for _, nf := range f.possibleFormats {
		if n := len(nf.LeadingDigitsPatterns); n > 0 {
			last := min(indexOfLeadingDigitsPattern, n-1)
			if !nf.LeadingDigitsPatterns[last].LookingAt(leadingDigits) {
				continue
			}
		}
		kept = append(kept, nf)
	}
	f.possibleFormats = kept
}

// maybeCreateNewTemplate switches to the first remaining format that yields a
// template long enough for the digits typed so far.
func (f *AsYouTypeFormatter) maybeCreateNewTemplate() bool {
	for i := 0; i < len(f.possibleFormats); {
		nf := f.possibleFormats[i]
		pattern := nf.Pattern.String()
		if f.currentFormattingPattern == pattern {
			return false
		}
		if f.createFormattingTemplate(nf) {
			f.currentFormattingPattern = pattern
			f.shouldAddSpaceAfterNationalPrefix = nationalPrefixSeparatorsPattern.MatchString(nf.NationalPrefixFormattingRule)
			// The template changed, so placeholders are searched from the start.
			f.lastMatchPosition = 0
			return true
		}
		f.possibleFormats = append(f.possibleFormats[:i], f.possibleFormats[i+1:]...)
	}
	f.ableToFormat = false
	return false
}

func (f *AsYouTypeFormatter) createFormattingTemplate(nf *metadata.NumberFormat) bool {
	f.formattingTemplate = f.formattingTemplateFor(nf.Pattern.String(), nf.Format)
	return f.formattingTemplate != ""
}

// formattingTemplateFor formats the longest number pattern accepts and turns
// its digits into placeholders. It returns "" when that number is shorter
// than the national number typed so far.
func (f *AsYouTypeFormatter) formattingTemplateFor(pattern, format string) string {
	re := f.util.compile(pattern)
	aPhoneNumber := re.FindString(longestPhoneNumber)
	if aPhoneNumber == "" || len(aPhoneNumber) < len(f.nationalNumber) {
		return ""
	}
	template := re.ReplaceAllString(aPhoneNumber, expandTemplate(format))
	return strings.ReplaceAll(template, "9", digitPlaceholder)
}

// attemptToFormatAccruedDigits returns the number formatted by the first
// format whose pattern matches all digits typed so far, provided that keeps
// every typed digit.
func (f *AsYouTypeFormatter) attemptToFormatAccruedDigits() string {
	for _, nf := range f.possibleFormats {
		full := nf.Pattern.Full()
		if !full.MatchString(f.nationalNumber) {
			continue
		}
		f.shouldAddSpaceAfterNationalPrefix = nationalPrefixSeparatorsPattern.MatchString(nf.NationalPrefixFormattingRule)
		formatted := full.ReplaceAllString(f.nationalNumber, expandTemplate(nf.Format))
		fullOutput := f.appendNationalNumber(formatted)
		if NormalizeDiallableCharsOnly(fullOutput) == f.accruedInputWithoutFormatting.String() {
			return fullOutput
		}
	}
	return ""
}

func (f *AsYouTypeFormatter) appendNationalNumber(nationalNumber string) string {
	prefix := f.prefixBeforeNationalNumber
	if f.shouldAddSpaceAfterNationalPrefix && prefix != "" &&
		prefix[len(prefix)-1] != separatorBeforeNationalNumber {
		return prefix + string(separatorBeforeNationalNumber) + nationalNumber
	}
	return prefix + nationalNumber
}

func (f *AsYouTypeFormatter) inputAccruedNationalNumber() string {
	if f.nationalNumber == "" {
		return f.prefixBeforeNationalNumber
	}
	tempNationalNumber := ""
	for _, d := range f.nationalNumber {
		tempNationalNumber = f.inputDigitHelper(d)
	}
	if f.ableToFormat {
		return f.appendNationalNumber(tempNationalNumber)
	}
	return f.accruedInput.String()
}

func (f *AsYouTypeFormatter) isNanpaNumberWithNationalPrefix() bool {
	// A leading 1 is the national prefix unless it is followed by 0 or 1,
	// which no area code starts with.
	return f.currentMetadata.CountryCode == nanpaCountryCode && len(f.nationalNumber) > 1 &&
		f.nationalNumber[0] == '1' && f.nationalNumber[1] != '0' && f.nationalNumber[1] != '1'
}

// removeNationalPrefixFromNationalNumber strips and returns the national
// prefix at the start of the national number, if any.
func (f *AsYouTypeFormatter) removeNationalPrefixFromNationalNumber() string {
	start := 0
	if f.isNanpaNumberWithNationalPrefix() {
		start = 1
		f.prefixBeforeNationalNumber += "1" + string(separatorBeforeNationalNumber)
		f.isCompleteNumber = true
	} else if f.currentMetadata.HasNationalPrefixForParsing() {
		loc := f.currentMetadata.NationalPrefixForParsing.Prefix().FindStringIndex(f.nationalNumber)
		if loc != nil && loc[1] > 0 {
			// The national prefix marks the number as complete, so
			// international formats apply.
			f.isCompleteNumber = true
			start = loc[1]
			f.prefixBeforeNationalNumber += f.nationalNumber[:start]
		}
	}
	nationalPrefix := f.nationalNumber[:start]
	f.nationalNumber = f.nationalNumber[start:]
	return nationalPrefix
}

// attemptToExtractIdd splits a leading plus sign or international prefix off
// the digits typed so far.
func (f *AsYouTypeFormatter) attemptToExtractIdd() bool {
	expr := `^(?:\+`
	if idd := f.currentMetadata.InternationalPrefixString(); idd != "" {
		expr += `|` + idd
	}
	re := f.util.compile(expr + `)`)
	accrued := f.accruedInputWithoutFormatting.String()
	loc := re.FindStringIndex(accrued)
	if loc == nil {
		return false
	}
	f.isCompleteNumber = true
	start := loc[1]
	f.nationalNumber = accrued[start:]
	f.prefixBeforeNationalNumber = accrued[:start]
	if accrued[0] != plusSign {
		f.prefixBeforeNationalNumber += string(separatorBeforeNationalNumber)
	}
	return true
}

// attemptToExtractCountryCallingCode moves a calling code from the national
// number into the prefix and switches metadata to its region.
func (f *AsYouTypeFormatter) attemptToExtractCountryCallingCode() bool {
	if f.nationalNumber == "" {
		return false
	}
	cc, rest := f.util.extractCountryCode(f.nationalNumber)
	if cc == 0 {
		return false
	}
	f.nationalNumber = rest
	newRegion := f.util.RegionCodeForCountryCode(cc)
	if newRegion == metadata.RegionCodeNonGeo {
		if meta := f.util.nonGeoMetadata(cc); meta != nil {
			f.currentMetadata = meta
		} else {
			f.currentMetadata = emptyRegion
		}
	} else if newRegion != f.defaultCountry {
		f.currentMetadata = f.metadataForRegion(newRegion)
	}
	f.prefixBeforeNationalNumber += strconv.Itoa(cc) + string(separatorBeforeNationalNumber)
	f.extractedNationalPrefix = ""
	return true
}

// inputDigitHelper places next into the first free placeholder of the
// template and returns the template up to that digit.
func (f *AsYouTypeFormatter) inputDigitHelper(next rune) string {
	if i := strings.Index(f.formattingTemplate[f.lastMatchPosition:], digitPlaceholder); i >= 0 {
		pos := f.lastMatchPosition + i
		f.formattingTemplate = f.formattingTemplate[:pos] + string(next) + f.formattingTemplate[pos+len(digitPlaceholder):]
		f.lastMatchPosition = pos
		return f.formattingTemplate[:pos+1]
	}
	if len(f.possibleFormats) == 1 {
		// The only format left is too short for the digits typed.
		f.ableToFormat = false
	}
	f.currentFormattingPattern = ""
	return f.accruedInput.String()
}
