package phonenumbers

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Leniency is the strictness used to accept a candidate found in text. Each
// level applies every check of the previous one.
type Leniency int

const (
	// Possible accepts numbers of a possible length. Numbers written in
	// national format must be possible in the region searched.
	Possible Leniency = iota
	// Valid accepts valid numbers that are not glued to surrounding words and
	// carry a national prefix wherever one is required.
	Valid
	// StrictGrouping additionally requires digit groups in the text to stay
	// whole: "650 2530 000" is rejected because "253" is split.
	StrictGrouping
	// ExactGrouping requires the text to be grouped exactly as the number is
	// formatted, or as an alternate format of its region would group it.
	ExactGrouping
)

var leniencyNames = map[Leniency]string{
	Possible:       "POSSIBLE",
	Valid:          "VALID",
	StrictGrouping: "STRICT_GROUPING",
	ExactGrouping:  "EXACT_GROUPING",
}

func (l Leniency) String() string {
	if s, ok := leniencyNames[l]; ok {
		return s
	}
	return fmt.Sprintf("Leniency(%d)", int(l))
}

// ParseLeniency maps a case-insensitive name such as "valid" to its value.
func ParseLeniency(name string) (Leniency, error) {
	for l, s := range leniencyNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown leniency %q", name)
}

// Match is a phone number found in text. Start and End are byte offsets.
type Match struct {
	Start     int
	RawString string
	Number    *PhoneNumber
}

// End returns the offset just past the match.
func (m *Match) End() int { return m.Start + len(m.RawString) }

func (m *Match) String() string {
	return fmt.Sprintf("Match [%d,%d) %s", m.Start, m.End(), m.RawString)
}

const (
	openingParens = `(\[\x{FF08}\x{FF3B}`
	closingParens = `)\]\x{FF09}\x{FF3D}`
	nonParens     = `[^` + openingParens + closingParens + `]`
	leadClass     = `[` + openingParens + plusChars + `]`

	// digitBlockLimit bounds digit blocks and separators so that long runs of
	// digits cannot make a candidate arbitrarily large.
	digitBlockLimit = maxLengthForNSN + maxLengthCountryCode
)

var (
	candidatePunctuation = `[` + validPunctuation + `]{0,4}`
	candidateDigits      = digits + `{1,` + strconv.Itoa(digitBlockLimit) + `}`

	candidatePattern = regexp.MustCompile(`(?i)(?:` + leadClass + candidatePunctuation + `){0,2}` +
		candidateDigits + `(?:` + candidatePunctuation + candidateDigits + `){0,` + strconv.Itoa(digitBlockLimit) + `}` +
		`(?:` + extnPatternsForMatching + `)?`)

	// matchingBrackets accepts at most one unmatched leading bracket pair and
	// three balanced pairs.
	matchingBrackets = regexp.MustCompile(`^(?:[` + openingParens + `])?(?:` + nonParens + `+[` + closingParens + `])?` +
		nonParens + `+(?:[` + openingParens + `]` + nonParens + `+[` + closingParens + `]){0,3}` + nonParens + `*$`)

	leadClassPattern = regexp.MustCompile(`^` + leadClass)

	// pubPages matches page ranges in citations, e.g. "211-227 (2003)".
	pubPages            = regexp.MustCompile(`\d{1,5}-+\d{1,5}\s{0,4}\(\d{1,4}`)
	slashSeparatedDates = regexp.MustCompile(`(?:(?:[0-3]?\d/[01]?\d)|(?:[01]?\d/[0-3]?\d))/(?:[12]\d)?\d{2}`)
	timeStamps          = regexp.MustCompile(`[12]\d{3}[-/]?[01]\d[-/]?[0-3]\d +[0-2]\d$`)
	timeStampsSuffix    = regexp.MustCompile(`^:[0-5]\d`)

	// innerMatches split a rejected candidate, most likely separators first.
	innerMatches = []*regexp.Regexp{
		// "650-253-0000/650-253-0001"
		regexp.MustCompile(`/+(.*)`),
		// "(650) 253-0000 (650) 253-0001"
		regexp.MustCompile(`(\([^(]*)`),
		// "650-253-0000 - 650-253-0001"
		regexp.MustCompile(`(?:\p{Z}-|-\p{Z})\p{Z}*(.+)`),
		// "650-253-0000 – 650-253-0001"
		regexp.MustCompile(`[\x{2012}-\x{2015}\x{FF0D}]\p{Z}*(.+)`),
		// "650.253.0000. 650.253.0001"
		regexp.MustCompile(`\.+\p{Z}*([^.]+)`),
		// "650 253 0000 650 253 0001"
		regexp.MustCompile(`\p{Z}+(\P{Z}+)`),
	}

	nonDigitsPattern = regexp.MustCompile(`\D+`)
)

type matcherState int

const (
	notReady matcherState = iota
	ready
	done
)

// Matcher iterates over the phone numbers in a text. It is not safe for
// concurrent use.
type Matcher struct {
	util            *Util
	text            string
	preferredRegion string
	leniency        Leniency
	// maxTries counts down the parse attempts left.
	maxTries int

	state       matcherState
	lastMatch   *Match
	searchIndex int
}

// FindNumbers returns a Matcher over the valid numbers in text. Numbers
// without a country calling code are read as dialled from region.
func (u *Util) FindNumbers(text, region string) *Matcher {
	return u.FindNumbersWithLeniency(text, region, Valid, math.MaxInt)
}

// FindNumbersWithLeniency returns a Matcher accepting numbers at leniency.
// The scan gives up after maxTries failed parse attempts; a negative value
// is treated as zero.
func (u *Util) FindNumbersWithLeniency(text, region string, leniency Leniency, maxTries int) *Matcher {
	return &Matcher{
		util:            u,
		text:            text,
		preferredRegion: canonicalRegion(region),
		leniency:        leniency,
		maxTries:        max(maxTries, 0),
	}
}

// HasNext reports whether another match follows. Calling it repeatedly
// without Next does not search again.
func (m *Matcher) HasNext() bool {
	if m.state == notReady {
		m.lastMatch = m.find(m.searchIndex)
		if m.lastMatch == nil {
			m.state = done
		} else {
			m.searchIndex = m.lastMatch.End()
			m.state = ready
		}
	}
	return m.state == ready
}

// Next returns the next match, or false when there is none.
func (m *Matcher) Next() (*Match, bool) {
	if !m.HasNext() {
		return nil, false
	}
	result := m.lastMatch
	m.lastMatch = nil
	m.state = notReady
	return result, true
}

// FindAll drains the matcher.
func (m *Matcher) FindAll() []*Match {
	var matches []*Match
	for {
		match, ok := m.Next()
		if !ok {
			return matches
		}
		matches = append(matches, match)
	}
}

func (m *Matcher) find(index int) *Match {
	for m.maxTries > 0 && index <= len(m.text) {
		loc := candidatePattern.FindStringIndex(m.text[index:])
		if loc == nil {
			break
		}
		start := index + loc[0]
		candidate := trimAfterFirstMatch(secondNumberStart, m.text[start:index+loc[1]])
		if match := m.extractMatch(candidate, start); match != nil {
			return match
		}
		index = start + len(candidate)
		m.maxTries--
	}
	return nil
}

// trimAfterFirstMatch cuts candidate at the first match of pattern.
func trimAfterFirstMatch(pattern *regexp.Regexp, candidate string) string {
	if loc := pattern.FindStringIndex(candidate); loc != nil {
		return candidate[:loc[0]]
	}
	return candidate
}

func (m *Matcher) extractMatch(candidate string, offset int) *Match {
	if slashSeparatedDates.MatchString(candidate) {
		return nil
	}
	if timeStamps.MatchString(candidate) {
		following := m.text[offset+len(candidate):]
		if timeStampsSuffix.MatchString(following) {
			return nil
		}
	}
	if match := m.parseAndVerify(candidate, offset); match != nil {
		return match
	}
	return m.extractInnerMatch(candidate, offset)
}

// extractInnerMatch retries the parts of a candidate on either side of each
// kind of separator.
func (m *Matcher) extractInnerMatch(candidate string, offset int) *Match {
	for _, inner := range innerMatches {
		isFirstMatch := true
		for _, loc := range inner.FindAllStringSubmatchIndex(candidate, -1) {
			if m.maxTries <= 0 {
				break
			}
			if isFirstMatch {
				// The part before the first separator.
				group := trimAfterFirstMatch(unwantedEndChars, candidate[:loc[0]])
				if match := m.parseAndVerify(group, offset); match != nil {
					return match
				}
				m.maxTries--
				isFirstMatch = false
			}
			group := trimAfterFirstMatch(unwantedEndChars, candidate[loc[2]:loc[3]])
			if match := m.parseAndVerify(group, offset+loc[2]); match != nil {
				return match
			}
			m.maxTries--
		}
	}
	return nil
}

func (m *Matcher) parseAndVerify(candidate string, offset int) *Match {
	if !matchingBrackets.MatchString(candidate) || pubPages.MatchString(candidate) {
		return nil
	}
	if m.leniency >= Valid {
		// Numbers glued to letters or currency amounts are not numbers.
		if offset > 0 && !leadClassPattern.MatchString(candidate) {
			prev, _ := utf8.DecodeLastRuneInString(m.text[:offset])
			if isInvalidPunctuationSymbol(prev) || isLatinLetter(prev) {
				return nil
			}
		}
		if last := offset + len(candidate); last < len(m.text) {
			next, _ := utf8.DecodeRuneInString(m.text[last:])
			if isInvalidPunctuationSymbol(next) || isLatinLetter(next) {
				return nil
			}
		}
	}

	n, err := m.util.ParseAndKeepRawInput(candidate, m.preferredRegion)
	if err != nil {
		return nil
	}
	if !verify(m.leniency, n, candidate, m.util) {
		return nil
	}
	n.CountryCodeSource = CountryCodeSourceUnspecified
	n.ClearRawInput()
	n.ClearPreferredDomesticCarrierCode()
	return &Match{Start: offset, RawString: candidate, Number: n}
}

// isLatinLetter reports whether r is a letter or combining mark from a Latin
// script block. Such a neighbour means the digits are part of a word.
func isLatinLetter(r rune) bool {
	if !unicode.IsLetter(r) && !unicode.Is(unicode.Mn, r) {
		return false
	}
	return r <= 0x024F || // Basic Latin up to Latin Extended-B
		(r >= 0x0300 && r <= 0x036F) || // Combining Diacritical Marks
		(r >= 0x1E00 && r <= 0x1EFF) // Latin Extended Additional
}

func isInvalidPunctuationSymbol(r rune) bool {
	return r == '%' || unicode.Is(unicode.Sc, r)
}

// verify reports whether number, parsed from candidate, is acceptable at
// leniency l.
func verify(l Leniency, n *PhoneNumber, candidate string, u *Util) bool {
	switch l {
	case Possible:
		return u.IsPossibleNumber(n)
	case Valid:
		return u.IsValidNumber(n) &&
			containsOnlyValidXChars(n, candidate, u) &&
			isNationalPrefixPresentIfRequired(n, u)
	case StrictGrouping, ExactGrouping:
		if !u.IsValidNumber(n) ||
			!containsOnlyValidXChars(n, candidate, u) ||
			containsMoreThanOneSlashInNationalNumber(n, candidate) ||
			!isNationalPrefixPresentIfRequired(n, u) {
			return false
		}
		check := allNumberGroupsRemainGrouped
		if l == ExactGrouping {
			check = allNumberGroupsAreExactlyPresent
		}
		return checkNumberGroupingIsValid(n, candidate, u, check)
	}
	return false
}

// containsOnlyValidXChars accepts an "x" only as an extension marker, or a
// doubled "xx" only as a carrier code separator.
func containsOnlyValidXChars(n *PhoneNumber, candidate string, u *Util) bool {
	for i := 0; i < len(candidate)-1; i++ {
		if c := candidate[i]; c != 'x' && c != 'X' {
			continue
		}
		if next := candidate[i+1]; next == 'x' || next == 'X' {
			i++
			if u.IsNumberMatchWithOneString(n, candidate[i:]) != NSNMatch {
				return false
			}
		} else if NormalizeDigitsOnly(candidate[i:]) != n.GetExtension() {
			return false
		}
	}
	return true
}

// isNationalPrefixPresentIfRequired rejects numbers written in national
// format without the national prefix their formatting rule demands.
func isNationalPrefixPresentIfRequired(n *PhoneNumber, u *Util) bool {
	if n.CountryCodeSource != FromDefaultCountry {
		return true
	}
	meta := u.regionMetadata(u.RegionCodeForCountryCode(int(n.GetCountryCode())))
	if meta == nil {
		return true
	}
	nsn := GetNationalSignificantNumber(n)
	rule := chooseFormattingPattern(meta.NumberFormats, nsn)
	if rule == nil || rule.NationalPrefixFormattingRule == "" {
		return true
	}
	if rule.NationalPrefixOptionalWhenFormatting || formattingRuleHasFirstGroupOnly(rule.NationalPrefixFormattingRule) {
		return true
	}
	_, _, stripped := u.maybeStripNationalPrefixAndCarrierCode(NormalizeDigitsOnly(n.GetRawInput()), meta)
	return stripped
}

func containsMoreThanOneSlashInNationalNumber(n *PhoneNumber, candidate string) bool {
	first := strings.IndexByte(candidate, '/')
	if first < 0 {
		return false
	}
	second := strings.IndexByte(candidate[first+1:], '/')
	if second < 0 {
		return false
	}
	second += first + 1
	hasCountryCode := n.CountryCodeSource == FromNumberWithPlusSign || n.CountryCodeSource == FromNumberWithoutPlusSign
	if hasCountryCode && NormalizeDigitsOnly(candidate[:first]) == strconv.Itoa(int(n.GetCountryCode())) {
		// The first slash only separates the country code.
		return strings.Contains(candidate[second+1:], "/")
	}
	return true
}

type groupChecker func(u *Util, n *PhoneNumber, normalizedCandidate string, groups []string) bool

// checkNumberGroupingIsValid tries the canonical grouping of n first, then
// the alternate formats of its calling code.
func checkNumberGroupingIsValid(n *PhoneNumber, candidate string, u *Util, check groupChecker) bool {
	normalized := mapRunes(candidate, asciiDigit, false)
	if check(u, n, normalized, nationalNumberGroups(u, n)) {
		return true
	}
	nsn := GetNationalSignificantNumber(n)
	for _, alt := range u.alternateFormats(int(n.GetCountryCode())) {
		if len(alt.LeadingDigitsPatterns) > 0 && !alt.LeadingDigitsPatterns[0].LookingAt(nsn) {
			continue
		}
		groups := strings.Split(formatNsnUsingPattern(nsn, alt, RFC3966, ""), "-")
		if check(u, n, normalized, groups) {
			return true
		}
	}
	return false
}

// nationalNumberGroups returns the digit groups of the national number as
// RFC3966 formatting separates them.
func nationalNumberGroups(u *Util, n *PhoneNumber) []string {
	formatted := u.Format(n, RFC3966)
	end := strings.IndexByte(formatted, ';')
	if end < 0 {
		end = len(formatted)
	}
	start := strings.IndexByte(formatted, '-') + 1
	return strings.Split(formatted[start:end], "-")
}

func allNumberGroupsRemainGrouped(u *Util, n *PhoneNumber, normalizedCandidate string, groups []string) bool {
	from := 0
	if n.CountryCodeSource != FromDefaultCountry {
		cc := strconv.Itoa(int(n.GetCountryCode()))
		from = strings.Index(normalizedCandidate, cc) + len(cc)
	}
	for i, group := range groups {
		at := strings.Index(normalizedCandidate[from:], group)
		if at < 0 {
			return false
		}
		from += at + len(group)
		if i == 0 && from < len(normalizedCandidate) {
			// A first group followed directly by more digits may be an
			// area code written together with the rest of the number.
			region := u.RegionCodeForCountryCode(int(n.GetCountryCode()))
			if u.GetNddPrefixForRegion(region, true) != "" && isASCIIDigit(normalizedCandidate[from]) {
				nsn := GetNationalSignificantNumber(n)
				return strings.HasPrefix(normalizedCandidate[from-len(group):], nsn)
			}
		}
	}
	return strings.Contains(normalizedCandidate[from:], n.GetExtension())
}

func allNumberGroupsAreExactlyPresent(u *Util, n *PhoneNumber, normalizedCandidate string, groups []string) bool {
	candidateGroups := splitNonDigits(normalizedCandidate)
	idx := len(candidateGroups) - 1
	if n.HasExtension() {
		idx--
	}
	if len(candidateGroups) == 1 || (idx >= 0 && strings.Contains(candidateGroups[idx], GetNationalSignificantNumber(n))) {
		return true
	}
	// Compare from the end: the leading group may carry a national prefix or
	// country code.
	for g := len(groups) - 1; g > 0 && idx >= 0; g, idx = g-1, idx-1 {
		if candidateGroups[idx] != groups[g] {
			return false
		}
	}
	return idx >= 0 && strings.HasSuffix(candidateGroups[idx], groups[0])
}

// splitNonDigits splits s at runs of non-digits, dropping trailing empty
// parts but keeping a leading one.
func splitNonDigits(s string) []string {
	parts := nonDigitsPattern.Split(s, -1)
	for len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func isASCIIDigit(c byte) bool { return c >= '0' && c <= '9' }
