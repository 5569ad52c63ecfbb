package phonenumbers

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// keypad maps upper-case letters to the digit they share a telephone key with.
var keypad = map[rune]rune{
	'A': '2', 'B': '2', 'C': '2',
	'D': '3', 'E': '3', 'F': '3',
	'G': '4', 'H': '4', 'I': '4',
	'J': '5', 'K': '5', 'L': '5',
	'M': '6', 'N': '6', 'O': '6',
	'P': '7', 'Q': '7', 'R': '7', 'S': '7',
	'T': '8', 'U': '8', 'V': '8',
	'W': '9', 'X': '9', 'Y': '9', 'Z': '9',
}

// narrow folds fullwidth forms such as U+FF10 or U+FF0B onto ASCII.
func narrow(r rune) rune {
	if r < 0x80 {
		return r
	}
	if n := width.LookupRune(r).Narrow(); n != 0 {
		return n
	}
	return r
}

// digitValue returns the decimal value of any Unicode decimal digit. Decimal
// digits are encoded in contiguous runs starting at zero, so the offset into
// the enclosing range of the Nd table gives the value.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if r < 0x80 || !unicode.Is(unicode.Nd, r) {
		return 0, false
	}
	for _, rg := range unicode.Nd.R16 {
		if r >= rune(rg.Lo) && r <= rune(rg.Hi) && rg.Stride == 1 {
			return int(r-rune(rg.Lo)) % 10, true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if r >= rune(rg.Lo) && r <= rune(rg.Hi) && rg.Stride == 1 {
			return int(r-rune(rg.Lo)) % 10, true
		}
	}
	return 0, false
}

func asciiDigit(r rune) (rune, bool) {
	v, ok := digitValue(r)
	if !ok {
		return 0, false
	}
	return rune('0' + v), true
}

// keypadRune maps a digit or letter onto the digit dialled for it.
func keypadRune(r rune) (rune, bool) {
	if d, ok := asciiDigit(r); ok {
		return d, true
	}
	d, ok := keypad[unicode.ToUpper(narrow(r))]
	return d, ok
}

// Normalize reduces a phone number to its dialled digits. When the number
// contains three or more letters they are mapped onto the keypad; otherwise
// every non-digit is dropped. Digits of any script become ASCII digits.
func Normalize(number string) string {
	if validAlphaPhone.MatchString(number) {
		return mapRunes(number, keypadRune, true)
	}
	return NormalizeDigitsOnly(number)
}

// NormalizeDigitsOnly keeps only the digits of number, converted to ASCII.
func NormalizeDigitsOnly(number string) string {
	return mapRunes(number, asciiDigit, true)
}

// NormalizeDiallableCharsOnly keeps the digits together with '+', '*' and '#'.
func NormalizeDiallableCharsOnly(number string) string {
	return mapRunes(number, func(r rune) (rune, bool) {
		if d, ok := asciiDigit(r); ok {
			return d, true
		}
		switch n := narrow(r); n {
		case plusSign, starSign, '#':
			return n, true
		}
		return 0, false
	}, true)
}

// ConvertAlphaCharactersInNumber replaces letters with their keypad digits
// and leaves every other character in place.
func ConvertAlphaCharactersInNumber(number string) string {
	return mapRunes(number, keypadRune, false)
}

func mapRunes(s string, fn func(rune) (rune, bool), removeNonMatches bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if m, ok := fn(r); ok {
			b.WriteRune(m)
		} else if !removeNonMatches {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsViablePhoneNumber reports whether number could plausibly be a phone
// number: at least two characters, mostly digits and punctuation, with at
// most a trailing extension.
func IsViablePhoneNumber(number string) bool {
	if utf8.RuneCountInString(number) < minLengthForNSN {
		return false
	}
	return validPhoneNumberPattern.MatchString(number)
}

// ExtractPossibleNumber trims number down to the part that could be a phone
// number: it starts at the first digit or plus sign, loses trailing
// non-alphanumerics other than '#', and stops before a second number
// introduced by "/x" or "\x".
func ExtractPossibleNumber(number string) string {
	loc := validStartCharPattern.FindStringIndex(number)
	if loc == nil {
		return ""
	}
	number = number[loc[0]:]
	if trail := unwantedEndChars.FindStringIndex(number); trail != nil {
		number = number[:trail[0]]
	}
	if second := secondNumberStart.FindStringIndex(number); second != nil {
		number = number[:second[0]]
	}
	return number
}

// IsAlphaNumber reports whether number is a viable phone number written with
// vanity letters, such as "1800 MICROSOFT".
func IsAlphaNumber(number string) bool {
	if !IsViablePhoneNumber(number) {
		return false
	}
	number, _ = stripExtension(number)
	return validAlphaPhone.MatchString(number)
}
