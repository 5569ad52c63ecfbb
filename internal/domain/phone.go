package domain

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/aelexs/phonekit/pkg/phonenumbers"
)

// E164 is a value object holding a phone number in E.164 form. It masks
// itself when logged.
type E164 struct {
	value string
}

// E164FromNumber formats a parsed number with u, so that the digits follow
// the same metadata the number was parsed with. Extensions are not part of
// E.164 and are dropped.
func E164FromNumber(u *phonenumbers.Util, n *phonenumbers.PhoneNumber) E164 {
	if n == nil {
		return E164{}
	}
	return E164{value: u.Format(n, phonenumbers.E164)}
}

func (p E164) String() string { return p.value }
func (p E164) IsZero() bool   { return p.value == "" }

// LogValue masks the number so that logs never carry a full phone number.
func (p E164) LogValue() slog.Value {
	return slog.StringValue(MaskPhone(p.value))
}

// maskKeep is the number of trailing digits left readable by MaskPhone.
const maskKeep = 2

// MaskPhone replaces every digit except the last two with '*'. Other
// characters are kept so the masked value still shows the input's shape.
func MaskPhone(s string) string {
	digits := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	var b strings.Builder
	b.Grow(len(s))
	seen := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			seen++
			if seen <= digits-maskKeep {
				b.WriteByte('*')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ slog.LogValuer = E164{}
