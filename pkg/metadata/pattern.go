package metadata

import (
	"fmt"
	"regexp"
)

// Pattern is a metadata regular expression compiled once in the three forms
// the engine needs: unanchored (find), anchored at the start (looking-at)
// and anchored at both ends (full match).
type Pattern struct {
	raw    string
	find   *regexp.Regexp
	prefix *regexp.Regexp
	full   *regexp.Regexp
}

// CompilePattern compiles raw into a Pattern.
func CompilePattern(raw string) (*Pattern, error) {
	find, err := regexp.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", raw, err)
	}
	prefix, err := regexp.Compile(`^(?:` + raw + `)`)
	if err != nil {
		return nil, fmt.Errorf("compile prefix pattern %q: %w", raw, err)
	}
	full, err := regexp.Compile(`^(?:` + raw + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compile full pattern %q: %w", raw, err)
	}
	return &Pattern{raw: raw, find: find, prefix: prefix, full: full}, nil
}

// MustCompilePattern is like CompilePattern but panics on error. Use only for
// patterns known at compile time.
func MustCompilePattern(raw string) *Pattern {
	p, err := CompilePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.raw
}

// MatchString reports whether the whole of s matches.
func (p *Pattern) MatchString(s string) bool {
	return p != nil && p.full.MatchString(s)
}

// LookingAt reports whether a prefix of s matches.
func (p *Pattern) LookingAt(s string) bool {
	return p != nil && p.prefix.MatchString(s)
}

// LookingAtSubmatchIndex returns the submatch indexes of the match anchored at
// the start of s, or nil.
func (p *Pattern) LookingAtSubmatchIndex(s string) []int {
	if p == nil {
		return nil
	}
	return p.prefix.FindStringSubmatchIndex(s)
}

// Find returns the leftmost unanchored match in s.
func (p *Pattern) Find(s string) (string, bool) {
	if p == nil {
		return "", false
	}
	loc := p.find.FindStringIndex(s)
	if loc == nil {
		return "", false
	}
	return s[loc[0]:loc[1]], true
}

// ReplaceAllString replaces every unanchored match in s with template, in
// which ${n} refers to a capture group.
func (p *Pattern) ReplaceAllString(s, template string) string {
	if p == nil {
		return s
	}
	return p.find.ReplaceAllString(s, template)
}

// Prefix exposes the start-anchored form.
func (p *Pattern) Prefix() *regexp.Regexp { return p.prefix }

// Full exposes the fully anchored form.
func (p *Pattern) Full() *regexp.Regexp { return p.full }
