// Package metadata holds the numbering-plan rules of every region and the
// provider that loads them.
//
// The engine in pkg/phonenumbers only sees the Provider interface and the
// Index. FSProvider is the bundled implementation: one YAML file per region
// or non-geographic calling code, decoded lazily and cached per key.
package metadata

// NumberDesc describes one class of numbers (fixed line, mobile, ...) of a region.
type NumberDesc struct {
	NationalNumberPattern *Pattern
	// PossibleLengths is sorted. A single -1 marks a type the region does not
	// support. An empty list means "same as the general description".
	PossibleLengths          []int
	PossibleLengthsLocalOnly []int
	ExampleNumber            string
}

// HasPossibleNumberData reports whether the description carries length data.
func (d *NumberDesc) HasPossibleNumberData() bool {
	return d != nil && !(len(d.PossibleLengths) == 1 && d.PossibleLengths[0] == -1)
}

// MatchesNationalNumber reports whether nsn fully matches the description's pattern.
func (d *NumberDesc) MatchesNationalNumber(nsn string) bool {
	return d != nil && d.NationalNumberPattern.MatchString(nsn)
}

// unsupportedDesc is used for every type a region leaves out.
func unsupportedDesc() *NumberDesc {
	return &NumberDesc{PossibleLengths: []int{-1}}
}

// NumberFormat is one formatting rule.
type NumberFormat struct {
	Pattern *Pattern
	// Format is the replacement template using $1..$9.
	Format string
	// LeadingDigitsPatterns narrow down candidate rules; each entry covers
	// one more leading digit than the previous one.
	LeadingDigitsPatterns []*Pattern
	// NationalPrefixFormattingRule has $NP and $FG already substituted, so
	// it looks like "0$1" or "($1)".
	NationalPrefixFormattingRule         string
	NationalPrefixOptionalWhenFormatting bool
	// DomesticCarrierCodeFormattingRule keeps the $CC placeholder.
	DomesticCarrierCodeFormattingRule string
}

// Clone returns a shallow copy safe to modify field by field.
func (f *NumberFormat) Clone() *NumberFormat {
	c := *f
	c.LeadingDigitsPatterns = append([]*Pattern(nil), f.LeadingDigitsPatterns...)
	return &c
}

// Region is the complete rule set for one region code or non-geographic
// calling code.
type Region struct {
	ID          string
	CountryCode int

	GeneralDesc             *NumberDesc
	FixedLine               *NumberDesc
	Mobile                  *NumberDesc
	TollFree                *NumberDesc
	PremiumRate             *NumberDesc
	SharedCost              *NumberDesc
	PersonalNumber          *NumberDesc
	VoIP                    *NumberDesc
	Pager                   *NumberDesc
	UAN                     *NumberDesc
	Voicemail               *NumberDesc
	NoInternationalDialling *NumberDesc

	InternationalPrefix          *Pattern
	PreferredInternationalPrefix string
	NationalPrefix               string
	PreferredExtnPrefix          string
	NationalPrefixForParsing     *Pattern
	NationalPrefixTransformRule  string

	SameMobileAndFixedLinePattern bool
	MainCountryForCode            bool
	LeadingDigits                 *Pattern
	MobileNumberPortable          bool

	NumberFormats     []*NumberFormat
	IntlNumberFormats []*NumberFormat
}

// InternationalPrefixString returns the raw international prefix expression.
func (r *Region) InternationalPrefixString() string {
	return r.InternationalPrefix.String()
}

// HasNationalPrefixForParsing reports whether national-prefix stripping applies.
func (r *Region) HasNationalPrefixForParsing() bool {
	return r.NationalPrefixForParsing != nil
}
