package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// descFile is the on-disk shape of a NumberDesc.
type descFile struct {
	Pattern         string `yaml:"pattern"`
	PossibleLengths []int  `yaml:"possible_lengths"`
	LocalOnly       []int  `yaml:"local_only"`
	Example         string `yaml:"example"`
}

// formatFile is the on-disk shape of a NumberFormat. Pointer fields fall back
// to the region-level defaults when absent.
type formatFile struct {
	Pattern                              string   `yaml:"pattern"`
	Format                               string   `yaml:"format"`
	IntlFormat                           string   `yaml:"intl_format"`
	LeadingDigits                        []string `yaml:"leading_digits"`
	NationalPrefixFormattingRule         *string  `yaml:"national_prefix_formatting_rule"`
	NationalPrefixOptionalWhenFormatting *bool    `yaml:"national_prefix_optional_when_formatting"`
	CarrierCodeFormattingRule            *string  `yaml:"carrier_code_formatting_rule"`
}

type regionFile struct {
	ID                                   string `yaml:"id"`
	CountryCode                          int    `yaml:"country_code"`
	MainCountryForCode                   bool   `yaml:"main_country_for_code"`
	InternationalPrefix                  string `yaml:"international_prefix"`
	PreferredInternationalPrefix         string `yaml:"preferred_international_prefix"`
	NationalPrefix                       string `yaml:"national_prefix"`
	PreferredExtnPrefix                  string `yaml:"preferred_extn_prefix"`
	NationalPrefixForParsing             string `yaml:"national_prefix_for_parsing"`
	NationalPrefixTransformRule          string `yaml:"national_prefix_transform_rule"`
	NationalPrefixFormattingRule         string `yaml:"national_prefix_formatting_rule"`
	NationalPrefixOptionalWhenFormatting bool   `yaml:"national_prefix_optional_when_formatting"`
	CarrierCodeFormattingRule            string `yaml:"carrier_code_formatting_rule"`
	LeadingDigits                        string `yaml:"leading_digits"`
	MobileNumberPortable                 bool   `yaml:"mobile_number_portable"`

	GeneralDesc             *descFile `yaml:"general_desc"`
	FixedLine               *descFile `yaml:"fixed_line"`
	Mobile                  *descFile `yaml:"mobile"`
	TollFree                *descFile `yaml:"toll_free"`
	PremiumRate             *descFile `yaml:"premium_rate"`
	SharedCost              *descFile `yaml:"shared_cost"`
	PersonalNumber          *descFile `yaml:"personal_number"`
	VoIP                    *descFile `yaml:"voip"`
	Pager                   *descFile `yaml:"pager"`
	UAN                     *descFile `yaml:"uan"`
	Voicemail               *descFile `yaml:"voicemail"`
	NoInternationalDialling *descFile `yaml:"no_international_dialling"`

	Formats []formatFile `yaml:"formats"`
}

type alternateFile struct {
	CountryCode int          `yaml:"country_code"`
	Formats     []formatFile `yaml:"formats"`
}

func decodeStrict(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// DecodeRegion decodes and compiles one region document.
func DecodeRegion(data []byte) (*Region, error) {
	var f regionFile
	if err := decodeStrict(bytes.NewReader(data), &f); err != nil {
		return nil, fmt.Errorf("decode region: %w", err)
	}
	return f.compile()
}

// DecodeAlternateFormats decodes and compiles an alternate-formats document.
func DecodeAlternateFormats(data []byte) ([]*NumberFormat, error) {
	var f alternateFile
	if err := decodeStrict(bytes.NewReader(data), &f); err != nil {
		return nil, fmt.Errorf("decode alternate formats: %w", err)
	}
	formats := make([]*NumberFormat, 0, len(f.Formats))
	for i, ff := range f.Formats {
		nf, err := ff.compile(ff.Format, formatDefaults{})
		if err != nil {
			return nil, fmt.Errorf("alternate format %d for %d: %w", i, f.CountryCode, err)
		}
		formats = append(formats, nf)
	}
	return formats, nil
}

func (f *regionFile) compile() (*Region, error) {
	if f.ID == "" || f.CountryCode <= 0 {
		return nil, errors.New("region needs id and country_code")
	}
	if f.GeneralDesc == nil {
		return nil, fmt.Errorf("region %s: general_desc is required", f.ID)
	}
	r := &Region{
		ID:                           f.ID,
		CountryCode:                  f.CountryCode,
		MainCountryForCode:           f.MainCountryForCode,
		PreferredInternationalPrefix: f.PreferredInternationalPrefix,
		NationalPrefix:               f.NationalPrefix,
		PreferredExtnPrefix:          f.PreferredExtnPrefix,
		NationalPrefixTransformRule:  f.NationalPrefixTransformRule,
		MobileNumberPortable:         f.MobileNumberPortable,
	}

	var err error
	descs := []struct {
		src *descFile
		dst **NumberDesc
	}{
		{f.GeneralDesc, &r.GeneralDesc},
		{f.FixedLine, &r.FixedLine},
		{f.Mobile, &r.Mobile},
		{f.TollFree, &r.TollFree},
		{f.PremiumRate, &r.PremiumRate},
		{f.SharedCost, &r.SharedCost},
		{f.PersonalNumber, &r.PersonalNumber},
		{f.VoIP, &r.VoIP},
		{f.Pager, &r.Pager},
		{f.UAN, &r.UAN},
		{f.Voicemail, &r.Voicemail},
		{f.NoInternationalDialling, &r.NoInternationalDialling},
	}
	for _, d := range descs {
		if *d.dst, err = d.src.compile(); err != nil {
			return nil, fmt.Errorf("region %s: %w", f.ID, err)
		}
	}
	if f.FixedLine != nil && f.Mobile != nil && f.FixedLine.Pattern == f.Mobile.Pattern {
		r.SameMobileAndFixedLinePattern = true
	}

	if r.InternationalPrefix, err = optionalPattern(f.InternationalPrefix); err != nil {
		return nil, fmt.Errorf("region %s: international_prefix: %w", f.ID, err)
	}
	parsing := f.NationalPrefixForParsing
	if parsing == "" {
		parsing = f.NationalPrefix
	}
	if r.NationalPrefixForParsing, err = optionalPattern(parsing); err != nil {
		return nil, fmt.Errorf("region %s: national_prefix_for_parsing: %w", f.ID, err)
	}
	if r.LeadingDigits, err = optionalPattern(f.LeadingDigits); err != nil {
		return nil, fmt.Errorf("region %s: leading_digits: %w", f.ID, err)
	}

	defaults := formatDefaults{
		nationalPrefix:   f.NationalPrefix,
		prefixRule:       f.NationalPrefixFormattingRule,
		prefixOptional:   f.NationalPrefixOptionalWhenFormatting,
		carrierCodeRule:  f.CarrierCodeFormattingRule,
		substituteFields: true,
	}
	hasIntl := slices.ContainsFunc(f.Formats, func(ff formatFile) bool { return ff.IntlFormat != "" })
	for i, ff := range f.Formats {
		nf, err := ff.compile(ff.Format, defaults)
		if err != nil {
			return nil, fmt.Errorf("region %s: format %d: %w", f.ID, i, err)
		}
		r.NumberFormats = append(r.NumberFormats, nf)
		if !hasIntl || ff.IntlFormat == "NA" {
			continue
		}
		intl := nf.Clone()
		if ff.IntlFormat != "" {
			intl.Format = ff.IntlFormat
		}
		r.IntlNumberFormats = append(r.IntlNumberFormats, intl)
	}
	return r, nil
}

func (d *descFile) compile() (*NumberDesc, error) {
	if d == nil {
		return unsupportedDesc(), nil
	}
	p, err := CompilePattern(d.Pattern)
	if err != nil {
		return nil, err
	}
	lengths := slices.Clone(d.PossibleLengths)
	local := slices.Clone(d.LocalOnly)
	slices.Sort(lengths)
	slices.Sort(local)
	return &NumberDesc{
		NationalNumberPattern:    p,
		PossibleLengths:          lengths,
		PossibleLengthsLocalOnly: local,
		ExampleNumber:            d.Example,
	}, nil
}

type formatDefaults struct {
	nationalPrefix   string
	prefixRule       string
	prefixOptional   bool
	carrierCodeRule  string
	substituteFields bool
}

func (ff *formatFile) compile(format string, def formatDefaults) (*NumberFormat, error) {
	p, err := CompilePattern(ff.Pattern)
	if err != nil {
		return nil, err
	}
	nf := &NumberFormat{
		Pattern:                              p,
		Format:                               format,
		NationalPrefixFormattingRule:         def.prefixRule,
		NationalPrefixOptionalWhenFormatting: def.prefixOptional,
		DomesticCarrierCodeFormattingRule:    def.carrierCodeRule,
	}
	for _, ld := range ff.LeadingDigits {
		ldp, err := CompilePattern(ld)
		if err != nil {
			return nil, err
		}
		nf.LeadingDigitsPatterns = append(nf.LeadingDigitsPatterns, ldp)
	}
	if ff.NationalPrefixFormattingRule != nil {
		nf.NationalPrefixFormattingRule = *ff.NationalPrefixFormattingRule
	}
	if ff.NationalPrefixOptionalWhenFormatting != nil {
		nf.NationalPrefixOptionalWhenFormatting = *ff.NationalPrefixOptionalWhenFormatting
	}
	if ff.CarrierCodeFormattingRule != nil {
		nf.DomesticCarrierCodeFormattingRule = *ff.CarrierCodeFormattingRule
	}
	if def.substituteFields {
		nf.NationalPrefixFormattingRule = substituteRule(nf.NationalPrefixFormattingRule, def.nationalPrefix)
		nf.DomesticCarrierCodeFormattingRule = substituteRule(nf.DomesticCarrierCodeFormattingRule, def.nationalPrefix)
	}
	return nf, nil
}

// substituteRule expands $NP to the national prefix and $FG to the first group.
func substituteRule(rule, nationalPrefix string) string {
	if rule == "" {
		return ""
	}
	rule = strings.ReplaceAll(rule, "$NP", nationalPrefix)
	return strings.ReplaceAll(rule, "$FG", "$1")
}

func optionalPattern(raw string) (*Pattern, error) {
	if raw == "" {
		return nil, nil
	}
	return CompilePattern(raw)
}
