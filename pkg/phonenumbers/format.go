package phonenumbers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aelexs/phonekit/pkg/metadata"
)

const nanpaCountryCode = 1

var singleInternationalPrefix = regexp.MustCompile(`^[\d]+(?:[~\x{2053}\x{223C}\x{FF5E}][\d]+)?$`)

// Format renders n in the given style. A number parsed with its raw input
// but without any national number digits is returned as typed.
func (u *Util) Format(n *PhoneNumber, style PhoneNumberFormat) string {
	if n.GetNationalNumber() == 0 && n.GetRawInput() != "" {
		return n.GetRawInput()
	}
	cc := int(n.GetCountryCode())
	nsn := GetNationalSignificantNumber(n)
	if style == E164 {
		return prefixWithCountryCode(cc, E164, nsn)
	}
	if !u.hasValidCountryCallingCode(cc) {
		return nsn
	}
	region := u.metadataForRegionOrCallingCode(cc, u.RegionCodeForCountryCode(cc))
	formatted := u.formatNsn(nsn, region, style, "")
	formatted = appendExtension(n, region, style, formatted)
	return prefixWithCountryCode(cc, style, formatted)
}

// FormatByPattern formats n with caller supplied rules. Their national
// prefix formatting rules may use $NP and $FG.
func (u *Util) FormatByPattern(n *PhoneNumber, style PhoneNumberFormat, formats []*metadata.NumberFormat) string {
	cc := int(n.GetCountryCode())
	nsn := GetNationalSignificantNumber(n)
	if !u.hasValidCountryCallingCode(cc) {
		return nsn
	}
	region := u.metadataForRegionOrCallingCode(cc, u.RegionCodeForCountryCode(cc))

	formatted := nsn
	if chosen := chooseFormattingPattern(formats, nsn); chosen != nil {
		f := chosen.Clone()
		if rule := f.NationalPrefixFormattingRule; rule != "" {
			if region != nil && region.NationalPrefix != "" {
				rule = strings.ReplaceAll(rule, "$NP", region.NationalPrefix)
				f.NationalPrefixFormattingRule = strings.ReplaceAll(rule, "$FG", "$1")
			} else {
				f.NationalPrefixFormattingRule = ""
			}
		}
		formatted = formatNsnUsingPattern(nsn, f, style, "")
	}
	formatted = appendExtension(n, region, style, formatted)
	return prefixWithCountryCode(cc, style, formatted)
}

// FormatNationalNumberWithCarrierCode formats n in national format, dialled
// through the given domestic carrier where the region supports that.
func (u *Util) FormatNationalNumberWithCarrierCode(n *PhoneNumber, carrierCode string) string {
	cc := int(n.GetCountryCode())
	nsn := GetNationalSignificantNumber(n)
	if !u.hasValidCountryCallingCode(cc) {
		return nsn
	}
	region := u.metadataForRegionOrCallingCode(cc, u.RegionCodeForCountryCode(cc))
	formatted := u.formatNsn(nsn, region, National, carrierCode)
	formatted = appendExtension(n, region, National, formatted)
	return prefixWithCountryCode(cc, National, formatted)
}

// FormatNationalNumberWithPreferredCarrierCode uses the carrier code recorded
// at parse time, or fallbackCarrierCode when there is none.
func (u *Util) FormatNationalNumberWithPreferredCarrierCode(n *PhoneNumber, fallbackCarrierCode string) string {
	carrierCode := fallbackCarrierCode
	if n.GetPreferredDomesticCarrierCode() != "" {
		carrierCode = n.GetPreferredDomesticCarrierCode()
	}
	return u.FormatNationalNumberWithCarrierCode(n, carrierCode)
}

// FormatOutOfCountryCallingNumber formats n the way it is dialled from
// regionCallingFrom, using that region's international prefix. Numbers in the
// same calling code are formatted nationally.
func (u *Util) FormatOutOfCountryCallingNumber(n *PhoneNumber, regionCallingFrom string) string {
	regionCallingFrom = canonicalRegion(regionCallingFrom)
	from := u.regionMetadata(regionCallingFrom)
	if from == nil {
		return u.Format(n, International)
	}
	cc := int(n.GetCountryCode())
	nsn := GetNationalSignificantNumber(n)
	if !u.hasValidCountryCallingCode(cc) {
		return nsn
	}
	if cc == nanpaCountryCode {
		if from.CountryCode == nanpaCountryCode {
			return strconv.Itoa(cc) + " " + u.Format(n, National)
		}
	} else if cc == from.CountryCode {
		return u.Format(n, National)
	}

	idd := ""
	if from.PreferredInternationalPrefix != "" {
		idd = from.PreferredInternationalPrefix
	} else if singleInternationalPrefix.MatchString(from.InternationalPrefixString()) {
		idd = from.InternationalPrefixString()
	}

	region := u.metadataForRegionOrCallingCode(cc, u.RegionCodeForCountryCode(cc))
	formatted := u.formatNsn(nsn, region, International, "")
	formatted = appendExtension(n, region, International, formatted)
	if idd != "" {
		return idd + " " + strconv.Itoa(cc) + " " + formatted
	}
	return prefixWithCountryCode(cc, International, formatted)
}

func prefixWithCountryCode(cc int, style PhoneNumberFormat, formatted string) string {
	switch style {
	case E164:
		return "+" + strconv.Itoa(cc) + formatted
	case International:
		return "+" + strconv.Itoa(cc) + " " + formatted
	case RFC3966:
		return rfc3966Prefix + "+" + strconv.Itoa(cc) + "-" + formatted
	}
	return formatted
}

func (u *Util) formatNsn(nsn string, region *metadata.Region, style PhoneNumberFormat, carrierCode string) string {
	if region == nil {
		return nsn
	}
	available := region.IntlNumberFormats
	if len(available) == 0 || style == National {
		available = region.NumberFormats
	}
	chosen := chooseFormattingPattern(available, nsn)
	if chosen == nil {
		return nsn
	}
	return formatNsnUsingPattern(nsn, chosen, style, carrierCode)
}

// chooseFormattingPattern returns the first rule whose last leading-digits
// pattern matches the start of nsn and whose pattern matches all of it.
func chooseFormattingPattern(formats []*metadata.NumberFormat, nsn string) *metadata.NumberFormat {
	for _, f := range formats {
		if size := len(f.LeadingDigitsPatterns); size > 0 && !f.LeadingDigitsPatterns[size-1].LookingAt(nsn) {
			continue
		}
		if f.Pattern.MatchString(nsn) {
			return f
		}
	}
	return nil
}

func formatNsnUsingPattern(nsn string, f *metadata.NumberFormat, style PhoneNumberFormat, carrierCode string) string {
	rule := f.Format
	switch {
	case style == National && carrierCode != "" && f.DomesticCarrierCodeFormattingRule != "":
		carrierRule := strings.ReplaceAll(f.DomesticCarrierCodeFormattingRule, "$CC", carrierCode)
		rule = replaceFirstGroup(rule, carrierRule)
	case style == National && f.NationalPrefixFormattingRule != "":
		rule = replaceFirstGroup(rule, f.NationalPrefixFormattingRule)
	}
	formatted := f.Pattern.ReplaceAllString(nsn, expandTemplate(rule))

	if style == RFC3966 {
		if loc := separatorPattern.FindStringIndex(formatted); loc != nil && loc[0] == 0 {
			formatted = formatted[loc[1]:]
		}
		formatted = separatorPattern.ReplaceAllString(formatted, "-")
	}
	return formatted
}

// replaceFirstGroup substitutes the first group reference of a format rule
// with replacement, in which "$1" stands for that group reference.
func replaceFirstGroup(rule, replacement string) string {
	loc := firstGroupPattern.FindStringIndex(rule)
	if loc == nil {
		return rule
	}
	group := rule[loc[0]:loc[1]]
	return rule[:loc[0]] + strings.ReplaceAll(replacement, "$1", group) + rule[loc[1]:]
}

func appendExtension(n *PhoneNumber, region *metadata.Region, style PhoneNumberFormat, formatted string) string {
	ext := n.GetExtension()
	if ext == "" {
		return formatted
	}
	switch {
	case style == RFC3966:
		return formatted + rfc3966ExtnPrefix + ext
	case region != nil && region.PreferredExtnPrefix != "":
		return formatted + region.PreferredExtnPrefix + ext
	}
	return formatted + defaultExtnPrefix + ext
}

// GetNddPrefixForRegion returns the national dialling prefix of region, or
// "" when it has none. With stripNonDigits the "~" pause marker is removed.
func (u *Util) GetNddPrefixForRegion(region string, stripNonDigits bool) string {
	meta := u.regionMetadata(canonicalRegion(region))
	if meta == nil || meta.NationalPrefix == "" {
		return ""
	}
	if stripNonDigits {
		return strings.ReplaceAll(meta.NationalPrefix, "~", "")
	}
	return meta.NationalPrefix
}
