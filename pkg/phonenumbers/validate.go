package phonenumbers

import (
	"slices"
	"strconv"
	"strings"

	"github.com/aelexs/phonekit/pkg/metadata"
)

// descForType returns the description of typ in region. Unknown maps to the
// general description, FixedLineOrMobile to the fixed-line one.
func descForType(region *metadata.Region, typ PhoneNumberType) *metadata.NumberDesc {
	switch typ {
	case PremiumRate:
		return region.PremiumRate
	case TollFree:
		return region.TollFree
	case Mobile:
		return region.Mobile
	case FixedLine, FixedLineOrMobile:
		return region.FixedLine
	case SharedCost:
		return region.SharedCost
	case VoIP:
		return region.VoIP
	case PersonalNumber:
		return region.PersonalNumber
	case Pager:
		return region.Pager
	case UAN:
		return region.UAN
	case Voicemail:
		return region.Voicemail
	default:
		return region.GeneralDesc
	}
}

// testNumberLength classifies the length of a national number against the
// possible lengths of typ in region.
func testNumberLength(number string, region *metadata.Region, typ PhoneNumberType) ValidationResult {
	desc := descForType(region, typ)
	if desc == nil {
		return InvalidLength
	}
	possible := desc.PossibleLengths
	if len(possible) == 0 {
		possible = region.GeneralDesc.PossibleLengths
	}
	local := desc.PossibleLengthsLocalOnly

	if typ == FixedLineOrMobile {
		if !region.FixedLine.HasPossibleNumberData() {
			return testNumberLength(number, region, Mobile)
		}
		mobile := region.Mobile
		if mobile.HasPossibleNumberData() {
			mobileLengths := mobile.PossibleLengths
			if len(mobileLengths) == 0 {
				mobileLengths = region.GeneralDesc.PossibleLengths
			}
			possible = slices.Concat(possible, mobileLengths)
			slices.Sort(possible)
			if len(local) == 0 {
				local = mobile.PossibleLengthsLocalOnly
			} else {
				local = slices.Concat(local, mobile.PossibleLengthsLocalOnly)
				slices.Sort(local)
			}
		}
	}

	if len(possible) == 0 || possible[0] == -1 {
		return InvalidLength
	}
	actual := len(number)
	if slices.Contains(local, actual) {
		return IsPossibleLocalOnly
	}
	minimum := possible[0]
	switch {
	case minimum == actual:
		return IsPossible
	case minimum > actual:
		return TooShort
	case possible[len(possible)-1] < actual:
		return TooLong
	}
	if slices.Contains(possible[1:], actual) {
		return IsPossible
	}
	return InvalidLength
}

// IsPossibleNumberWithReason checks only the length of n against its region.
// It is much faster than full validation.
func (u *Util) IsPossibleNumberWithReason(n *PhoneNumber) ValidationResult {
	return u.IsPossibleNumberForTypeWithReason(n, Unknown)
}

// IsPossibleNumberForTypeWithReason checks the length of n against the
// lengths possible for typ.
func (u *Util) IsPossibleNumberForTypeWithReason(n *PhoneNumber, typ PhoneNumberType) ValidationResult {
	nsn := GetNationalSignificantNumber(n)
	cc := int(n.GetCountryCode())
	if !u.hasValidCountryCallingCode(cc) {
		return InvalidCountryCode
	}
	region := u.metadataForRegionOrCallingCode(cc, u.RegionCodeForCountryCode(cc))
	if region == nil {
		return InvalidCountryCode
	}
	return testNumberLength(nsn, region, typ)
}

// IsPossibleNumber reports whether n has a possible length, including
// lengths only diallable locally.
func (u *Util) IsPossibleNumber(n *PhoneNumber) bool {
	r := u.IsPossibleNumberWithReason(n)
	return r == IsPossible || r == IsPossibleLocalOnly
}

// IsPossibleNumberForType is IsPossibleNumber restricted to one number type.
func (u *Util) IsPossibleNumberForType(n *PhoneNumber, typ PhoneNumberType) bool {
	r := u.IsPossibleNumberForTypeWithReason(n, typ)
	return r == IsPossible || r == IsPossibleLocalOnly
}

// GetNationalSignificantNumber returns the national significant number of n,
// with any significant leading zeros.
func GetNationalSignificantNumber(n *PhoneNumber) string {
	nn := strconv.FormatUint(n.GetNationalNumber(), 10)
	if n.ItalianLeadingZero && n.GetNumberOfLeadingZeros() > 0 {
		return strings.Repeat("0", int(n.GetNumberOfLeadingZeros())) + nn
	}
	return nn
}

// isNumberMatchingDesc checks the possible lengths before the pattern.
func isNumberMatchingDesc(nsn string, desc *metadata.NumberDesc) bool {
	if desc == nil {
		return false
	}
	if len(desc.PossibleLengths) > 0 && !slices.Contains(desc.PossibleLengths, len(nsn)) {
		return false
	}
	return desc.MatchesNationalNumber(nsn)
}

func numberTypeHelper(nsn string, region *metadata.Region) PhoneNumberType {
	if !isNumberMatchingDesc(nsn, region.GeneralDesc) {
		return Unknown
	}
	for _, t := range []struct {
		desc *metadata.NumberDesc
		typ  PhoneNumberType
	}{
		{region.PremiumRate, PremiumRate},
		{region.TollFree, TollFree},
		{region.SharedCost, SharedCost},
		{region.VoIP, VoIP},
		{region.PersonalNumber, PersonalNumber},
		{region.Pager, Pager},
		{region.UAN, UAN},
		{region.Voicemail, Voicemail},
	} {
		if isNumberMatchingDesc(nsn, t.desc) {
			return t.typ
		}
	}

	if isNumberMatchingDesc(nsn, region.FixedLine) {
		if region.SameMobileAndFixedLinePattern || isNumberMatchingDesc(nsn, region.Mobile) {
			return FixedLineOrMobile
		}
		return FixedLine
	}
	// Mobile is only tested separately when its pattern differs from the
	// fixed-line one.
	if !region.SameMobileAndFixedLinePattern && isNumberMatchingDesc(nsn, region.Mobile) {
		return Mobile
	}
	return Unknown
}

// GetNumberType classifies n. Numbers that are not valid are Unknown.
func (u *Util) GetNumberType(n *PhoneNumber) PhoneNumberType {
	region := u.metadataForRegionOrCallingCode(int(n.GetCountryCode()), u.GetRegionCodeForNumber(n))
	if region == nil {
		return Unknown
	}
	return numberTypeHelper(GetNationalSignificantNumber(n), region)
}

// IsValidNumber reports whether n matches a known pattern of its region. It
// does not check whether the number is in use.
func (u *Util) IsValidNumber(n *PhoneNumber) bool {
	return u.IsValidNumberForRegion(n, u.GetRegionCodeForNumber(n))
}

// IsValidNumberForRegion reports whether n is valid within region. A number
// valid in one region sharing a calling code is not valid in the others.
func (u *Util) IsValidNumberForRegion(n *PhoneNumber, region string) bool {
	region = canonicalRegion(region)
	cc := int(n.GetCountryCode())
	meta := u.metadataForRegionOrCallingCode(cc, region)
	if meta == nil {
		return false
	}
	if region != metadata.RegionCodeNonGeo && cc != u.index.CodeForRegion(region) {
		return false
	}
	return numberTypeHelper(GetNationalSignificantNumber(n), meta) != Unknown
}

// GetRegionCodeForNumber returns the region n belongs to, "001" for
// non-geographic entities, or "ZZ" when no region claims it.
func (u *Util) GetRegionCodeForNumber(n *PhoneNumber) string {
	regions := u.index.RegionsForCode(int(n.GetCountryCode()))
	switch len(regions) {
	case 0:
		return metadata.UnknownRegion
	case 1:
		return regions[0]
	}
	return u.regionCodeFromList(n, regions)
}

func (u *Util) regionCodeFromList(n *PhoneNumber, regions []string) string {
	nsn := GetNationalSignificantNumber(n)
	for _, code := range regions {
		region := u.regionMetadata(code)
		if region == nil {
			continue
		}
		if region.LeadingDigits != nil {
			if region.LeadingDigits.LookingAt(nsn) {
				return code
			}
		} else if numberTypeHelper(nsn, region) != Unknown {
			return code
		}
	}
	return metadata.UnknownRegion
}

// IsNumberGeographical reports whether n is tied to a location. Fixed-line
// numbers are, and so are mobile numbers in regions that assign mobile
// numbers geographically.
func (u *Util) IsNumberGeographical(n *PhoneNumber) bool {
	typ := u.GetNumberType(n)
	return typ == FixedLine || typ == FixedLineOrMobile ||
		(typ == Mobile && geoMobileCountries[int(n.GetCountryCode())])
}

// geoMobileCountries lists calling codes whose mobile numbers carry
// geographical information.
var geoMobileCountries = map[int]bool{
	52: true, // Mexico
	54: true, // Argentina
	55: true, // Brazil
	62: true, // Indonesia
	86: true, // China
}

// CanBeInternationallyDialled reports whether n can be dialled from abroad.
// Unknown numbers are assumed to be diallable.
func (u *Util) CanBeInternationallyDialled(n *PhoneNumber) bool {
	region := u.regionMetadata(u.GetRegionCodeForNumber(n))
	if region == nil {
		return true
	}
	return !isNumberMatchingDesc(GetNationalSignificantNumber(n), region.NoInternationalDialling)
}

// IsMobileNumberPortableRegion reports whether numbers keep their carrier
// independent type when ported within region.
func (u *Util) IsMobileNumberPortableRegion(region string) bool {
	meta := u.regionMetadata(canonicalRegion(region))
	return meta != nil && meta.MobileNumberPortable
}

// TruncateTooLongNumber drops trailing digits of n until it is valid, and
// reports whether that worked. n is left unchanged on failure.
func (u *Util) TruncateTooLongNumber(n *PhoneNumber) bool {
	if u.IsValidNumber(n) {
		return true
	}
	trial := n.Clone()
	nn := n.NationalNumber
	for {
		nn /= 10
		trial.NationalNumber = nn
		if nn == 0 || u.IsPossibleNumberWithReason(trial) == TooShort {
			return false
		}
		if u.IsValidNumber(trial) {
			n.NationalNumber = nn
			return true
		}
	}
}
