package phonenumbers

import (
	"strconv"

	"github.com/aelexs/phonekit/pkg/metadata"
)

// ExampleNumber returns a valid fixed-line number for region, or nil when
// the region is unknown or has no example.
func (u *Util) ExampleNumber(region string) *PhoneNumber {
	return u.ExampleNumberForType(region, FixedLine)
}

// ExampleNumberForType returns a valid number of typ for region, or nil.
func (u *Util) ExampleNumberForType(region string, typ PhoneNumberType) *PhoneNumber {
	region = canonicalRegion(region)
	meta := u.regionMetadata(region)
	if meta == nil {
		return nil
	}
	desc := descForType(meta, typ)
	if desc == nil || desc.ExampleNumber == "" {
		return nil
	}
	n, err := u.Parse(desc.ExampleNumber, region)
	if err != nil {
		return nil
	}
	return n
}

// ExampleNumberForNonGeoEntity returns a valid number for a non-geographic
// calling code such as 800, or nil.
func (u *Util) ExampleNumberForNonGeoEntity(countryCode int) *PhoneNumber {
	meta := u.nonGeoMetadata(countryCode)
	if meta == nil {
		return nil
	}
	for _, desc := range []*metadata.NumberDesc{
		meta.Mobile, meta.TollFree, meta.SharedCost, meta.VoIP,
		meta.Voicemail, meta.UAN, meta.PremiumRate,
	} {
		if desc == nil || desc.ExampleNumber == "" {
			continue
		}
		n, err := u.Parse("+"+strconv.Itoa(countryCode)+desc.ExampleNumber, metadata.UnknownRegion)
		if err == nil {
			return n
		}
	}
	return nil
}
