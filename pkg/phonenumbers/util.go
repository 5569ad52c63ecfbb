package phonenumbers

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/aelexs/phonekit/pkg/metadata"
)

// Util is the entry point of the engine. It binds a metadata provider to the
// calling-code index describing what that provider serves. A Util is safe for
// concurrent use.
type Util struct {
	provider metadata.Provider
	index    *metadata.Index

	regexCache sync.Map // expression -> *regexp.Regexp
}

// New returns a Util reading metadata from provider for the regions in idx.
func New(provider metadata.Provider, idx *metadata.Index) *Util {
	return &Util{provider: provider, index: idx}
}

var defaultUtil = sync.OnceValue(func() *Util {
	p := metadata.Embedded()
	return New(p, p.Index())
})

// Default returns the process-wide Util over the embedded metadata.
func Default() *Util { return defaultUtil() }

// Index returns the calling-code index of u.
func (u *Util) Index() *metadata.Index { return u.index }

// SupportedRegions returns every geographic region code with metadata.
func (u *Util) SupportedRegions() []string { return u.index.SupportedRegions() }

// SupportedCallingCodes returns every calling code with metadata.
func (u *Util) SupportedCallingCodes() []int { return u.index.SupportedCallingCodes() }

// SupportedGlobalNetworkCallingCodes returns the calling codes of non-geographic entities.
func (u *Util) SupportedGlobalNetworkCallingCodes() []int {
	return u.index.SupportedGlobalNetworkCallingCodes()
}

// CountryCodeForRegion returns the calling code of region, or 0 if region is unknown.
func (u *Util) CountryCodeForRegion(region string) int {
	return u.index.CodeForRegion(canonicalRegion(region))
}

// RegionCodeForCountryCode returns the main region of a calling code, "001"
// for non-geographic entities, or "ZZ" when the code is not assigned.
func (u *Util) RegionCodeForCountryCode(countryCode int) string {
	return u.index.MainRegionForCode(countryCode)
}

// RegionCodesForCountryCode returns all regions sharing a calling code.
func (u *Util) RegionCodesForCountryCode(countryCode int) []string {
	return append([]string(nil), u.index.RegionsForCode(countryCode)...)
}

// IsValidRegion reports whether region is a supported geographic region.
func (u *Util) IsValidRegion(region string) bool {
	return u.index.IsValidRegion(canonicalRegion(region))
}

// canonicalRegion upper-cases region codes and resolves aliases such as
// three-letter ISO codes. The empty string means "unknown".
func canonicalRegion(region string) string {
	if region == "" {
		return metadata.UnknownRegion
	}
	if region == metadata.RegionCodeNonGeo {
		return region
	}
	r, err := language.ParseRegion(region)
	if err != nil {
		return strings.ToUpper(region)
	}
	return r.String()
}

// regionMetadata returns the metadata of a geographic region or nil when the
// region is unknown.
func (u *Util) regionMetadata(region string) *metadata.Region {
	if !u.index.IsValidRegion(region) {
		return nil
	}
	r, err := u.provider.Region(region)
	if err != nil {
		panic(missingMetadata(region, err))
	}
	return r
}

func (u *Util) nonGeoMetadata(countryCode int) *metadata.Region {
	if !u.index.IsNonGeographical(countryCode) {
		return nil
	}
	r, err := u.provider.NonGeographicalRegion(countryCode)
	if err != nil {
		panic(missingMetadata(metadata.RegionCodeNonGeo, err))
	}
	return r
}

func (u *Util) metadataForRegionOrCallingCode(countryCode int, region string) *metadata.Region {
	if region == metadata.RegionCodeNonGeo {
		return u.nonGeoMetadata(countryCode)
	}
	return u.regionMetadata(region)
}

func (u *Util) alternateFormats(countryCode int) []*metadata.NumberFormat {
	formats, err := u.provider.AlternateFormats(countryCode)
	if err != nil {
		panic(missingMetadata("alternate formats", err))
	}
	return formats
}

func missingMetadata(key string, err error) error {
	var mm *metadata.MissingMetadataError
	if errors.As(err, &mm) {
		return mm
	}
	return &metadata.MissingMetadataError{Key: key, Err: err}
}

func (u *Util) hasValidCountryCallingCode(countryCode int) bool {
	return u.index.HasCode(countryCode)
}

// compile returns the cached compiled form of a dynamic expression.
func (u *Util) compile(expr string) *regexp.Regexp {
	if re, ok := u.regexCache.Load(expr); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(expr)
	actual, _ := u.regexCache.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp)
}

// expandTemplate rewrites a "$1"-style template into Go's "${1}" syntax so
// that a group reference is never read together with a following literal.
func expandTemplate(template string) string {
	if !strings.Contains(template, "$") {
		return template
	}
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c == '$' && i+1 < len(template) && template[i+1] >= '0' && template[i+1] <= '9' {
			b.WriteString("${")
			b.WriteByte(template[i+1])
			b.WriteByte('}')
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
