package metadata

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

const (
	// RegionCodeNonGeo is the region code of non-geographic entities such as
	// the universal international freephone service (+800).
	RegionCodeNonGeo = "001"
	// UnknownRegion means "not specified"; numbers must then start with a plus sign.
	UnknownRegion = "ZZ"
)

// Index is the static, bidirectional mapping between country calling codes
// and region codes. The first region listed for a code is its main region.
// An Index is immutable and safe for concurrent use.
type Index struct {
	byCode   map[int][]string
	byRegion map[string]int
	nonGeo   map[int]bool
	regions  []string
	codes    []int
}

// NewIndex builds an Index from a calling code -> regions table.
func NewIndex(table map[int][]string) *Index {
	idx := &Index{
		byCode:   make(map[int][]string, len(table)),
		byRegion: make(map[string]int),
		nonGeo:   make(map[int]bool),
	}
	for code, regions := range table {
		idx.byCode[code] = slices.Clone(regions)
		idx.codes = append(idx.codes, code)
		for _, r := range regions {
			if r == RegionCodeNonGeo {
				idx.nonGeo[code] = true
				continue
			}
			idx.byRegion[r] = code
			idx.regions = append(idx.regions, r)
		}
	}
	sort.Ints(idx.codes)
	sort.Strings(idx.regions)
	return idx
}

// RegionsForCode returns the regions sharing code, main region first.
func (idx *Index) RegionsForCode(code int) []string {
	return idx.byCode[code]
}

// MainRegionForCode returns the main region for code, or UnknownRegion.
func (idx *Index) MainRegionForCode(code int) string {
	regions := idx.byCode[code]
	if len(regions) == 0 {
		return UnknownRegion
	}
	return regions[0]
}

// CodeForRegion returns the calling code of region, or 0 if region is unknown.
func (idx *Index) CodeForRegion(region string) int {
	return idx.byRegion[region]
}

// HasCode reports whether code is an assigned calling code.
func (idx *Index) HasCode(code int) bool {
	_, ok := idx.byCode[code]
	return ok
}

// IsValidRegion reports whether region is a known geographic region code.
func (idx *Index) IsValidRegion(region string) bool {
	_, ok := idx.byRegion[region]
	return ok
}

// IsNonGeographical reports whether code belongs to a non-geographic entity.
func (idx *Index) IsNonGeographical(code int) bool {
	return idx.nonGeo[code]
}

// SupportedRegions returns all geographic region codes, sorted.
func (idx *Index) SupportedRegions() []string {
	return slices.Clone(idx.regions)
}

// SupportedCallingCodes returns every calling code, sorted.
func (idx *Index) SupportedCallingCodes() []int {
	return slices.Clone(idx.codes)
}

// SupportedGlobalNetworkCallingCodes returns the non-geographic calling codes, sorted.
func (idx *Index) SupportedGlobalNetworkCallingCodes() []int {
	var codes []int
	for _, c := range idx.codes {
		if idx.nonGeo[c] {
			codes = append(codes, c)
		}
	}
	return codes
}

var (
	defaultIndexOnce sync.Once
	defaultIndex     *Index
)

// DefaultIndex returns the Index of the embedded data set.
func DefaultIndex() *Index {
	defaultIndexOnce.Do(func() {
		idx, err := ScanIndex(EmbeddedFS())
		if err != nil {
			panic(fmt.Sprintf("metadata: embedded data set: %v", err))
		}
		defaultIndex = idx
	})
	return defaultIndex
}
