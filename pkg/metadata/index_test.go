package metadata_test

import (
	"strconv"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/phonekit/pkg/metadata"
)

func TestIndex(t *testing.T) {
	idx := metadata.DefaultIndex()

	t.Run("main region comes first", func(t *testing.T) {
		assert.Equal(t, "US", idx.MainRegionForCode(1))
		assert.Equal(t, []string{"US", "BS", "CA"}, idx.RegionsForCode(1))
		assert.Equal(t, metadata.UnknownRegion, idx.MainRegionForCode(999))
	})

	t.Run("region to code", func(t *testing.T) {
		assert.Equal(t, 44, idx.CodeForRegion("GB"))
		assert.Equal(t, 1, idx.CodeForRegion("CA"))
		assert.Zero(t, idx.CodeForRegion("ZZ"))
		assert.Zero(t, idx.CodeForRegion(metadata.RegionCodeNonGeo))
	})

	t.Run("non-geographic codes", func(t *testing.T) {
		assert.True(t, idx.IsNonGeographical(800))
		assert.False(t, idx.IsNonGeographical(44))
		assert.Equal(t, []int{800}, idx.SupportedGlobalNetworkCallingCodes())
		assert.NotContains(t, idx.SupportedRegions(), metadata.RegionCodeNonGeo)
	})

	t.Run("listings are sorted copies", func(t *testing.T) {
		regions := idx.SupportedRegions()
		assert.IsIncreasing(t, regions)
		regions[0] = "mutated"
		assert.NotEqual(t, "mutated", idx.SupportedRegions()[0])
		assert.IsIncreasing(t, idx.SupportedCallingCodes())
	})
}

func regionFile(id string, code int, main bool) *fstest.MapFile {
	data := "id: '" + id + "'\ncountry_code: " + strconv.Itoa(code) + "\n"
	if main {
		data += "main_country_for_code: true\n"
	}
	return &fstest.MapFile{Data: []byte(data)}
}

func TestScanIndex(t *testing.T) {
	t.Run("builds the index from region files", func(t *testing.T) {
		fsys := fstest.MapFS{
			"CA.yaml":                   regionFile("CA", 1, false),
			"US.yaml":                   regionFile("US", 1, true),
			"BS.yaml":                   regionFile("BS", 1, false),
			"CN.yaml":                   regionFile("CN", 86, true),
			"800.yaml":                  regionFile("001", 800, false),
			"alternate_formats/86.yaml": {Data: []byte("country_code: 86\n")},
			"README.md":                 {Data: []byte("not metadata")},
		}

		idx, err := metadata.ScanIndex(fsys)

		require.NoError(t, err)
		assert.Equal(t, []string{"US", "BS", "CA"}, idx.RegionsForCode(1))
		assert.Equal(t, 86, idx.CodeForRegion("CN"))
		assert.True(t, idx.IsValidRegion("CN"))
		assert.True(t, idx.IsNonGeographical(800))
		assert.Equal(t, []int{1, 86, 800}, idx.SupportedCallingCodes())
	})

	t.Run("without a main region ids are sorted", func(t *testing.T) {
		idx, err := metadata.ScanIndex(fstest.MapFS{
			"KZ.yaml": regionFile("KZ", 7, false),
			"AB.yaml": regionFile("AB", 7, false),
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"AB", "KZ"}, idx.RegionsForCode(7))
	})

	t.Run("embedded data set", func(t *testing.T) {
		idx, err := metadata.ScanIndex(metadata.EmbeddedFS())

		require.NoError(t, err)
		assert.Equal(t, metadata.DefaultIndex().SupportedRegions(), idx.SupportedRegions())
		assert.Equal(t, []string{"AU", "BR", "BS", "CA", "DE", "FR", "GB", "IT", "US"}, idx.SupportedRegions())
	})

	errCases := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{"file named after another region", fstest.MapFS{"GB.yaml": regionFile("IE", 353, true)}, "must be named IE.yaml"},
		{"non-geographic file named by id", fstest.MapFS{"001.yaml": regionFile("001", 800, false)}, "must be named 800.yaml"},
		{"missing calling code", fstest.MapFS{"GB.yaml": {Data: []byte("id: GB\n")}}, "needs id and country_code"},
		{"two main regions", fstest.MapFS{
			"US.yaml": regionFile("US", 1, true),
			"CA.yaml": regionFile("CA", 1, true),
		}, "already the main region"},
		{"geographic and non-geographic share a code", fstest.MapFS{
			"XX.yaml":  regionFile("XX", 800, true),
			"800.yaml": regionFile("001", 800, false),
		}, "800"},
		{"malformed yaml", fstest.MapFS{"GB.yaml": {Data: []byte("id: [\n")}}, "GB.yaml"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := metadata.ScanIndex(tc.fsys)
			assert.ErrorContains(t, err, tc.want)
		})
	}

	t.Run("no region files", func(t *testing.T) {
		_, err := metadata.ScanIndex(fstest.MapFS{"README.md": {Data: []byte("x")}})
		assert.ErrorIs(t, err, metadata.ErrEmptyIndex)
	})
}

func TestPattern(t *testing.T) {
	p, err := metadata.CompilePattern(`\d{3}`)
	require.NoError(t, err)

	assert.True(t, p.MatchString("123"))
	assert.False(t, p.MatchString("1234"))
	assert.True(t, p.LookingAt("1234"))
	assert.False(t, p.LookingAt("a123"))

	found, ok := p.Find("ab123cd")
	assert.True(t, ok)
	assert.Equal(t, "123", found)

	partial := metadata.MustCompilePattern(`(\d{3})(\d{3})`)
	assert.Equal(t, "123 45678", partial.ReplaceAllString("12345678", "${1} ${2}"), "unmatched digits are kept")

	_, err = metadata.CompilePattern(`(`)
	assert.Error(t, err)

	var absent *metadata.Pattern
	assert.False(t, absent.MatchString("1"))
	assert.Empty(t, absent.String())
}
