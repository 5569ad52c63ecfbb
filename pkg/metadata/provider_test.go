package metadata_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aelexs/phonekit/pkg/metadata"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testRegionYAML = `
id: XX
country_code: 999
international_prefix: '00'
national_prefix: '0'
national_prefix_formatting_rule: '$NP$FG'
general_desc:
  pattern: '[1-9]\d{7}'
  possible_lengths: [8]
fixed_line:
  pattern: '[1-5]\d{7}'
  example: '12345678'
formats:
  - pattern: '(\d{4})(\d{4})'
    format: '$1 $2'
    intl_format: '$1-$2'
    leading_digits: ['[1-9]']
`

func testIndex() *metadata.Index {
	return metadata.NewIndex(map[int][]string{
		999: {"XX", "XY"},
		888: {metadata.RegionCodeNonGeo},
	})
}

func TestFSProvider(t *testing.T) {
	t.Run("loads and compiles a region", func(t *testing.T) {
		fsys := fstest.MapFS{"XX.yaml": {Data: []byte(testRegionYAML)}}
		p := metadata.NewFSProvider(fsys, testIndex())

		r, err := p.Region("XX")
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Equal(t, 999, r.CountryCode)
		assert.Equal(t, "00", r.InternationalPrefixString())
		assert.True(t, r.HasNationalPrefixForParsing())
		require.Len(t, r.NumberFormats, 1)
		assert.Equal(t, "0$1", r.NumberFormats[0].NationalPrefixFormattingRule)
		require.Len(t, r.IntlNumberFormats, 1)
		assert.Equal(t, "$1-$2", r.IntlNumberFormats[0].Format)
		assert.True(t, r.FixedLine.MatchesNationalNumber("12345678"))
		assert.False(t, r.Mobile.HasPossibleNumberData())
	})

	t.Run("unknown region is not an error", func(t *testing.T) {
		p := metadata.NewFSProvider(fstest.MapFS{}, testIndex())

		r, err := p.Region("QQ")
		require.NoError(t, err)
		assert.Nil(t, r)

		r, err = p.NonGeographicalRegion(999)
		require.NoError(t, err)
		assert.Nil(t, r)
	})

	t.Run("known region without data is missing metadata", func(t *testing.T) {
		p := metadata.NewFSProvider(fstest.MapFS{}, testIndex())

		_, err := p.Region("XY")
		require.Error(t, err)
		assert.ErrorIs(t, err, metadata.ErrMissingMetadata)
		var mm *metadata.MissingMetadataError
		require.ErrorAs(t, err, &mm)
		assert.Equal(t, "region:XY", mm.Key)

		_, err = p.NonGeographicalRegion(888)
		assert.ErrorIs(t, err, metadata.ErrMissingMetadata)
	})

	t.Run("absent alternate formats are empty", func(t *testing.T) {
		p := metadata.NewFSProvider(fstest.MapFS{}, testIndex())

		formats, err := p.AlternateFormats(999)
		require.NoError(t, err)
		assert.Empty(t, formats)
	})

	t.Run("malformed data is reported", func(t *testing.T) {
		fsys := fstest.MapFS{"XX.yaml": {Data: []byte("id: XX\ncountry_code: 999\nunknown_field: 1\n")}}
		p := metadata.NewFSProvider(fsys, testIndex())

		_, err := p.Region("XX")
		require.Error(t, err)
		assert.NotErrorIs(t, err, metadata.ErrMissingMetadata)
	})

	t.Run("concurrent callers share one load", func(t *testing.T) {
		fsys := fstest.MapFS{"XX.yaml": {Data: []byte(testRegionYAML)}}
		var loads atomic.Int32
		p := metadata.NewFSProvider(fsys, testIndex(), metadata.WithLoadHook(func(string) {
			loads.Add(1)
		}))

		var wg sync.WaitGroup
		results := make([]*metadata.Region, 32)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r, err := p.Region("XX")
				assert.NoError(t, err)
				results[i] = r
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), loads.Load())
		for _, r := range results {
			assert.Same(t, results[0], r)
		}
	})
}

func TestEmbedded(t *testing.T) {
	p := metadata.Embedded()
	idx := p.Index()

	for _, region := range idx.SupportedRegions() {
		r, err := p.Region(region)
		require.NoError(t, err, region)
		require.NotNil(t, r, region)
		assert.Equal(t, region, r.ID)
		assert.Equal(t, idx.CodeForRegion(region), r.CountryCode, region)
	}
	for _, code := range idx.SupportedGlobalNetworkCallingCodes() {
		r, err := p.NonGeographicalRegion(code)
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Equal(t, code, r.CountryCode)
	}

	formats, err := p.AlternateFormats(49)
	require.NoError(t, err)
	assert.NotEmpty(t, formats)
}
