package phonenumbers_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/phonekit/pkg/phonenumbers"
)

func findAll(text, region string, leniency phonenumbers.Leniency) []*phonenumbers.Match {
	return phonenumbers.Default().FindNumbersWithLeniency(text, region, leniency, math.MaxInt).FindAll()
}

func TestFindNumbers(t *testing.T) {
	t.Run("single number", func(t *testing.T) {
		matches := phonenumbers.FindNumbers("Call 650-253-0000 today", "US").FindAll()
		require.Len(t, matches, 1)
		m := matches[0]
		assert.Equal(t, 5, m.Start)
		assert.Equal(t, 17, m.End())
		assert.Equal(t, "650-253-0000", m.RawString)
		assert.Equal(t, usNumber(), m.Number)
	})

	t.Run("several numbers", func(t *testing.T) {
		matches := phonenumbers.FindNumbers("Call 650-253-0000 or +44 121 234 5678.", "US").FindAll()
		require.Len(t, matches, 2)
		assert.Equal(t, 21, matches[1].Start)
		assert.Equal(t, "+44 121 234 5678", matches[1].RawString)
		assert.Equal(t, int32(44), matches[1].Number.CountryCode)
	})

	t.Run("matched numbers drop parse details", func(t *testing.T) {
		matches := phonenumbers.FindNumbers("Call +1 650-253-0000", "GB").FindAll()
		require.Len(t, matches, 1)
		n := matches[0].Number
		assert.Equal(t, phonenumbers.CountryCodeSourceUnspecified, n.CountryCodeSource)
		assert.False(t, n.HasRawInput())
	})

	t.Run("timestamps are not numbers", func(t *testing.T) {
		assert.Empty(t, findAll("2012-01-02 08:00", "US", phonenumbers.Possible))
	})

	t.Run("numbers glued to words", func(t *testing.T) {
		assert.Empty(t, findAll("abc650-253-0000", "US", phonenumbers.Valid))
		assert.Empty(t, findAll("$650-253-0000", "US", phonenumbers.Valid))
		assert.Len(t, findAll("abc650-253-0000", "US", phonenumbers.Possible), 1)
	})

	t.Run("strict grouping rejects split groups", func(t *testing.T) {
		assert.Empty(t, findAll("Call 6502 530 000", "US", phonenumbers.StrictGrouping))
		assert.Len(t, findAll("Call 6502 530 000", "US", phonenumbers.Valid), 1)
	})

	t.Run("exact grouping accepts alternate formats", func(t *testing.T) {
		matches := findAll("Ruf 030 123 456 an", "DE", phonenumbers.ExactGrouping)
		require.Len(t, matches, 1)
		assert.Equal(t, 4, matches[0].Start)
		assert.Equal(t, "030 123 456", matches[0].RawString)
	})

	t.Run("no tries left", func(t *testing.T) {
		m := phonenumbers.Default().FindNumbersWithLeniency("Call 650-253-0000", "US", phonenumbers.Valid, 0)
		assert.False(t, m.HasNext())

		m = phonenumbers.Default().FindNumbersWithLeniency("Call 650-253-0000", "US", phonenumbers.Valid, -5)
		assert.False(t, m.HasNext())
	})

	t.Run("has next is idempotent", func(t *testing.T) {
		m := phonenumbers.FindNumbers("Call 650-253-0000 today", "US")
		assert.True(t, m.HasNext())
		assert.True(t, m.HasNext())

		first, ok := m.Next()
		require.True(t, ok)
		assert.Equal(t, 5, first.Start)

		assert.False(t, m.HasNext())
		_, ok = m.Next()
		assert.False(t, ok)
	})

	t.Run("text without numbers", func(t *testing.T) {
		assert.Empty(t, phonenumbers.FindNumbers("", "US").FindAll())
		assert.Empty(t, phonenumbers.FindNumbers("nothing to see here", "US").FindAll())
	})
}

func TestLeniency(t *testing.T) {
	for _, l := range []phonenumbers.Leniency{
		phonenumbers.Possible, phonenumbers.Valid, phonenumbers.StrictGrouping, phonenumbers.ExactGrouping,
	} {
		parsed, err := phonenumbers.ParseLeniency(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}

	got, err := phonenumbers.ParseLeniency("strict_grouping")
	require.NoError(t, err)
	assert.Equal(t, phonenumbers.StrictGrouping, got)

	_, err = phonenumbers.ParseLeniency("loose")
	assert.Error(t, err)
}
