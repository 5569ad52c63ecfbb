package phonenumbers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/phonekit/pkg/phonenumbers"
)

func typeAll(f *phonenumbers.AsYouTypeFormatter, input string) []string {
	var out []string
	for _, r := range input {
		out = append(out, f.InputDigit(r))
	}
	return out
}

func TestAsYouTypeFormatter(t *testing.T) {
	t.Run("national us number", func(t *testing.T) {
		f := phonenumbers.NewAsYouTypeFormatter("US")
		assert.Equal(t, []string{
			"6", "65", "650", "650-2", "650-25", "650-253", "650-2530",
			"(650) 253-00", "(650) 253-000", "(650) 253-0000",
		}, typeAll(f, "6502530000"))
	})

	t.Run("international us number", func(t *testing.T) {
		f := phonenumbers.NewAsYouTypeFormatter("US")
		assert.Equal(t, []string{
			"+", "+1", "+1 6", "+1 65", "+1 650", "+1 650-2", "+1 650-25", "+1 650-253",
			"+1 650-253-0", "+1 650-253-00", "+1 650-253-000", "+1 650-253-0000",
		}, typeAll(f, "+16502530000"))
	})

	t.Run("international prefix is kept apart", func(t *testing.T) {
		f := phonenumbers.NewAsYouTypeFormatter("US")
		got := typeAll(f, "011447400123456")
		require.Len(t, got, 15)
		assert.Equal(t, []string{"0", "01", "011 ", "011 4", "011 44 ", "011 44 7", "011 44 74", "011 44 740"}, got[:8])
		assert.Equal(t, "011 44 7400 123456", got[14])
	})

	t.Run("typed formatting is echoed", func(t *testing.T) {
		f := phonenumbers.NewAsYouTypeFormatter("US")
		got := typeAll(f, "650-2530")
		assert.Equal(t, "650-2530", got[len(got)-1])
	})

	t.Run("remembered position follows reformatting", func(t *testing.T) {
		f := phonenumbers.NewAsYouTypeFormatter("US")
		typeAll(f, "650")
		assert.Equal(t, "650-2", f.InputDigitAndRememberPosition('2'))
		assert.Equal(t, 5, f.RememberedPosition())

		got := typeAll(f, "530000")
		assert.Equal(t, "(650) 253-0000", got[len(got)-1])
		assert.Equal(t, 7, f.RememberedPosition())
	})

	t.Run("clear starts over", func(t *testing.T) {
		f := phonenumbers.NewAsYouTypeFormatter("US")
		typeAll(f, "+4412")
		f.Clear()
		assert.Equal(t, 0, f.RememberedPosition())
		assert.Equal(t, []string{"6", "65", "650"}, typeAll(f, "650"))
	})

	t.Run("unknown region still accepts international input", func(t *testing.T) {
		f := phonenumbers.NewAsYouTypeFormatter("ZZ")
		got := typeAll(f, "+16502530000")
		assert.Equal(t, "+1 650-253-0000", got[len(got)-1])
	})

	t.Run("fullwidth digits are normalized", func(t *testing.T) {
		f := phonenumbers.NewAsYouTypeFormatter("US")
		got := typeAll(f, "６５０２５３００００")
		assert.Equal(t, "(650) 253-0000", got[len(got)-1])
	})
}
