package phonenumbers_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aelexs/phonekit/pkg/phonenumbers"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func usNumber() *phonenumbers.PhoneNumber {
	return &phonenumbers.PhoneNumber{CountryCode: 1, NationalNumber: 6502530000}
}

func TestParse(t *testing.T) {
	t.Run("national format with default region", func(t *testing.T) {
		n, err := phonenumbers.Parse("650-253-0000", "US")
		require.NoError(t, err)
		assert.Equal(t, usNumber(), n)
	})

	t.Run("international format without region", func(t *testing.T) {
		for _, in := range []string{"+1 650 253 0000", "+1 (650) 253-0000", "＋１ ６５０ ２５３ ００００"} {
			n, err := phonenumbers.Parse(in, "ZZ")
			require.NoError(t, err, in)
			assert.Equal(t, usNumber(), n, in)
		}
	})

	t.Run("region code is case insensitive", func(t *testing.T) {
		n, err := phonenumbers.Parse("650-253-0000", "us")
		require.NoError(t, err)
		assert.Equal(t, usNumber(), n)
	})

	t.Run("international prefix of the default region", func(t *testing.T) {
		n, err := phonenumbers.Parse("011 44 121 234 5678", "US")
		require.NoError(t, err)
		assert.Equal(t, int32(44), n.CountryCode)
		assert.Equal(t, uint64(1212345678), n.NationalNumber)
	})

	t.Run("national prefix is stripped", func(t *testing.T) {
		n, err := phonenumbers.Parse("0121 234 5678", "GB")
		require.NoError(t, err)
		assert.Equal(t, uint64(1212345678), n.NationalNumber)

		n, err = phonenumbers.Parse("1 650 253 0000", "US")
		require.NoError(t, err)
		assert.Equal(t, usNumber(), n)
	})

	t.Run("rfc3966 with phone-context", func(t *testing.T) {
		n, err := phonenumbers.Parse("tel:253-0000;phone-context=+1-650", "ZZ")
		require.NoError(t, err)
		assert.Equal(t, usNumber(), n)

		_, err = phonenumbers.Parse("tel:253-0000;phone-context=", "US")
		assert.ErrorIs(t, err, phonenumbers.ErrNotANumber)
	})

	t.Run("extensions", func(t *testing.T) {
		cases := map[string]string{
			"650 253 0000 ext. 1234":      "1234",
			"650 253 0000 x 1234":         "1234",
			"650-253-0000 extension 12":   "12",
			"tel:+1-650-253-0000;ext=123": "123",
			"650-253-0000":                "",
		}
		for in, ext := range cases {
			n, err := phonenumbers.Parse(in, "US")
			require.NoError(t, err, in)
			assert.Equal(t, uint64(6502530000), n.NationalNumber, in)
			assert.Equal(t, ext, n.GetExtension(), in)
		}
	})

	t.Run("vanity numbers", func(t *testing.T) {
		n, err := phonenumbers.Parse("1-800-FLOWERS", "US")
		require.NoError(t, err)
		assert.Equal(t, uint64(8003569377), n.NationalNumber)
		assert.True(t, phonenumbers.IsValidNumber(n))
	})

	t.Run("italian leading zero", func(t *testing.T) {
		n, err := phonenumbers.Parse("02 1234 5678", "IT")
		require.NoError(t, err)
		assert.True(t, n.ItalianLeadingZero)
		assert.Equal(t, uint64(212345678), n.NationalNumber)
		assert.Equal(t, int32(1), n.GetNumberOfLeadingZeros())
		assert.False(t, n.HasNumberOfLeadingZeros())
		assert.Equal(t, "0212345678", phonenumbers.GetNationalSignificantNumber(n))
	})

	t.Run("carrier code is kept with raw input", func(t *testing.T) {
		n, err := phonenumbers.ParseAndKeepRawInput("0 21 11 2345-6789", "BR")
		require.NoError(t, err)
		assert.Equal(t, int32(55), n.CountryCode)
		assert.Equal(t, uint64(1123456789), n.NationalNumber)
		assert.Equal(t, "21", n.GetPreferredDomesticCarrierCode())
		assert.Equal(t, "0 21 11 2345-6789", n.GetRawInput())
		assert.Equal(t, phonenumbers.FromDefaultCountry, n.CountryCodeSource)

		plain, err := phonenumbers.Parse("0 21 11 2345-6789", "BR")
		require.NoError(t, err)
		assert.False(t, plain.HasPreferredDomesticCarrierCode())
		assert.False(t, plain.HasRawInput())
	})

	t.Run("country code source", func(t *testing.T) {
		cases := map[string]phonenumbers.CountryCodeSource{
			"+1 650 253 0000":    phonenumbers.FromNumberWithPlusSign,
			"011 1 650 253 0000": phonenumbers.FromNumberWithIDD,
			"1 650 253 0000":     phonenumbers.FromNumberWithoutPlusSign,
			"650 253 0000":       phonenumbers.FromDefaultCountry,
		}
		for in, want := range cases {
			n, err := phonenumbers.ParseAndKeepRawInput(in, "US")
			require.NoError(t, err, in)
			assert.Equal(t, want, n.CountryCodeSource, in)
			assert.Equal(t, uint64(6502530000), n.NationalNumber, in)
		}
	})

	t.Run("non-geographic entity", func(t *testing.T) {
		n, err := phonenumbers.Parse("+800 1234 5678", "ZZ")
		require.NoError(t, err)
		assert.Equal(t, int32(800), n.CountryCode)
		assert.Equal(t, uint64(12345678), n.NationalNumber)
		assert.Equal(t, "001", phonenumbers.GetRegionCodeForNumber(n))
	})
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		region string
		want   error
	}{
		{"empty", "", "US", phonenumbers.ErrNotANumber},
		{"no digits", "This is not a phone number", "US", phonenumbers.ErrNotANumber},
		{"no region and no plus", "650-253-0000", "ZZ", phonenumbers.ErrInvalidCountryCode},
		{"unknown region", "650-253-0000", "", phonenumbers.ErrInvalidCountryCode},
		{"unassigned calling code", "+0123456789", "ZZ", phonenumbers.ErrInvalidCountryCode},
		{"nothing after idd", "0044", "GB", phonenumbers.ErrTooShortAfterIDD},
		{"national number too short", "+49 0", "DE", phonenumbers.ErrTooShortNSN},
		{"national number too long", "+44 1234567890123456789", "ZZ", phonenumbers.ErrTooLong},
		{"input too long", "+1 " + strings.Repeat("1", 250), "ZZ", phonenumbers.ErrTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := phonenumbers.Parse(tc.input, tc.region)
			require.Error(t, err)
			assert.Nil(t, n)
			assert.ErrorIs(t, err, tc.want)

			var pe *phonenumbers.ParseError
			require.ErrorAs(t, err, &pe)
			assert.NotEmpty(t, pe.Error())
		})
	}
}
