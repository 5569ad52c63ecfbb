package lookup_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aelexs/phonekit/internal/domain"
	"github.com/aelexs/phonekit/internal/domain/domaintest"
	"github.com/aelexs/phonekit/internal/lookup"
	"github.com/aelexs/phonekit/pkg/api"
	"github.com/aelexs/phonekit/pkg/phonenumbers"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newService(t *testing.T) *lookup.Service {
	t.Helper()
	return lookup.NewService(lookup.Config{
		DefaultRegion: "US",
		Leniency:      phonenumbers.Valid,
		MaxTries:      domain.MaxFindTries,
		Logger:        slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
}

func TestService_Parse(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	t.Run("national number with default region", func(t *testing.T) {
		info, err := svc.Parse(ctx, "(650) 253-0000", "")

		require.NoError(t, err)
		assert.Equal(t, api.NumberInfo{
			CountryCode:    1,
			NationalNumber: 6502530000,
			E164:           "+16502530000",
			International:  "+1 650-253-0000",
			National:       "(650) 253-0000",
			RFC3966:        "tel:+1-650-253-0000",
			Region:         "US",
			Type:           "FIXED_LINE_OR_MOBILE",
			Valid:          true,
			Possible:       true,
			Possibility:    "IS_POSSIBLE",
			Geographical:   true,
		}, *info)
	})

	t.Run("explicit region overrides the default", func(t *testing.T) {
		info, err := svc.Parse(ctx, "07400 123456", "gb")

		require.NoError(t, err)
		assert.Equal(t, "+447400123456", info.E164)
		assert.Equal(t, "GB", info.Region)
		assert.Equal(t, "MOBILE", info.Type)
		assert.False(t, info.Geographical)
	})

	t.Run("extension is reported", func(t *testing.T) {
		info, err := svc.Parse(ctx, "650 253 0000 ext 1234", "US")

		require.NoError(t, err)
		assert.Equal(t, "1234", info.Extension)
		assert.Equal(t, "(650) 253-0000 ext. 1234", info.National)
	})

	t.Run("empty number", func(t *testing.T) {
		_, err := svc.Parse(ctx, "  ", "US")
		assert.ErrorIs(t, err, domain.ErrInvalidPhoneNumber)
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := svc.Parse(ctx, "hello", "US")
		assert.ErrorIs(t, err, phonenumbers.ErrNotANumber)
	})

	t.Run("no region and no country code", func(t *testing.T) {
		_, err := svc.Parse(ctx, "650 253 0000", "ZZ")
		assert.ErrorIs(t, err, phonenumbers.ErrInvalidCountryCode)
	})
}

func TestService_SlowLookupIsLogged(t *testing.T) {
	var buf bytes.Buffer
	svc := lookup.NewService(lookup.Config{
		DefaultRegion: "US",
		Clock:         domaintest.NewSteppingClock(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC), time.Second),
		Logger:        slog.New(slog.NewTextHandler(&buf, nil)),
	})

	_, err := svc.Parse(context.Background(), "650 253 0000", "")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "slow lookup")
	assert.Contains(t, buf.String(), "op=parse")
}

func TestService_Format(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		style     string
		from      string
		wantStyle string
		want      string
	}{
		{"default style", "", "", "INTERNATIONAL", "+1 650-253-0000"},
		{"e164 any case", "e164", "", "E164", "+16502530000"},
		{"national", "NATIONAL", "", "NATIONAL", "(650) 253-0000"},
		{"rfc3966", "rfc3966", "", "RFC3966", "tel:+1-650-253-0000"},
		{"out of country", "", "gb", "OUT_OF_COUNTRY", "00 1 650-253-0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Format(ctx, "650-253-0000", "US", tt.style, tt.from)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStyle, resp.Style)
			assert.Equal(t, tt.want, resp.Formatted)
		})
	}

	t.Run("unknown style", func(t *testing.T) {
		_, err := svc.Format(ctx, "650-253-0000", "US", "fancy", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("parse failure", func(t *testing.T) {
		_, err := svc.Format(ctx, "hello", "US", "E164", "")
		assert.ErrorIs(t, err, phonenumbers.ErrNotANumber)
	})
}

func TestService_Find(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	t.Run("finds every number", func(t *testing.T) {
		resp, err := svc.Find(ctx, api.FindRequest{Text: "Call 650-253-0000 or +44 121 234 5678."})

		require.NoError(t, err)
		assert.Equal(t, "VALID", resp.Leniency)
		require.Len(t, resp.Matches, 2)
		assert.Equal(t, api.FoundNumber{Start: 5, End: 17, Raw: "650-253-0000", E164: "+16502530000", Region: "US"}, resp.Matches[0])
		assert.Equal(t, "+441212345678", resp.Matches[1].E164)
		assert.Equal(t, "GB", resp.Matches[1].Region)
	})

	t.Run("timestamps are not numbers", func(t *testing.T) {
		resp, err := svc.Find(ctx, api.FindRequest{Text: "2012-01-02 08:00", Leniency: "possible"})

		require.NoError(t, err)
		assert.Equal(t, "POSSIBLE", resp.Leniency)
		assert.NotNil(t, resp.Matches)
		assert.Empty(t, resp.Matches)
	})

	t.Run("zero tries", func(t *testing.T) {
		zero := 0
		resp, err := svc.Find(ctx, api.FindRequest{Text: "Call 650-253-0000", MaxTries: &zero})

		require.NoError(t, err)
		assert.Empty(t, resp.Matches)
	})

	t.Run("unknown leniency", func(t *testing.T) {
		_, err := svc.Find(ctx, api.FindRequest{Text: "x", Leniency: "loose"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("text too large", func(t *testing.T) {
		_, err := svc.Find(ctx, api.FindRequest{Text: strings.Repeat("1", domain.MaxFindTextLength+1)})
		assert.ErrorIs(t, err, domain.ErrTextTooLarge)
	})
}

func TestService_AsYouType(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	t.Run("formats each keystroke", func(t *testing.T) {
		resp, err := svc.AsYouType(ctx, api.AsYouTypeRequest{Input: "6502530000"})

		require.NoError(t, err)
		assert.Len(t, resp.Outputs, 10)
		assert.Equal(t, "(650) 253-0000", resp.Result)
		assert.Equal(t, "650", resp.Outputs[2])
	})

	t.Run("international input", func(t *testing.T) {
		resp, err := svc.AsYouType(ctx, api.AsYouTypeRequest{Region: "ZZ", Input: "+16502530000"})

		require.NoError(t, err)
		assert.Equal(t, "+1 650-253-0000", resp.Result)
	})

	t.Run("empty input", func(t *testing.T) {
		resp, err := svc.AsYouType(ctx, api.AsYouTypeRequest{})

		require.NoError(t, err)
		assert.Empty(t, resp.Outputs)
		assert.Empty(t, resp.Result)
	})

	t.Run("input too long", func(t *testing.T) {
		_, err := svc.AsYouType(ctx, api.AsYouTypeRequest{Input: strings.Repeat("1", domain.MaxAsYouTypeInput+1)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestService_Match(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	resp, err := svc.Match(ctx, "+1 650 253 0000", "650 253 0000")
	require.NoError(t, err)
	assert.Equal(t, "NSN_MATCH", resp.Result)

	resp, err = svc.Match(ctx, "+1 650 253 0000", "+1 (650) 253-0000")
	require.NoError(t, err)
	assert.Equal(t, "EXACT_MATCH", resp.Result)

	_, err = svc.Match(ctx, "", "650 253 0000")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_Regions(t *testing.T) {
	list := newService(t).Regions(context.Background())

	assert.Contains(t, list.Regions, api.Region{Code: "GB", CountryCode: 44, MobilePortable: true})
	assert.Contains(t, list.Regions, api.Region{Code: "BS", CountryCode: 1, MobilePortable: false})
	assert.Equal(t, []int{800}, list.NonGeographicalCC)
}

func TestService_Example(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	t.Run("default type", func(t *testing.T) {
		resp, err := svc.Example(ctx, "de", "")

		require.NoError(t, err)
		assert.Equal(t, "DE", resp.Region)
		assert.Equal(t, "FIXED_LINE", resp.Type)
		assert.True(t, resp.Number.Valid)
		assert.Equal(t, "DE", resp.Number.Region)
	})

	t.Run("mobile", func(t *testing.T) {
		resp, err := svc.Example(ctx, "GB", "mobile")

		require.NoError(t, err)
		assert.Equal(t, "MOBILE", resp.Number.Type)
	})

	t.Run("unknown region", func(t *testing.T) {
		_, err := svc.Example(ctx, "QQ", "")
		assert.ErrorIs(t, err, domain.ErrUnknownRegion)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := svc.Example(ctx, "US", "hologram")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("type without example", func(t *testing.T) {
		_, err := svc.Example(ctx, "US", "pager")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
