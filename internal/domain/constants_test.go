package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aelexs/phonekit/internal/domain"
	"github.com/aelexs/phonekit/pkg/phonenumbers"
)

func TestRequestDefaultsAreUnderstood(t *testing.T) {
	t.Run("default region is supported", func(t *testing.T) {
		assert.Contains(t, phonenumbers.SupportedRegions(), domain.DefaultRegion)
	})

	t.Run("default leniency parses", func(t *testing.T) {
		l, err := phonenumbers.ParseLeniency(domain.DefaultLeniency)
		assert.NoError(t, err)
		assert.Equal(t, phonenumbers.Valid, l)
	})

	t.Run("default style parses", func(t *testing.T) {
		style, err := phonenumbers.ParseFormat(domain.DefaultStyle)
		assert.NoError(t, err)
		assert.Equal(t, phonenumbers.International, style)
	})
}

func TestLimits(t *testing.T) {
	assert.Less(t, domain.MaxFindTextLength, domain.MaxRequestBodySize)
	assert.Less(t, domain.HTTPRequestTimeout, domain.HTTPWriteTimeout)
}

func TestShutdownFitsBudget(t *testing.T) {
	total := domain.ShutdownDrainDelay + domain.ShutdownHTTPTimeout + domain.ShutdownOTELTimeout
	assert.LessOrEqual(t, total, domain.GracefulShutdownTimeout)
}
