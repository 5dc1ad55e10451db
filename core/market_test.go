package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCountry(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantCountry string
		wantRegion  string
	}{
		{"mexico with accent", "Disponible en México desde 2024", "México", RegionMexico},
		{"mexico ascii", "Available in Mexico and the US", "México", RegionMexico},
		{"argentina", "pricing for argentina customers", "Argentina", RegionLATAM},
		{"two-word country", "licensed in Costa Rica", "Costa Rica", RegionLATAM},
		{"no match", "Global pricing for enterprise customers", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			country, region := DetectCountry(tt.text)
			assert.Equal(t, tt.wantCountry, country)
			assert.Equal(t, tt.wantRegion, region)
		})
	}
}

func TestDetectCurrency(t *testing.T) {
	assert.Equal(t, "USD", DetectCurrency("costs $500 per month"))
	assert.Equal(t, "EUR", DetectCurrency("€1,200 setup"))
	assert.Equal(t, "MXN", DetectCurrency("1,000 pesos mexicanos"))
	assert.Equal(t, "BRL", DetectCurrency("500 reais mensais"))
	// Explicit local currency beats the ambiguous $ sign.
	assert.Equal(t, "MXN", DetectCurrency("$10,000 MXN"))
	assert.Equal(t, "", DetectCurrency("free tier available"))
}

func TestValidateTextSample(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := ValidateTextSample(&TextSample{Text: "some pricing text", Source: "Sumsub"})
		assert.NoError(t, err)
	})

	t.Run("nil sample", func(t *testing.T) {
		err := ValidateTextSample(nil)
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("whitespace only", func(t *testing.T) {
		err := ValidateTextSample(&TextSample{Text: "   \t", Source: "Sumsub"})
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("missing source", func(t *testing.T) {
		err := ValidateTextSample(&TextSample{Text: "text"})
		assert.ErrorIs(t, err, ErrEmptySource)
	})
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0, ClampConfidence(-5))
	assert.Equal(t, 100, ClampConfidence(140))
	assert.Equal(t, 55, ClampConfidence(55))
}

func TestValidateConfidence(t *testing.T) {
	assert.NoError(t, ValidateConfidence(0))
	assert.NoError(t, ValidateConfidence(100))
	assert.ErrorIs(t, ValidateConfidence(-1), ErrInvalidConfidence)
	assert.ErrorIs(t, ValidateConfidence(101), ErrInvalidConfidence)
}
