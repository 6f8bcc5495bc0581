package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationQuality_Normalized(t *testing.T) {
	t.Run("fast では解像度が捨てられる", func(t *testing.T) {
		q := GenerationQuality{Tier: TierFast, Resolution: Resolution4K}.Normalized()
		assert.Equal(t, Resolution(""), q.Resolution)
	})

	t.Run("high-fidelity で未指定なら 1K", func(t *testing.T) {
		q := GenerationQuality{Tier: TierHighFidelity}.Normalized()
		assert.Equal(t, Resolution1K, q.Resolution)
	})

	t.Run("high-fidelity の指定値は保持される", func(t *testing.T) {
		q := GenerationQuality{Tier: TierHighFidelity, Resolution: Resolution2K}.Normalized()
		assert.Equal(t, Resolution2K, q.Resolution)
	})
}

func TestGenerationQuality_Validate(t *testing.T) {
	assert.NoError(t, GenerationQuality{Tier: TierFast, Resolution: "8K"}.Validate(), "fast は解像度を見ない")
	assert.NoError(t, GenerationQuality{Tier: TierHighFidelity, Resolution: Resolution4K}.Validate())
	assert.ErrorIs(t, GenerationQuality{Tier: TierHighFidelity, Resolution: "8K"}.Validate(), ErrInvalidQuality)
	assert.ErrorIs(t, GenerationQuality{Tier: "ultra"}.Validate(), ErrInvalidQuality)
}

func TestGenerationQuality_ModelLabel(t *testing.T) {
	assert.Equal(t, "Flash", GenerationQuality{Tier: TierFast, Resolution: Resolution4K}.ModelLabel())
	assert.Equal(t, "Pro (2K)", GenerationQuality{Tier: TierHighFidelity, Resolution: Resolution2K}.ModelLabel())
	assert.Equal(t, "Pro (1K)", GenerationQuality{Tier: TierHighFidelity}.ModelLabel())
}
