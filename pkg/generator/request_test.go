package generator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shouni/thumbnail-architect/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePrompt() domain.PromptSpec {
	return domain.PromptSpec{
		Subject:        "a cat wearing sunglasses",
		Style:          "Anime style, vibrant colors",
		Lighting:       "golden hour",
		Background:     "beach",
		Composition:    "centered",
		NegativePrompt: "blurry",
		AspectRatio:    domain.AspectRatio16x9,
	}
}

func TestBuildRequest(t *testing.T) {
	t.Run("fast は低レイテンシモデルで解像度を付与しない", func(t *testing.T) {
		req := BuildRequest(samplePrompt(), domain.GenerationQuality{Tier: domain.TierFast, Resolution: domain.Resolution4K})

		assert.Equal(t, DefaultFastModel, req.Model)
		assert.Empty(t, req.ImageSize)
		assert.Equal(t, domain.AspectRatio16x9, req.AspectRatio)

		b, err := json.Marshal(req)
		require.NoError(t, err)
		assert.NotContains(t, string(b), "image_size", "直列化結果にも解像度が現れない")
		assert.Empty(t, req.GenerateConfig().ImageConfig.ImageSize)
	})

	t.Run("high-fidelity は高品質モデルで解像度を付与する", func(t *testing.T) {
		req := BuildRequest(samplePrompt(), domain.GenerationQuality{Tier: domain.TierHighFidelity, Resolution: domain.Resolution2K})

		assert.Equal(t, DefaultHighFidelityModel, req.Model)
		assert.Equal(t, domain.Resolution2K, req.ImageSize)
		assert.Equal(t, "2K", req.GenerateConfig().ImageConfig.ImageSize)
	})

	t.Run("同じ入力はバイト単位で同じ出力になる", func(t *testing.T) {
		q := domain.GenerationQuality{Tier: domain.TierHighFidelity, Resolution: domain.Resolution4K}
		a, err := json.Marshal(BuildRequest(samplePrompt(), q))
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			b, err := json.Marshal(BuildRequest(samplePrompt(), q))
			require.NoError(t, err)
			require.Equal(t, a, b)
		}
	})

	t.Run("モデル名は差し替え可能", func(t *testing.T) {
		b := NewRequestBuilder("fast-x", "pro-x")
		assert.Equal(t, "fast-x", b.Build(samplePrompt(), domain.GenerationQuality{Tier: domain.TierFast}).Model)
		assert.Equal(t, "pro-x", b.Build(samplePrompt(), domain.GenerationQuality{Tier: domain.TierHighFidelity}).Model)
	})

	t.Run("空のモデル名は既定値", func(t *testing.T) {
		b := NewRequestBuilder("", "")
		assert.Equal(t, DefaultFastModel, b.FastModel)
		assert.Equal(t, DefaultHighFidelityModel, b.HighFidelityModel)
	})
}

func TestComposePrompt(t *testing.T) {
	text := ComposePrompt(samplePrompt())

	want := []string{
		"Subject: a cat wearing sunglasses",
		"Style: Anime style, vibrant colors",
		"Lighting: golden hour",
		"Background: beach",
		"Composition: centered",
		"Negative Prompt (Avoid these): blurry",
	}
	last := -1
	for _, w := range want {
		idx := strings.Index(text, w)
		if idx < 0 {
			t.Fatalf("セクション %q が見つかりません:\n%s", w, text)
		}
		if idx <= last {
			t.Errorf("セクション %q の順序が不正です", w)
		}
		last = idx
	}
	assert.True(t, strings.HasPrefix(text, promptHeader))
	assert.NotContains(t, text, "16:9", "縦横比はテキストではなく形状パラメータで渡す")
}
