package generator

import (
	"github.com/shouni/thumbnail-architect/pkg/domain"

	"google.golang.org/genai"
)

const (
	// DefaultFastModel は低レイテンシの画像生成モデルです。
	DefaultFastModel = "gemini-2.5-flash-image"
	// DefaultHighFidelityModel は高品質・高解像度向けの画像生成モデルです。
	DefaultHighFidelityModel = "gemini-3-pro-image-preview"
)

// OutboundRequest は外部 API に送る 1 回分のリクエスト内容です。
// ImageSize は高品質ティアの場合のみ設定されます。
type OutboundRequest struct {
	Model       string             `json:"model"`
	Prompt      string             `json:"prompt"`
	AspectRatio domain.AspectRatio `json:"aspect_ratio"`
	ImageSize   domain.Resolution  `json:"image_size,omitempty"`
}

// GenerateConfig は genai SDK 用の生成設定に変換します。
func (r OutboundRequest) GenerateConfig() *genai.GenerateContentConfig {
	imageConfig := &genai.ImageConfig{
		AspectRatio: string(r.AspectRatio),
	}
	// fast 系モデルは imageSize を受け付けないため、空の場合は付与しない
	if r.ImageSize != "" {
		imageConfig.ImageSize = string(r.ImageSize)
	}
	return &genai.GenerateContentConfig{
		ImageConfig: imageConfig,
	}
}
