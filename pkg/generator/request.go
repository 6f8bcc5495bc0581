package generator

import (
	"strings"

	"github.com/shouni/thumbnail-architect/pkg/domain"
)

const promptHeader = "Create a high-quality image with the following specifications:"

// RequestBuilder は PromptSpec と品質設定から OutboundRequest を組み立てます。
// I/O を持たない純粋な変換で、同じ入力には常に同じ出力を返します。
type RequestBuilder struct {
	FastModel         string
	HighFidelityModel string
}

// NewRequestBuilder はモデル名を指定して RequestBuilder を生成します。
// 空のモデル名は既定値で補われます。
func NewRequestBuilder(fastModel, highFidelityModel string) RequestBuilder {
	if fastModel == "" {
		fastModel = DefaultFastModel
	}
	if highFidelityModel == "" {
		highFidelityModel = DefaultHighFidelityModel
	}
	return RequestBuilder{
		FastModel:         fastModel,
		HighFidelityModel: highFidelityModel,
	}
}

// BuildRequest は既定のモデル名で OutboundRequest を組み立てます。
func BuildRequest(prompt domain.PromptSpec, quality domain.GenerationQuality) OutboundRequest {
	return NewRequestBuilder("", "").Build(prompt, quality)
}

// Build は OutboundRequest を組み立てます。
func (b RequestBuilder) Build(prompt domain.PromptSpec, quality domain.GenerationQuality) OutboundRequest {
	q := quality.Normalized()

	req := OutboundRequest{
		Model:       b.FastModel,
		Prompt:      ComposePrompt(prompt),
		AspectRatio: prompt.AspectRatio,
	}
	if q.Tier == domain.TierHighFidelity {
		req.Model = b.HighFidelityModel
		req.ImageSize = q.Resolution
	}
	return req
}

// ComposePrompt は 6 つのテキスト項目を固定順のラベル付きセクションに直列化します。
func ComposePrompt(p domain.PromptSpec) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString("\n\n")
	sb.WriteString("Subject: " + p.Subject + "\n")
	sb.WriteString("Style: " + p.Style + "\n")
	sb.WriteString("Lighting: " + p.Lighting + "\n")
	sb.WriteString("Background: " + p.Background + "\n")
	sb.WriteString("Composition: " + p.Composition + "\n")
	sb.WriteString("\n")
	sb.WriteString("Negative Prompt (Avoid these): " + p.NegativePrompt)
	return strings.TrimSpace(sb.String())
}
