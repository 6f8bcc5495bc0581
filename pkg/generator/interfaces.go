package generator

import (
	"context"

	"github.com/shouni/thumbnail-architect/pkg/domain"

	"google.golang.org/genai"
)

// Executor は OutboundRequest を 1 回だけ外部サービスに送り、その結果を返すインターフェースです。
type Executor interface {
	Execute(ctx context.Context, req OutboundRequest) domain.Outcome
}

// ContentGenerator は genai の Models.GenerateContent と同じ形の通信窓口です。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeneratorFactory は API キーから ContentGenerator を生成します。
type GeneratorFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)
