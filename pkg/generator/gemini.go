package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shouni/thumbnail-architect/pkg/domain"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GeminiClient は Gemini API に 1 回だけ画像生成を要求し、結果を Outcome として返すクライアントです。
// リトライやタイムアウトは行いません。
type GeminiClient struct {
	apiKey  string
	factory GeneratorFactory
	limiter *rate.Limiter

	mu  sync.Mutex
	gen ContentGenerator
}

// ClientOption は GeminiClient の任意設定です。
type ClientOption func(*GeminiClient)

// WithGeneratorFactory は通信窓口の生成方法を差し替えます。
func WithGeneratorFactory(factory GeneratorFactory) ClientOption {
	return func(c *GeminiClient) {
		if factory != nil {
			c.factory = factory
		}
	}
}

// WithMinInterval は外部呼び出しの最小間隔を設定します。0 以下は無制限です。
func WithMinInterval(interval time.Duration) ClientOption {
	return func(c *GeminiClient) {
		if interval > 0 {
			c.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

// NewGeminiClient は GeminiClient を初期化します。
// apiKey が空でも生成は成功し、Execute 時に ErrMissingCredential を返します。
func NewGeminiClient(apiKey string, opts ...ClientOption) *GeminiClient {
	c := &GeminiClient{
		apiKey:  strings.TrimSpace(apiKey),
		factory: NewGenAIGenerator,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewGenAIGenerator は公式 genai クライアントの Models を返します。
func NewGenAIGenerator(ctx context.Context, apiKey string) (ContentGenerator, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの初期化に失敗しました: %w", err)
	}
	return cli.Models, nil
}

// Execute はリクエストを送信して Outcome を返します。
func (c *GeminiClient) Execute(ctx context.Context, req OutboundRequest) domain.Outcome {
	if c.apiKey == "" {
		return domain.Failure{Reason: domain.ErrMissingCredential}
	}

	gen, err := c.generator(ctx)
	if err != nil {
		return domain.Failure{Reason: &domain.TransportError{Err: err}}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.Failure{Reason: &domain.TransportError{Err: err}}
		}
	}

	slog.InfoContext(ctx, "Geminiに画像生成をリクエストします",
		"model", req.Model, "aspect_ratio", req.AspectRatio, "image_size", req.ImageSize)

	resp, err := gen.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), req.GenerateConfig())
	if err != nil {
		slog.ErrorContext(ctx, "Gemini API エラー", "model", req.Model, "error", err)
		return domain.Failure{Reason: &domain.TransportError{Err: err}}
	}

	out, err := parseToResponse(resp)
	if err != nil {
		slog.WarnContext(ctx, "レスポンスから画像を取得できませんでした", "model", req.Model, "error", err)
		return domain.Failure{Reason: err}
	}
	return out
}

// generator は ContentGenerator を一度だけ生成して使い回します。
func (c *GeminiClient) generator(ctx context.Context) (ContentGenerator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != nil {
		return c.gen, nil
	}
	gen, err := c.factory(ctx, c.apiKey)
	if err != nil {
		return nil, err
	}
	c.gen = gen
	return gen, nil
}

// parseToResponse は最初の候補 (Candidate) から、画像データを持つ最初のパーツを取り出します。
func parseToResponse(resp *genai.GenerateContentResponse) (domain.Success, error) {
	if resp == nil {
		return domain.Success{}, &domain.TransportError{Err: errors.New("Geminiからの有効な応答がありませんでした")}
	}
	// 候補が空の応答はプロンプト自体がブロックされた場合などに返る
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return domain.Success{}, domain.ErrNoImageInResponse
	}

	// 最初の候補 (Candidate) のみを利用する。
	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = domain.DefaultMimeType
			}
			return domain.Success{Data: part.InlineData.Data, MimeType: mimeType}, nil
		}
	}

	// 安全フィルター等によるブロックの確認
	switch candidate.FinishReason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
	default:
		return domain.Success{}, fmt.Errorf("%w (FinishReason: %s)", domain.ErrNoImageInResponse, candidate.FinishReason)
	}
	return domain.Success{}, domain.ErrNoImageInResponse
}
