package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/thumbnail-architect/internal/config"
	"github.com/shouni/thumbnail-architect/pkg/exporter"
	"github.com/shouni/thumbnail-architect/pkg/generator"
	"github.com/shouni/thumbnail-architect/pkg/session"

	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// newOrchestrator は設定から Gemini クライアントと Orchestrator を組み立てます。
func newOrchestrator(cfg *config.Config, opts ...session.Option) (*session.Orchestrator, error) {
	client := generator.NewGeminiClient(cfg.GeminiAPIKey, generator.WithMinInterval(cfg.RateInterval))

	opts = append([]session.Option{
		session.WithRequestBuilder(generator.NewRequestBuilder(cfg.FastModel, cfg.HighFidelityModel)),
		session.WithHistoryLimit(cfg.HistoryLimit),
	}, opts...)

	orch, err := session.New(client, opts...)
	if err != nil {
		return nil, fmt.Errorf("Orchestrator の初期化に失敗しました: %w", err)
	}
	return orch, nil
}

// newExporter は出力先に応じた Exporter と、後片付け用の関数を返します。
// gs:// 以外で GCS クライアントを作れない場合は、クライアントなしの書き込み窓口でローカルに保存します。
func newExporter(ctx context.Context, outputDir string) (*exporter.Exporter, func(), error) {
	factory, err := gcsfactory.New(ctx)
	if err != nil {
		if remoteio.IsRemoteURI(outputDir) {
			return nil, nil, fmt.Errorf("failed to create GCS client factory: %w", err)
		}
		slog.DebugContext(ctx, "GCS クライアントを作成できないためローカルに保存します", "error", err)
		exp, err := exporter.New(remoteio.NewUniversalIOWriter(nil, nil), outputDir)
		return exp, func() {}, err
	}

	closeFactory := func() {
		if err := factory.Close(); err != nil {
			slog.WarnContext(ctx, "GCS クライアントのクローズに失敗しました", "error", err)
		}
	}

	writer, err := factory.OutputWriter()
	if err != nil {
		closeFactory()
		return nil, nil, fmt.Errorf("failed to create output writer: %w", err)
	}
	exp, err := exporter.New(writer, outputDir)
	if err != nil {
		closeFactory()
		return nil, nil, err
	}
	return exp, closeFactory, nil
}
