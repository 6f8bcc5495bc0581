package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/thumbnail-architect/internal/config"
	"github.com/shouni/thumbnail-architect/pkg/domain"

	"github.com/spf13/cobra"
)

const defaultGenerateTimeout = 3 * time.Minute

type generateOptions struct {
	prompt     domain.PromptSpec
	aspect     string
	tier       string
	resolution string
	outputDir  string
	timeout    time.Duration
}

var genOpts generateOptions

// generateCmd は 1 回だけ画像を生成して保存します。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "プロンプトから画像を 1 枚生成して保存します",
	Long: `フラグで指定しなかった項目はフォームの初期値を使います。
出力先はローカルディレクトリか gs://bucket/path を指定できます。`,
	RunE: generateCommand,
}

func init() {
	def := domain.DefaultPrompt()
	genOpts.prompt = def

	f := generateCmd.Flags()
	f.StringVarP(&genOpts.prompt.Subject, "subject", "s", def.Subject, "主題")
	f.StringVar(&genOpts.prompt.Style, "style", def.Style, "スタイル")
	f.StringVar(&genOpts.prompt.Lighting, "lighting", def.Lighting, "ライティング")
	f.StringVar(&genOpts.prompt.Background, "background", def.Background, "背景")
	f.StringVar(&genOpts.prompt.Composition, "composition", def.Composition, "構図")
	f.StringVar(&genOpts.prompt.NegativePrompt, "negative", def.NegativePrompt, "避けたい要素")
	f.StringVarP(&genOpts.aspect, "aspect", "a", string(def.AspectRatio), "アスペクト比 (16:9, 9:16, 1:1, 4:3, 3:4)")
	f.StringVarP(&genOpts.tier, "tier", "t", string(domain.TierFast), "品質ティア (fast, high-fidelity)")
	f.StringVarP(&genOpts.resolution, "resolution", "r", "", "high-fidelity の解像度 (1K, 2K, 4K)")
	f.StringVarP(&genOpts.outputDir, "output-dir", "o", "", "保存先ディレクトリ（ローカル or gs://...）。未指定なら OUTPUT_DIR")
	f.DurationVar(&genOpts.timeout, "timeout", defaultGenerateTimeout, "生成完了を待つ最大時間")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	cfg := config.LoadConfig()
	if genOpts.outputDir != "" {
		cfg.OutputDir = genOpts.outputDir
	}

	prompt := genOpts.prompt
	prompt.AspectRatio = domain.AspectRatio(genOpts.aspect)
	quality := domain.GenerationQuality{
		Tier:       domain.Tier(genOpts.tier),
		Resolution: domain.Resolution(genOpts.resolution),
	}

	orch, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), genOpts.timeout)
	defer cancel()

	slog.InfoContext(ctx, "画像生成を実行します",
		"tier", quality.Tier,
		"aspect_ratio", prompt.AspectRatio,
		"output", cfg.OutputDir)

	pending, err := orch.Submit(ctx, prompt, quality)
	if err != nil {
		return fmt.Errorf("生成リクエストが拒否されました: %w", err)
	}
	artifact, err := pending.Wait(ctx)
	if err != nil {
		return fmt.Errorf("画像生成に失敗しました: %w", err)
	}

	exp, closeExporter, err := newExporter(ctx, cfg.OutputDir)
	if err != nil {
		return err
	}
	defer closeExporter()
	path, err := exp.Export(ctx, *artifact)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	slog.InfoContext(ctx, "生成が完了しました", "id", artifact.ID, "model", artifact.ModelLabel, "path", path)
	return nil
}
