package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd はすべてのサブコマンドの親です。
var rootCmd = &cobra.Command{
	Use:           "thumbnail-architect",
	Short:         "構造化プロンプトから Gemini でサムネイル画像を生成します",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "デバッグログを出力します")
	rootCmd.AddCommand(generateCmd, serveCmd)
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Execute はアプリケーションのエントリポイントです。main.go から呼び出されます。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("コマンドの実行に失敗しました", "error", err)
		os.Exit(1)
	}
}
