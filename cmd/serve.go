package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shouni/thumbnail-architect/internal/config"
	"github.com/shouni/thumbnail-architect/internal/server"
	"github.com/shouni/thumbnail-architect/pkg/session"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var listenAddr string

// serveCmd は 1 つのセッションを HTTP API と WebSocket で公開します。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "生成セッションを HTTP サーバーとして起動します",
	RunE:  serveCommand,
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "addr", "l", "", "待ち受けアドレス。未指定なら LISTEN_ADDR")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	cfg := config.LoadConfig()
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY が未設定です。生成リクエストは認証情報エラーになります")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := server.NewHub()
	orch, err := newOrchestrator(cfg, session.WithObserver(hub.Publish))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(ctx, orch, hub).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		slog.Info("サーバーを起動しました", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP サーバーが異常終了しました: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("サーバーの停止に失敗しました: %w", err)
		}
		slog.Info("サーバーを停止しました")
		return nil
	})
	return eg.Wait()
}
