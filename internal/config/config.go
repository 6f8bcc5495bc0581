package config

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/shouni/thumbnail-architect/pkg/generator"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義
const (
	DefaultListenAddr   = ":8080"
	DefaultOutputDir    = "output"
	DefaultRateInterval = 0 * time.Second
	DefaultHistoryLimit = 0
	DefaultEnvFile      = ".env"
)

// Config はアプリケーション全体の環境設定を保持する構造体です。
type Config struct {
	GeminiAPIKey      string
	FastModel         string
	HighFidelityModel string
	RateInterval      time.Duration
	HistoryLimit      int
	ListenAddr        string
	OutputDir         string
}

// LoadConfig は .env（存在すれば）と環境変数から設定を読み込みます。
// 既に設定済みの環境変数は .env で上書きされません。
func LoadConfig() *Config {
	if err := godotenv.Load(DefaultEnvFile); err == nil {
		slog.Debug(".env を読み込みました", "path", DefaultEnvFile)
	}

	return &Config{
		GeminiAPIKey:      envutil.GetEnv("GEMINI_API_KEY", ""),
		FastModel:         envutil.GetEnv("IMAGE_FAST_MODEL", generator.DefaultFastModel),
		HighFidelityModel: envutil.GetEnv("IMAGE_QUALITY_MODEL", generator.DefaultHighFidelityModel),
		RateInterval:      parseDuration("GENERATION_RATE_INTERVAL", DefaultRateInterval),
		HistoryLimit:      parseInt("HISTORY_LIMIT", DefaultHistoryLimit),
		ListenAddr:        envutil.GetEnv("LISTEN_ADDR", DefaultListenAddr),
		OutputDir:         envutil.GetEnv("OUTPUT_DIR", DefaultOutputDir),
	}
}

func parseDuration(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		slog.Warn("環境変数の値が不正なため既定値を使います", "key", key, "value", raw)
		return def
	}
	return d
}

func parseInt(key string, def int) int {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		slog.Warn("環境変数の値が不正なため既定値を使います", "key", key, "value", raw)
		return def
	}
	return n
}
