package exporter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shouni/thumbnail-architect/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Exporter は生成済みの成果物を出力先に保存します。
type Exporter struct {
	writer    remoteio.OutputWriter
	outputDir string
}

// New は Exporter を生成します。
func New(writer remoteio.OutputWriter, outputDir string) (*Exporter, error) {
	if writer == nil {
		return nil, fmt.Errorf("writer is required")
	}
	return &Exporter{writer: writer, outputDir: outputDir}, nil
}

// FileName は成果物のダウンロード用ファイル名を返します。
func FileName(a domain.GeneratedArtifact) string {
	ext, ok := extensions[a.MimeType]
	if !ok {
		ext = ".png"
	}
	return "thumbnail-" + a.ID + ext
}

// Export は成果物を保存し、保存先のパスを返します。
func (e *Exporter) Export(ctx context.Context, a domain.GeneratedArtifact) (string, error) {
	if len(a.Data) == 0 {
		return "", fmt.Errorf("画像データが空のため保存できません: %s", a.ID)
	}
	outputPath := joinPath(e.outputDir, FileName(a))

	mimeType := a.MimeType
	if mimeType == "" {
		mimeType = domain.DefaultMimeType
	}
	if err := e.writer.Write(ctx, outputPath, bytes.NewReader(a.Data), mimeType); err != nil {
		return "", fmt.Errorf("画像の保存に失敗しました (%s): %w", outputPath, err)
	}

	slog.InfoContext(ctx, "画像を保存しました", "path", outputPath, "id", a.ID, "bytes", len(a.Data))
	return outputPath, nil
}

// joinPath は gs:// や s3:// の URI を壊さずにパスを連結します。
func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	if remoteio.IsRemoteURI(dir) {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}
	return filepath.Join(dir, name)
}
