package domain

import (
	"bytes"
	"encoding/base64"
	"errors"
	"time"
)

// DefaultMimeType はレスポンスが MIME タイプを省略した場合に使われます。
const DefaultMimeType = "image/png"

var (
	// ErrMissingCredential は API キーが未設定の場合のエラーです。通信は行われません。
	ErrMissingCredential = errors.New("APIキーが設定されていません。環境変数 GEMINI_API_KEY を確認してください")
	// ErrNoImageInResponse は正常なレスポンスに画像パーツが含まれていなかった場合のエラーです。
	ErrNoImageInResponse = errors.New("レスポンスに画像データが見つかりませんでした")
	// ErrInvalidPrompt はプロンプトの入力不備を表します。
	ErrInvalidPrompt = errors.New("プロンプトが不正です")
	// ErrInvalidQuality は品質設定の入力不備を表します。
	ErrInvalidQuality = errors.New("品質設定が不正です")
)

// TransportError は通信・プロトコル上の失敗です。元のエラー内容を保持します。
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "Gemini API との通信に失敗しました"
	}
	return "Gemini API との通信に失敗しました: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Outcome は生成クライアント 1 回分の結果です。Success か Failure のどちらか一方のみを取ります。
type Outcome interface {
	isOutcome()
}

// Success は画像の取得に成功した結果です。
type Success struct {
	Data     []byte
	MimeType string
}

// Failure は生成に失敗した結果です。Reason は ErrMissingCredential、
// ErrNoImageInResponse、*TransportError のいずれかです。
type Failure struct {
	Reason error
}

func (Success) isOutcome() {}
func (Failure) isOutcome() {}

// Message は利用者に表示する失敗理由を返します。
func (f Failure) Message() string {
	if f.Reason == nil {
		return "画像の生成に失敗しました。もう一度お試しください"
	}
	return f.Reason.Error()
}

// GeneratedArtifact は生成に成功した画像とその来歴です。作成後は変更されません。
// State の射影に含まれる Data は履歴と共有されるため読み取り専用です。
// 書き換える場合は Clone したものを使います。
type GeneratedArtifact struct {
	ID           string     `json:"id"`
	ImageRef     string     `json:"image_ref"`
	MimeType     string     `json:"mime_type"`
	Data         []byte     `json:"-"`
	SourcePrompt PromptSpec `json:"source_prompt"`
	CreatedAt    time.Time  `json:"created_at"`
	ModelLabel   string     `json:"model_label"`
}

// Clone は Data を複製したコピーを返します。
func (a GeneratedArtifact) Clone() GeneratedArtifact {
	a.Data = bytes.Clone(a.Data)
	return a
}

// DataURI は画像データを表示・ダウンロード可能な data URI に変換します。
func DataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
