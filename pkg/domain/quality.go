package domain

import "fmt"

// Tier は生成の品質クラスです。
type Tier string

const (
	TierFast         Tier = "fast"
	TierHighFidelity Tier = "high-fidelity"
)

// Resolution は高品質ティアでのみ有効な出力解像度です。
type Resolution string

const (
	Resolution1K Resolution = "1K"
	Resolution2K Resolution = "2K"
	Resolution4K Resolution = "4K"
)

// DefaultResolution は高品質ティアで解像度が未指定の場合に使われます。
const DefaultResolution = Resolution1K

// GenerationQuality は生成品質の設定です。
// TierFast の場合 Resolution は無視されます。
type GenerationQuality struct {
	Tier       Tier       `json:"tier"`
	Resolution Resolution `json:"resolution,omitempty"`
}

// Validate はティアと解像度の組み合わせを検証します。
func (q GenerationQuality) Validate() error {
	switch q.Tier {
	case TierFast:
		return nil
	case TierHighFidelity:
		switch q.Resolution {
		case "", Resolution1K, Resolution2K, Resolution4K:
			return nil
		}
		return fmt.Errorf("%w: 未対応の解像度です: %q", ErrInvalidQuality, q.Resolution)
	}
	return fmt.Errorf("%w: 未対応のティアです: %q", ErrInvalidQuality, q.Tier)
}

// Normalized は正規化した値を返します。
// fast では解像度を空にし、high-fidelity では未指定の解像度を既定値で埋めます。
func (q GenerationQuality) Normalized() GenerationQuality {
	switch q.Tier {
	case TierHighFidelity:
		if q.Resolution == "" {
			q.Resolution = DefaultResolution
		}
	default:
		q.Resolution = ""
	}
	return q
}

// ModelLabel は生成結果に表示するモデルの説明を返します。
func (q GenerationQuality) ModelLabel() string {
	n := q.Normalized()
	if n.Tier == TierHighFidelity {
		return fmt.Sprintf("Pro (%s)", n.Resolution)
	}
	return "Flash"
}
