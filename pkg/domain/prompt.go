package domain

import (
	"fmt"
	"strings"
)

// AspectRatio は生成画像の縦横比です。
type AspectRatio string

const (
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio4x3  AspectRatio = "4:3"
	AspectRatio3x4  AspectRatio = "3:4"
)

// AspectRatios は選択可能な縦横比の一覧です（フォームの表示順）。
var AspectRatios = []AspectRatio{
	AspectRatio16x9,
	AspectRatio9x16,
	AspectRatio1x1,
	AspectRatio4x3,
	AspectRatio3x4,
}

var aspectRatioLabels = map[AspectRatio]string{
	AspectRatio16x9: "YouTube Thumbnail (16:9)",
	AspectRatio9x16: "Shorts/Reels (9:16)",
	AspectRatio1x1:  "Instagram Square (1:1)",
	AspectRatio4x3:  "Standard (4:3)",
	AspectRatio3x4:  "Portrait (3:4)",
}

// Valid は既知の縦横比かどうかを返します。
func (a AspectRatio) Valid() bool {
	_, ok := aspectRatioLabels[a]
	return ok
}

// Label は UI 表示用のラベルを返します。
func (a AspectRatio) Label() string {
	if label, ok := aspectRatioLabels[a]; ok {
		return label
	}
	return string(a)
}

// PromptSpec は画像生成の指示内容を保持する値オブジェクトです。
// Orchestrator に渡された後は変更されません（編集はコピーに対して行います）。
type PromptSpec struct {
	Subject        string      `json:"subject"`
	Style          string      `json:"style"`
	Lighting       string      `json:"lighting"`
	Background     string      `json:"background"`
	Composition    string      `json:"composition"`
	NegativePrompt string      `json:"negative_prompt"`
	AspectRatio    AspectRatio `json:"aspect_ratio"`
}

// Validate はフォームレベルの必須条件を検証します。
func (p PromptSpec) Validate() error {
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: subject は必須です", ErrInvalidPrompt)
	}
	if !p.AspectRatio.Valid() {
		return fmt.Errorf("%w: 未対応のアスペクト比です: %q", ErrInvalidPrompt, p.AspectRatio)
	}
	return nil
}

// StylePresets はスタイル入力欄の候補です。
var StylePresets = []string{
	"Cinematic realism, high contrast",
	"Hyper-realistic, 8k resolution",
	"Minimalist vector art, flat design",
	"Cyberpunk, neon lights, futuristic",
	"Oil painting, textured, classic",
	"3D Render, Pixar style, cute",
	"Anime style, vibrant colors",
}

// DefaultPrompt はフォームの初期値を返します。
func DefaultPrompt() PromptSpec {
	return PromptSpec{
		AspectRatio:    AspectRatio16x9,
		Style:          "Cinematic realism, high contrast, inspirational, professional photography",
		Subject:        "A young, focused Indian student in casual clothes looking into a large mirror. The reflection vividly shows them as a proud Indian Police Service (IPS) or IAS officer in a crisp uniform.",
		Lighting:       "Warm, motivating sunrise lighting streaming through a side window, highlighting determination on the face.",
		Background:     "Slightly blurred study room with a bookshelf containing Indian Polity and history books. A subtle, soft-focus Indian flag or India Gate in the deep background.",
		Composition:    "Rule of thirds. Subject on the right side, leaving clear, dark negative space on the left side for bold, high-contrast text overlays.",
		NegativePrompt: "cartoon, 3d render, blurry, deformed eyes, bad anatomy, cluttered, distracting background, low resolution",
	}
}
