package server

import (
	"time"

	"github.com/shouni/thumbnail-architect/pkg/domain"
	"github.com/shouni/thumbnail-architect/pkg/session"
)

// artifactView は画像本体（data URI）を含めずに成果物を表します。
// 画像は ImageURL から取得します。
type artifactView struct {
	ID           string            `json:"id"`
	ImageURL     string            `json:"image_url"`
	MimeType     string            `json:"mime_type"`
	SourcePrompt domain.PromptSpec `json:"source_prompt"`
	CreatedAt    time.Time         `json:"created_at"`
	ModelLabel   string            `json:"model_label"`
}

type stateView struct {
	Version         uint64         `json:"version"`
	Phase           session.Phase  `json:"phase"`
	InFlight        bool           `json:"in_flight"`
	CurrentArtifact *artifactView  `json:"current_artifact"`
	LastError       string         `json:"last_error,omitempty"`
	History         []artifactView `json:"history"`
}

func imageURL(id string) string {
	return "/api/artifacts/" + id + "/image"
}

func toArtifactView(a domain.GeneratedArtifact) artifactView {
	return artifactView{
		ID:           a.ID,
		ImageURL:     imageURL(a.ID),
		MimeType:     a.MimeType,
		SourcePrompt: a.SourcePrompt,
		CreatedAt:    a.CreatedAt,
		ModelLabel:   a.ModelLabel,
	}
}

func toStateView(s session.State) stateView {
	v := stateView{
		Version:   s.Version,
		Phase:     s.Phase,
		InFlight:  s.InFlight,
		LastError: s.LastError,
		History:   make([]artifactView, 0, len(s.History)),
	}
	if s.CurrentArtifact != nil {
		cur := toArtifactView(*s.CurrentArtifact)
		v.CurrentArtifact = &cur
	}
	for _, a := range s.History {
		v.History = append(v.History, toArtifactView(a))
	}
	return v
}

type aspectRatioView struct {
	Value domain.AspectRatio `json:"value"`
	Label string             `json:"label"`
}

type presetsView struct {
	AspectRatios  []aspectRatioView   `json:"aspect_ratios"`
	StylePresets  []string            `json:"style_presets"`
	DefaultPrompt domain.PromptSpec   `json:"default_prompt"`
	Resolutions   []domain.Resolution `json:"resolutions"`
}

func newPresetsView() presetsView {
	ratios := make([]aspectRatioView, 0, len(domain.AspectRatios))
	for _, r := range domain.AspectRatios {
		ratios = append(ratios, aspectRatioView{Value: r, Label: r.Label()})
	}
	return presetsView{
		AspectRatios:  ratios,
		StylePresets:  domain.StylePresets,
		DefaultPrompt: domain.DefaultPrompt(),
		Resolutions:   []domain.Resolution{domain.Resolution1K, domain.Resolution2K, domain.Resolution4K},
	}
}

// generateRequest は POST /api/generate の本文です。
type generateRequest struct {
	Prompt  domain.PromptSpec        `json:"prompt"`
	Quality domain.GenerationQuality `json:"quality"`
}

type generateResponse struct {
	Token uint64 `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}
