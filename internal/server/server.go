package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shouni/thumbnail-architect/pkg/domain"
	"github.com/shouni/thumbnail-architect/pkg/exporter"
	"github.com/shouni/thumbnail-architect/pkg/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxRequestBody = 1 << 20

// Server はセッションを HTTP と WebSocket で公開します。
type Server struct {
	orch *session.Orchestrator
	hub  *Hub
	// baseCtx は生成呼び出しに使う、サーバーの寿命に紐づいたコンテキストです。
	// HTTP リクエストの終了で生成が打ち切られないようにします。
	baseCtx context.Context
}

// New は Server を生成します。hub は orch の Observer として登録済みである必要があります。
func New(baseCtx context.Context, orch *session.Orchestrator, hub *Hub) *Server {
	return &Server{orch: orch, hub: hub, baseCtx: baseCtx}
}

// Router はルーティング済みの http.Handler を返します。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/presets", s.handlePresets)
		r.Post("/generate", s.handleGenerate)
		r.Post("/reset", s.handleReset)
		r.Post("/history/{id}/select", s.handleSelect)
		r.Get("/artifacts/{id}/image", s.handleImage)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStateView(s.orch.Snapshot()))
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newPresetsView())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "リクエストの JSON が不正です")
		return
	}

	p, err := s.orch.Submit(s.baseCtx, req.Prompt, req.Quality)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, generateResponse{Token: p.Token})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.orch.Reset()
	writeJSON(w, http.StatusOK, toStateView(s.orch.Snapshot()))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := s.orch.SelectFromHistory(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toArtifactView(*a))
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := s.orch.Artifact(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	mimeType := a.MimeType
	if mimeType == "" {
		mimeType = domain.DefaultMimeType
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+exporter.FileName(*a)+`"`)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		slog.WarnContext(r.Context(), "画像の送信に失敗しました", "id", id, "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPrompt), errors.Is(err, domain.ErrInvalidQuality):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("レスポンスのエンコードに失敗しました", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
