package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shouni/thumbnail-architect/pkg/domain"
	"github.com/shouni/thumbnail-architect/pkg/generator"

	"github.com/google/uuid"
)

var (
	// ErrInFlight は生成中に再度 Submit された場合のエラーです。状態は変化しません。
	ErrInFlight = errors.New("画像生成が進行中です。完了を待ってから再度実行してください")
	// ErrNotFound は履歴に存在しない ID が指定された場合のエラーです。
	ErrNotFound = errors.New("指定された画像が履歴に見つかりません")
	// ErrStaleResponse は Reset 後に届いた応答を破棄したことを表します。
	ErrStaleResponse = errors.New("リセット後に届いた生成結果を破棄しました")
)

// Phase はセッションの状態機械の状態です。
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseInFlight  Phase = "in_flight"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// State は表示層に渡す読み取り専用の射影です。
type State struct {
	// Version は遷移ごとに単調増加します。通知の到着順が前後した場合の判定に使います。
	Version         uint64                     `json:"version"`
	Phase           Phase                      `json:"phase"`
	InFlight        bool                       `json:"in_flight"`
	CurrentArtifact *domain.GeneratedArtifact  `json:"current_artifact"`
	LastError       string                     `json:"last_error,omitempty"`
	History         []domain.GeneratedArtifact `json:"history"`
}

// Observer は遷移のたびに最新の State を受け取ります。
// ロックの外で呼ばれるため到着順は遷移順と前後することがあります。Version の小さい State は古いものです。
type Observer func(State)

// Orchestrator は「同時に 1 つだけの生成」のライフサイクルを管理します。
// 可変状態はすべてこの構造体が保持し、公開する遷移操作からのみ変更されます。
type Orchestrator struct {
	executor generator.Executor
	builder  generator.RequestBuilder
	now      func() time.Time
	newID    func() string

	mu        sync.Mutex
	phase     Phase
	inFlight  bool
	current   *domain.GeneratedArtifact
	lastError string
	history   *History
	// seq は生成ごとのトークンです。完了時に一致しなければ古い応答として破棄します。
	seq       uint64
	version   uint64
	observers []Observer
}

// Option は Orchestrator の任意設定です。
type Option func(*Orchestrator)

// WithRequestBuilder はモデル名を指定した RequestBuilder を使います。
func WithRequestBuilder(b generator.RequestBuilder) Option {
	return func(o *Orchestrator) { o.builder = b }
}

// WithClock は時刻の取得方法を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator は成果物 ID の採番方法を差し替えます。
func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// WithHistoryLimit は履歴の上限件数を設定します。0 は上限なしです。
func WithHistoryLimit(limit int) Option {
	return func(o *Orchestrator) { o.history = newHistory(limit) }
}

// WithObserver は遷移通知の受け取り先を追加します。
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// New は Orchestrator を生成します。
func New(executor generator.Executor, opts ...Option) (*Orchestrator, error) {
	if executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	o := &Orchestrator{
		executor: executor,
		builder:  generator.NewRequestBuilder("", ""),
		now:      time.Now,
		newID:    newArtifactID,
		phase:    PhaseIdle,
		history:  newHistory(0),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// newArtifactID は時刻順に並ぶ UUIDv7 を採番します。
func newArtifactID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Pending は進行中の生成 1 回分のハンドルです。
type Pending struct {
	Token uint64

	done     chan struct{}
	artifact *domain.GeneratedArtifact
	err      error
}

// Done は生成が完了（成功・失敗・破棄）したときに閉じられます。
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait は完了を待って結果を返します。ctx は待機のみを打ち切り、生成そのものは止めません。
func (p *Pending) Wait(ctx context.Context) (*domain.GeneratedArtifact, error) {
	select {
	case <-p.done:
		return p.artifact, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Submit は生成を開始します。生成中であれば ErrInFlight を返し、状態は変えません。
// 外部呼び出しは別の goroutine で ctx を使って実行され、開始後は最後まで実行されます。
func (o *Orchestrator) Submit(ctx context.Context, prompt domain.PromptSpec, quality domain.GenerationQuality) (*Pending, error) {
	if err := prompt.Validate(); err != nil {
		return nil, err
	}
	if err := quality.Validate(); err != nil {
		return nil, err
	}
	quality = quality.Normalized()

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		slog.WarnContext(ctx, "生成中のため新しいリクエストを受け付けませんでした")
		return nil, ErrInFlight
	}
	o.seq++
	token := o.seq
	o.inFlight = true
	o.phase = PhaseInFlight
	o.lastError = ""
	o.current = nil
	state := o.transitionLocked()
	o.mu.Unlock()
	o.notify(state)

	slog.InfoContext(ctx, "画像生成を開始します", "token", token, "tier", quality.Tier, "resolution", quality.Resolution)

	p := &Pending{Token: token, done: make(chan struct{})}
	req := o.builder.Build(prompt, quality)
	go func() {
		defer close(p.done)
		outcome := o.executor.Execute(ctx, req)
		p.artifact, p.err = o.settle(ctx, token, prompt, quality, outcome)
	}()
	return p, nil
}

// settle はクライアントの結果をセッション状態に反映します。
func (o *Orchestrator) settle(ctx context.Context, token uint64, prompt domain.PromptSpec, quality domain.GenerationQuality, outcome domain.Outcome) (*domain.GeneratedArtifact, error) {
	o.mu.Lock()
	o.inFlight = false

	if token != o.seq {
		state := o.transitionLocked()
		o.mu.Unlock()
		o.notify(state)
		slog.InfoContext(ctx, "リセット後に届いた生成結果を破棄しました", "token", token)
		return nil, ErrStaleResponse
	}

	var (
		artifact *domain.GeneratedArtifact
		err      error
	)
	switch out := outcome.(type) {
	case domain.Success:
		artifact = &domain.GeneratedArtifact{
			ID:           o.newID(),
			ImageRef:     domain.DataURI(out.MimeType, out.Data),
			MimeType:     out.MimeType,
			Data:         out.Data,
			SourcePrompt: prompt,
			CreatedAt:    o.now(),
			ModelLabel:   quality.ModelLabel(),
		}
		o.history.prepend(artifact)
		o.current = artifact
		o.lastError = ""
		o.phase = PhaseSucceeded
	case domain.Failure:
		o.lastError = out.Message()
		o.current = nil
		o.phase = PhaseFailed
		err = out.Reason
		if err == nil {
			err = errors.New(o.lastError)
		}
	default:
		err = fmt.Errorf("unexpected outcome type: %T", outcome)
		o.lastError = err.Error()
		o.current = nil
		o.phase = PhaseFailed
	}
	state := o.transitionLocked()
	o.mu.Unlock()
	o.notify(state)

	if err != nil {
		slog.WarnContext(ctx, "画像生成に失敗しました", "token", token, "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "画像生成が完了しました", "token", token, "id", artifact.ID, "model", artifact.ModelLabel)
	a := artifact.Clone()
	return &a, nil
}

// Reset は表示中の成果物をクリアします。履歴とエラー表示には触れません。
// 生成中に呼ばれた場合、その応答は完了時に破棄されます。
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.current = nil
	o.phase = PhaseIdle
	o.seq++
	state := o.transitionLocked()
	o.mu.Unlock()
	o.notify(state)

	slog.Info("表示中の画像をリセットしました")
}

// SelectFromHistory は履歴の成果物を表示中にします。履歴・生成中フラグ・エラーは変えません。
func (o *Orchestrator) SelectFromHistory(id string) (*domain.GeneratedArtifact, error) {
	o.mu.Lock()
	artifact, ok := o.history.find(id)
	if !ok {
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	o.current = artifact
	if !o.inFlight {
		o.phase = PhaseIdle
	}
	state := o.transitionLocked()
	o.mu.Unlock()
	o.notify(state)

	a := artifact.Clone()
	return &a, nil
}

// Artifact は履歴から ID で成果物を取得します。状態は変えません。
func (o *Orchestrator) Artifact(id string) (*domain.GeneratedArtifact, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	artifact, ok := o.history.find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	a := artifact.Clone()
	return &a, nil
}

// Snapshot は現在の State を返します。
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stateLocked()
}

// Phase は現在の状態機械の状態を返します。
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phaseLocked()
}

func (o *Orchestrator) phaseLocked() Phase {
	if o.inFlight {
		return PhaseInFlight
	}
	return o.phase
}

// transitionLocked は Version を進めて遷移後の State を返します。
func (o *Orchestrator) transitionLocked() State {
	o.version++
	return o.stateLocked()
}

func (o *Orchestrator) stateLocked() State {
	s := State{
		Version:   o.version,
		Phase:     o.phaseLocked(),
		InFlight:  o.inFlight,
		LastError: o.lastError,
		History:   o.history.snapshot(),
	}
	if o.current != nil {
		c := *o.current
		s.CurrentArtifact = &c
	}
	return s
}

func (o *Orchestrator) notify(s State) {
	for _, obs := range o.observers {
		obs(s)
	}
}
