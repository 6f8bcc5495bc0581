package session

import (
	"context"
	"sync"

	"github.com/shouni/thumbnail-architect/pkg/domain"
	"github.com/shouni/thumbnail-architect/pkg/generator"
)

// mockExecutor は generator.Executor のテスト用モックです。
// release が nil でなければ、値が送られるまで Execute をブロックします。
type mockExecutor struct {
	mu       sync.Mutex
	calls    int
	requests []generator.OutboundRequest

	outcome domain.Outcome
	release chan domain.Outcome
	started chan struct{}
}

func (m *mockExecutor) Execute(ctx context.Context, req generator.OutboundRequest) domain.Outcome {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		return <-m.release
	}
	return m.outcome
}

func (m *mockExecutor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newBlockingExecutor() *mockExecutor {
	return &mockExecutor{
		release: make(chan domain.Outcome),
		started: make(chan struct{}, 8),
	}
}

var pngSuccess = domain.Success{Data: []byte("\x89PNG\r\n\x1a\n"), MimeType: "image/png"}
