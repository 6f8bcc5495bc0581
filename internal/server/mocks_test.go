package server

import (
	"context"

	"github.com/shouni/thumbnail-architect/pkg/domain"
	"github.com/shouni/thumbnail-architect/pkg/generator"
)

// stubExecutor は generator.Executor のテスト用スタブです。
// release が nil でなければ、値が送られるまで Execute をブロックします。
type stubExecutor struct {
	outcome domain.Outcome
	release chan domain.Outcome
}

func (s *stubExecutor) Execute(ctx context.Context, req generator.OutboundRequest) domain.Outcome {
	if s.release != nil {
		return <-s.release
	}
	return s.outcome
}

var pngOutcome = domain.Success{Data: []byte("\x89PNG\r\n\x1a\n"), MimeType: "image/png"}
