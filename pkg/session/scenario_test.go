package session

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/thumbnail-architect/pkg/domain"
	"github.com/shouni/thumbnail-architect/pkg/generator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeGemini は genai の GenerateContent を置き換えるフェイクです。
type fakeGemini struct {
	calls int
	resp  *genai.GenerateContentResponse
	err   error
}

func (f *fakeGemini) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	return f.resp, f.err
}

func newScenario(t *testing.T, apiKey string, fake *fakeGemini) (*Orchestrator, *int) {
	t.Helper()
	factoryCalls := 0
	client := generator.NewGeminiClient(apiKey, generator.WithGeneratorFactory(
		func(ctx context.Context, key string) (generator.ContentGenerator, error) {
			factoryCalls++
			return fake, nil
		},
	))
	return newTestOrchestrator(t, client), &factoryCalls
}

func TestScenario_FastTierSuccess(t *testing.T) {
	fake := &fakeGemini{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: pngSuccess.Data}},
			}},
		}},
	}}
	o, _ := newScenario(t, "test-key", fake)

	_, err := submitAndWait(t, o, domain.PromptSpec{Subject: "cat", AspectRatio: domain.AspectRatio1x1}, fast)
	require.NoError(t, err)

	state := o.Snapshot()
	require.Len(t, state.History, 1)
	assert.Equal(t, "cat", state.History[0].SourcePrompt.Subject)
	assert.Equal(t, "Flash", state.History[0].ModelLabel)
	assert.Equal(t, 1, fake.calls)
}

func TestScenario_MissingCredential(t *testing.T) {
	fake := &fakeGemini{}
	o, factoryCalls := newScenario(t, "", fake)

	_, err := submitAndWait(t, o, catPrompt, fast)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)

	state := o.Snapshot()
	assert.Equal(t, domain.ErrMissingCredential.Error(), state.LastError)
	assert.Empty(t, state.History)
	assert.Nil(t, state.CurrentArtifact)
	assert.Equal(t, 0, *factoryCalls, "ネットワーク接続の準備すら行わない")
	assert.Equal(t, 0, fake.calls)
}

func TestScenario_NoImageInResponse(t *testing.T) {
	fake := &fakeGemini{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: "I cannot draw that."}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}}
	o, _ := newScenario(t, "test-key", fake)

	_, err := submitAndWait(t, o, catPrompt, fast)
	assert.ErrorIs(t, err, domain.ErrNoImageInResponse)

	state := o.Snapshot()
	assert.Empty(t, state.History)
	assert.NotEmpty(t, state.LastError)
	assert.Nil(t, state.CurrentArtifact)
}

func TestScenario_TransportErrorIsSurfaced(t *testing.T) {
	fake := &fakeGemini{err: errors.New("Error 400, Message: API key not valid")}
	o, _ := newScenario(t, "bad-key", fake)

	_, err := submitAndWait(t, o, catPrompt, pro2K)
	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, o.Snapshot().LastError, "API key not valid")
	assert.False(t, o.Snapshot().InFlight, "失敗後はすぐに再投入できる")
}
