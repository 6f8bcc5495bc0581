package generator

import (
	"context"

	"google.golang.org/genai"
)

// --- Mocks ---

// mockGenerator は ContentGenerator のテスト用モックです。
type mockGenerator struct {
	calls      int
	lastModel  string
	lastText   string
	lastConfig *genai.GenerateContentConfig

	resp *genai.GenerateContentResponse
	err  error
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastConfig = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		m.lastText = contents[0].Parts[0].Text
	}
	return m.resp, m.err
}

// mockFactory は呼び出し回数を記録する GeneratorFactory を返します。
type mockFactory struct {
	calls int
	gen   *mockGenerator
	err   error
}

func (f *mockFactory) New(ctx context.Context, apiKey string) (ContentGenerator, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.gen, nil
}

func imageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{
					{Text: "here is your image"},
					{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
				},
			},
		}},
	}
}
