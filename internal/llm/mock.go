package llm

import "context"

// MockClient permite tests sin llamar a un LLM real. Guarda los prompts recibidos.
type MockClient struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, m.Err
}

// LastPrompt returns the most recent prompt, or "" if none was sent.
func (m *MockClient) LastPrompt() string {
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}
