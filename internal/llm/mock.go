package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockClient is a deterministic client for tests and offline demos. Each
// call emits a submit_idea tool call with a distinct prompt.
type MockClient struct {
	mu    sync.Mutex
	calls int
}

// NewMockClient returns a simple mock.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Create(ctx context.Context, req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	args, _ := json.Marshal(map[string]any{
		"prompt": fmt.Sprintf("make me a falling-blocks puzzle game, variation %d, using html, css, js", m.calls),
	})
	return Response{ToolCalls: []ToolCall{{
		ID:        fmt.Sprintf("call_%d", m.calls),
		Name:      "submit_idea",
		Arguments: args,
	}}}, nil
}
