package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// offlineQuestion is what the "mock" provider kind answers once its queue
// is empty, so suggestions work without network access.
const offlineQuestion = `{"question":"Describe a skill you would like to learn and explain why."}`

// MockResponse is one queued answer: Content, or Err if set.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider answers from a queue and keeps every request it saw.
// Content is checked against req.Schema like a real provider would.
type MockProvider struct {
	// Fallback answers once the queue is drained. Nil means an
	// exhausted queue fails with ErrProviderUnavailable.
	Fallback json.RawMessage

	mu    sync.Mutex
	queue []MockResponse
	Calls []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var next MockResponse
	switch {
	case len(m.queue) > 0:
		next, m.queue = m.queue[0], m.queue[1:]
	case m.Fallback != nil:
		next = MockResponse{Content: m.Fallback}
	default:
		return nil, &ErrProviderUnavailable{}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	if err := validateResponse(req.Schema, next.Content); err != nil {
		return nil, err
	}

	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      m.ModelID(),
		StopReason: "end",
	}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues another answer.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastRequest returns the latest request, or false before the first call.
func (m *MockProvider) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
