package speakingtest

import (
	"context"
	"sync"
)

// MockAPI is a deterministic API for testing.
// It returns the configured results and records every call.
type MockAPI struct {
	mu sync.Mutex

	ListResult []Record
	ListErr    error

	CreateResult *Record
	CreateErr    error

	DeleteErr error

	ListCalls   int
	CreateCalls []CreateInput
	DeleteCalls []int64
}

var _ API = (*MockAPI)(nil)

// NewMockAPI creates a MockAPI whose List returns records.
func NewMockAPI(records ...Record) *MockAPI {
	return &MockAPI{ListResult: records}
}

func (m *MockAPI) List(_ context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]Record, len(m.ListResult))
	copy(out, m.ListResult)
	return out, nil
}

func (m *MockAPI) Create(_ context.Context, input CreateInput) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, input)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.CreateResult == nil {
		return &Record{Question: input.Question}, nil
	}
	rec := *m.CreateResult
	return &rec, nil
}

func (m *MockAPI) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)
	return m.DeleteErr
}

// CallCount returns the total number of requests issued.
func (m *MockAPI) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListCalls + len(m.CreateCalls) + len(m.DeleteCalls)
}
