package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// APIRequestEventData captures one call to the speaking-test backend.
type APIRequestEventData struct {
	RequestID    string
	Operation    string // list, create, delete
	Method       string
	URL          string
	RecordID     int64
	StatusCode   int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// APIRequestEventRecord is a stored APIRequestEventData.
type APIRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	APIRequestEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLMRequestEventData.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to request events.
type EventRepo interface {
	// AppendAPIRequest records a speaking-test backend call.
	AppendAPIRequest(ctx context.Context, data APIRequestEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryAPIRequests returns API events, newest first.
	QueryAPIRequests(ctx context.Context, opts QueryOpts) ([]APIRequestEventRecord, error)

	// QueryLLMRequests returns LLM events, newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetAPIRequest returns one API event, or nil if it does not exist.
	GetAPIRequest(ctx context.Context, id int) (*APIRequestEventRecord, error)

	// GetLLMRequest returns one LLM event, or nil if it does not exist.
	GetLLMRequest(ctx context.Context, id int) (*LLMRequestEventRecord, error)
}
