package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.EventRepo().AppendAPIRequest(context.Background(), APIRequestEventData{
		RequestID: "a", Operation: "list", Method: "GET", URL: "http://x", Success: true,
	}))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	events, err := s2.EventRepo().QueryAPIRequests(context.Background(), QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestAppendAndQueryAPIRequests(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendAPIRequest(ctx, APIRequestEventData{
		RequestID:  "req-1",
		Operation:  "list",
		Method:     "GET",
		URL:        "http://localhost:5000/api/speaking-tests",
		StatusCode: 200,
		LatencyMs:  12,
		Success:    true,
	}))
	require.NoError(t, repo.AppendAPIRequest(ctx, APIRequestEventData{
		RequestID:    "req-2",
		Operation:    "delete",
		Method:       "DELETE",
		URL:          "http://localhost:5000/api/speaking-tests/1",
		RecordID:     1,
		StatusCode:   500,
		Success:      false,
		ErrorMessage: "delete: HTTP 500",
	}))

	events, err := repo.QueryAPIRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, "req-2", events[0].RequestID)
	assert.Equal(t, int64(1), events[0].RecordID)
	assert.False(t, events[0].Success)
	assert.Equal(t, "delete: HTTP 500", events[0].ErrorMessage)
	assert.Equal(t, "req-1", events[1].RequestID)
	assert.True(t, events[1].Success)
	assert.Greater(t, events[0].Sequence, events[1].Sequence)
	assert.False(t, events[0].Timestamp.IsZero())

	limited, err := repo.QueryAPIRequests(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	after, err := repo.QueryAPIRequests(ctx, QueryOpts{After: events[1].Sequence})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "req-2", after[0].RequestID)
}

func TestGetAPIRequest(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendAPIRequest(ctx, APIRequestEventData{
		RequestID: "req-1", Operation: "create", Method: "POST", URL: "http://x", Success: true,
	}))

	events, err := repo.QueryAPIRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	got, err := repo.GetAPIRequest(ctx, events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "create", got.Operation)

	missing, err := repo.GetAPIRequest(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSequenceSharedAcrossKinds(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendAPIRequest(ctx, APIRequestEventData{RequestID: "a", Operation: "list", Method: "GET", URL: "u", Success: true}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "suggest", Success: true}))
	require.NoError(t, repo.AppendAPIRequest(ctx, APIRequestEventData{RequestID: "b", Operation: "create", Method: "POST", URL: "u", Success: true}))

	api, err := repo.QueryAPIRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	llm, err := repo.QueryLLMRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, api, 2)
	require.Len(t, llm, 1)

	assert.Less(t, api[1].Sequence, llm[0].Sequence)
	assert.Less(t, llm[0].Sequence, api[0].Sequence)
}

func TestLLMRequestRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "claude-haiku-4-5-20251001",
		Model:        "claude-haiku-4-5-20251001",
		Purpose:      "question-suggest",
		InputTokens:  120,
		OutputTokens: 30,
		LatencyMs:    800,
		Success:      true,
		RequestBody:  "[user]\nSuggest a question",
		ResponseBody: `{"question":"Describe a place you like."}`,
	}))

	events, err := repo.QueryLLMRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	got, err := repo.GetLLMRequest(ctx, events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "question-suggest", got.Purpose)
	assert.Equal(t, 120, got.InputTokens)
	assert.Equal(t, 30, got.OutputTokens)
	assert.Equal(t, `{"question":"Describe a place you like."}`, got.ResponseBody)
}

func TestQueryAPIRequestsFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	start := time.Now()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.AppendAPIRequest(ctx, APIRequestEventData{
			RequestID: id, Operation: "list", Method: "GET", URL: "u", Success: true,
		}))
	}

	all, err := repo.QueryAPIRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.WithinDuration(t, start, all[0].Timestamp, time.Minute)

	before, err := repo.QueryAPIRequests(ctx, QueryOpts{Before: all[0].Sequence})
	require.NoError(t, err)
	require.Len(t, before, 2)
	assert.Equal(t, "b", before[0].RequestID)

	window, err := repo.QueryAPIRequests(ctx, QueryOpts{After: all[2].Sequence, Before: all[0].Sequence})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "b", window[0].RequestID)

	recent, err := repo.QueryAPIRequests(ctx, QueryOpts{From: start.Add(-time.Minute), To: time.Now().Add(time.Minute)})
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	future, err := repo.QueryAPIRequests(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)

	past, err := repo.QueryLLMRequests(ctx, QueryOpts{To: start.Add(-time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestMigrationTablesFollowEntSchemas(t *testing.T) {
	tables, err := migrationTables()
	require.NoError(t, err)
	require.Len(t, tables, 2)

	api := tables[0]
	assert.Equal(t, apiTable, api.Name)
	require.Len(t, api.PrimaryKey, 1)
	assert.Equal(t, "id", api.PrimaryKey[0].Name)

	names := make([]string, 0, len(api.Columns))
	for _, c := range api.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, apiColumns, names)

	var seqUnique bool
	for _, c := range api.Columns {
		if c.Name == "sequence" {
			seqUnique = c.Unique
		}
	}
	assert.True(t, seqUnique)

	indexNames := make([]string, 0, len(api.Indexes))
	for _, ix := range api.Indexes {
		indexNames = append(indexNames, ix.Name)
	}
	assert.Contains(t, indexNames, "api_request_events_timestamp")
	assert.Contains(t, indexNames, "api_request_events_operation")

	llm := tables[1]
	assert.Equal(t, llmTable, llm.Name)
	assert.Len(t, llm.Columns, len(llmColumns))
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "speaktest.db")
	t.Setenv("SPEAKTEST_DB", p)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SPEAKTEST_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "speaktest", "speaktest.db"), got)
}

func TestEventTimeScan(t *testing.T) {
	want := time.Date(2025, 3, 10, 12, 0, 0, 500, time.UTC)

	tests := []struct {
		name string
		in   any
	}{
		{"time", want},
		{"driver text", want.String()},
		{"rfc3339", want.Format(time.RFC3339Nano)},
		{"bytes", []byte(want.Format(time.RFC3339Nano))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got eventTime
			require.NoError(t, got.Scan(tt.in))
			assert.True(t, want.Equal(time.Time(got)))
		})
	}

	var bad eventTime
	assert.Error(t, bad.Scan("yesterday"))
	assert.Error(t, bad.Scan(42))
}
