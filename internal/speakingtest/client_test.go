package speakingtest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		endpoint string
		wantErr  bool
	}{
		{"plain", "http://localhost:5000", "http://localhost:5000/api/speaking-tests", false},
		{"trailing slash", "http://localhost:5000/", "http://localhost:5000/api/speaking-tests", false},
		{"https prefix path", "https://example.com/backend", "https://example.com/backend/api/speaking-tests", false},
		{"no scheme", "localhost:5000", "", true},
		{"ftp", "ftp://example.com", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(ClientConfig{BaseURL: tt.baseURL})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.endpoint, c.Endpoint())
		})
	}
}

func TestClientList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, BasePath, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"data":[
			{"id":3,"question":"Describe your hometown.","response":"It is small.","score":7.5,"created_at":"2024-01-01T00:00:00Z"},
			{"id":1,"question":"Talk about a hobby.","response":null,"score":null,"created_at":"Mon, 01 Jan 2024 10:00:00 GMT"}
		]}`)
	})

	records, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(3), records[0].ID)
	assert.Equal(t, "Describe your hometown.", records[0].Question)
	assert.Equal(t, "It is small.", records[0].Response)
	assert.True(t, records[0].Score.Present())
	assert.Equal(t, "7.5", records[0].Score.String())
	assert.True(t, records[0].CreatedAt.Valid())

	assert.Equal(t, int64(1), records[1].ID)
	assert.Empty(t, records[1].Response)
	assert.False(t, records[1].Score.Present())
	assert.True(t, records[1].CreatedAt.Valid())
}

func TestClientListEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	})

	records, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestClientListStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.List(context.Background())
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.False(t, IsUnreachable(err))
}

func TestClientListMalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing data", `{"items":[]}`},
		{"data not array", `{"data":{"id":1}}`},
		{"record without question", `{"data":[{"id":1}]}`},
		{"string id", `{"data":[{"id":"1","question":"q"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.List(context.Background())
			var ire *InvalidResponseError
			require.ErrorAs(t, err, &ire)
			assert.Equal(t, "list", ire.Op)
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: url})
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnreachable(err))

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "list", te.Op)
}

func TestClientCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, BasePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Talk about a hobby.", body["question"])
		assert.Equal(t, float64(1), body["authorId"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"id":2,"question":"Talk about a hobby.","created_at":"2024-02-02T00:00:00Z"}}`)
	})

	rec, err := c.Create(context.Background(), CreateInput{Question: "Talk about a hobby.", AuthorID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.ID)
	assert.Equal(t, "Talk about a hobby.", rec.Question)
	assert.Equal(t, "2024-02-02T00:00:00Z", rec.CreatedAt.Raw)
}

func TestClientCreateServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Question too long"}`)
	})

	_, err := c.Create(context.Background(), CreateInput{Question: "q", AuthorID: 1})
	require.Error(t, err)

	msg, ok := ServerMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Question too long", msg)
}

func TestClientCreateNoServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `upstream down`)
	})

	_, err := c.Create(context.Background(), CreateInput{Question: "q", AuthorID: 1})
	require.Error(t, err)

	_, ok := ServerMessage(err)
	assert.False(t, ok)
}

func TestClientDelete(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `anything at all`)
	})

	require.NoError(t, c.Delete(context.Background(), 42))
	assert.Equal(t, BasePath+"/42", gotPath)
}

func TestClientDeleteNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.Delete(context.Background(), 7)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestClientSendsRequestIDFromContext(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		_, _ = io.WriteString(w, `{"data":[]}`)
	})

	_, err := c.List(WithRequestID(context.Background(), "fixed-id"))
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", got)
}

func TestClientCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
