package speakingtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BasePath is the collection path of the speaking-test REST resource.
const BasePath = "/api/speaking-tests"

// API is the REST collaborator the test list depends on.
type API interface {
	// List returns every record in backend order.
	List(ctx context.Context) ([]Record, error)

	// Create submits a new question and returns the stored record.
	Create(ctx context.Context, input CreateInput) (*Record, error)

	// Delete removes the record with the given id.
	Delete(ctx context.Context, id int64) error
}

// CreateInput is the body of a create request.
type CreateInput struct {
	Question string `json:"question"`
	AuthorID int64  `json:"authorId"`
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the backend origin, e.g. "http://localhost:5000".
	BaseURL string

	// Timeout bounds a single request. Zero leaves the transport default.
	Timeout time.Duration

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client implements API over HTTP/JSON.
type Client struct {
	endpoint string
	client   *http.Client
}

var _ API = (*Client)(nil)

// NewClient creates a Client for the backend at cfg.BaseURL.
func NewClient(cfg ClientConfig) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", cfg.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL %q has no host", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		endpoint: strings.TrimRight(u.String(), "/") + BasePath,
		client:   hc,
	}, nil
}

// Endpoint returns the collection URL the client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type listResponse struct {
	Data []Record `json:"data"`
}

type recordResponse struct {
	Data Record `json:"data"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *Client) List(ctx context.Context) ([]Record, error) {
	body, err := c.do(ctx, "list", http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}

	if err := listEnvelope.validate(body); err != nil {
		return nil, &InvalidResponseError{Op: "list", Body: body, Err: err}
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &InvalidResponseError{Op: "list", Body: body, Err: err}
	}
	if resp.Data == nil {
		resp.Data = []Record{}
	}
	return resp.Data, nil
}

func (c *Client) Create(ctx context.Context, input CreateInput) (*Record, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal create request: %w", err)
	}

	body, err := c.do(ctx, "create", http.MethodPost, c.endpoint, payload)
	if err != nil {
		return nil, err
	}

	if err := recordEnvelope.validate(body); err != nil {
		return nil, &InvalidResponseError{Op: "create", Body: body, Err: err}
	}

	var resp recordResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &InvalidResponseError{Op: "create", Body: body, Err: err}
	}
	return &resp.Data, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	target := c.endpoint + "/" + strconv.FormatInt(id, 10)
	_, err := c.do(ctx, "delete", http.MethodDelete, target, nil)
	return err
}

// do performs one request and returns the body of a 2xx response.
// Non-2xx responses become *StatusError and transport failures
// *TransportError.
func (c *Client) do(ctx context.Context, op, method, target string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", RequestIDFrom(ctx))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Op: op, StatusCode: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(body, &er) == nil {
			se.Message = strings.TrimSpace(er.Message)
		}
		return nil, se
	}

	return body, nil
}

type contextKey string

const requestIDKey contextKey = "speakingtest_request_id"

// WithRequestID attaches a request id to ctx. The client sends it as the
// X-Request-ID header and the logging decorator records it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request id attached to ctx, generating a new
// one when none is set.
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v
	}
	return uuid.New().String()
}
