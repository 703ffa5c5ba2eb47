package speakingtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/speaktest/internal/store"
)

// LoggingAPI is a decorator that records every backend call as an event.
type LoggingAPI struct {
	inner     API
	endpoint  string
	eventRepo store.EventRepo
}

var _ API = (*LoggingAPI)(nil)

// WithLogging wraps an API with event logging. endpoint is the collection
// URL recorded with each event.
func WithLogging(api API, endpoint string, repo store.EventRepo) API {
	return &LoggingAPI{inner: api, endpoint: endpoint, eventRepo: repo}
}

func (l *LoggingAPI) List(ctx context.Context) ([]Record, error) {
	ctx, ev := l.begin(ctx, "list", http.MethodGet, l.endpoint, 0)
	records, err := l.inner.List(ctx)
	l.finish(ctx, ev, err)
	return records, err
}

func (l *LoggingAPI) Create(ctx context.Context, input CreateInput) (*Record, error) {
	ctx, ev := l.begin(ctx, "create", http.MethodPost, l.endpoint, 0)
	rec, err := l.inner.Create(ctx, input)
	if rec != nil {
		ev.data.RecordID = rec.ID
	}
	l.finish(ctx, ev, err)
	return rec, err
}

func (l *LoggingAPI) Delete(ctx context.Context, id int64) error {
	target := l.endpoint + "/" + strconv.FormatInt(id, 10)
	ctx, ev := l.begin(ctx, "delete", http.MethodDelete, target, id)
	err := l.inner.Delete(ctx, id)
	l.finish(ctx, ev, err)
	return err
}

type pendingEvent struct {
	start time.Time
	data  store.APIRequestEventData
}

func (l *LoggingAPI) begin(ctx context.Context, op, method, url string, recordID int64) (context.Context, *pendingEvent) {
	requestID := uuid.New().String()
	return WithRequestID(ctx, requestID), &pendingEvent{
		start: time.Now(),
		data: store.APIRequestEventData{
			RequestID: requestID,
			Operation: op,
			Method:    method,
			URL:       url,
			RecordID:  recordID,
		},
	}
}

func (l *LoggingAPI) finish(ctx context.Context, ev *pendingEvent, err error) {
	ev.data.LatencyMs = time.Since(ev.start).Milliseconds()
	ev.data.Success = err == nil
	if err != nil {
		ev.data.ErrorMessage = err.Error()
		var se *StatusError
		if errors.As(err, &se) {
			ev.data.StatusCode = se.StatusCode
		}
	}

	// The caller's context may already be cancelled (view disposed);
	// the event is still worth keeping.
	logCtx := context.WithoutCancel(ctx)

	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendAPIRequest(logCtx, ev.data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log API request event: %v\n", logErr)
	}
}
