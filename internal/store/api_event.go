package store

import (
	"context"
	"fmt"
	"time"
)

var apiColumns = []string{
	"id", "sequence", "timestamp", "request_id", "operation", "method", "url",
	"record_id", "status_code", "latency_ms", "success", "error_message",
}

func (r *eventRepo) AppendAPIRequest(ctx context.Context, data APIRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite.Insert(apiTable).
		Columns(apiColumns[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			data.RequestID,
			data.Operation,
			data.Method,
			data.URL,
			data.RecordID,
			data.StatusCode,
			data.LatencyMs,
			data.Success,
			data.ErrorMessage,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save API request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAPIRequests(ctx context.Context, opts QueryOpts) ([]APIRequestEventRecord, error) {
	out, err := queryEvents(ctx, r, opts.selector(apiTable, apiColumns), scanAPIEvent)
	if err != nil {
		return nil, fmt.Errorf("query API events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetAPIRequest(ctx context.Context, id int) (*APIRequestEventRecord, error) {
	out, err := queryEvents(ctx, r, byID(apiTable, apiColumns, id), scanAPIEvent)
	if err != nil {
		return nil, fmt.Errorf("get API event: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func scanAPIEvent(s scanner) (APIRequestEventRecord, error) {
	var (
		rec APIRequestEventRecord
		ts  eventTime
	)
	err := s.Scan(
		&rec.ID, &rec.Sequence, &ts,
		&rec.RequestID, &rec.Operation, &rec.Method, &rec.URL,
		&rec.RecordID, &rec.StatusCode, &rec.LatencyMs,
		&rec.Success, &rec.ErrorMessage,
	)
	if err != nil {
		return rec, fmt.Errorf("scan API event: %w", err)
	}
	rec.Timestamp = time.Time(ts)
	return rec, nil
}
