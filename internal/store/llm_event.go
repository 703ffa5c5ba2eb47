package store

import (
	"context"
	"fmt"
	"time"
)

var llmColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite.Insert(llmTable).
		Columns(llmColumns[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			data.Provider,
			data.Model,
			data.Purpose,
			data.InputTokens,
			data.OutputTokens,
			data.LatencyMs,
			data.Success,
			data.ErrorMessage,
			data.RequestBody,
			data.ResponseBody,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}

	return nil
}

func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	out, err := queryEvents(ctx, r, opts.selector(llmTable, llmColumns), scanLLMEvent)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetLLMRequest(ctx context.Context, id int) (*LLMRequestEventRecord, error) {
	out, err := queryEvents(ctx, r, byID(llmTable, llmColumns, id), scanLLMEvent)
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func scanLLMEvent(s scanner) (LLMRequestEventRecord, error) {
	var (
		rec LLMRequestEventRecord
		ts  eventTime
	)
	err := s.Scan(
		&rec.ID, &rec.Sequence, &ts,
		&rec.Provider, &rec.Model, &rec.Purpose,
		&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs,
		&rec.Success, &rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody,
	)
	if err != nil {
		return rec, fmt.Errorf("scan LLM event: %w", err)
	}
	rec.Timestamp = time.Time(ts)
	return rec, nil
}
