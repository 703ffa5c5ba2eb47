package testlist

import (
	"context"

	"github.com/abhisek/speaktest/internal/speakingtest"
)

// Service runs the list operations against the backend and reports each
// outcome as an Action for Reduce.
type Service struct {
	api      speakingtest.API
	authorID int64
}

// NewService creates a Service. authorID is sent with every created record.
func NewService(api speakingtest.API, authorID int64) *Service {
	return &Service{api: api, authorID: authorID}
}

// Load fetches every record.
func (s *Service) Load(ctx context.Context) Action {
	records, err := s.api.List(ctx)
	if err != nil {
		return LoadFailed{Err: err}
	}
	return LoadSucceeded{Records: records}
}

// Submit validates question and, when valid, returns the action to apply
// immediately plus a function that performs the request. The function is
// nil when validation fails; no request is issued in that case.
func (s *Service) Submit(question string) (Action, func(context.Context) Action) {
	if err := ValidateQuestion(question); err != nil {
		return CreateRejected{Err: err}, nil
	}
	return CreateStarted{}, func(ctx context.Context) Action {
		return s.Create(ctx, question)
	}
}

// Create submits question as a new record. The text is sent as typed.
func (s *Service) Create(ctx context.Context, question string) Action {
	rec, err := s.api.Create(ctx, speakingtest.CreateInput{
		Question: question,
		AuthorID: s.authorID,
	})
	if err != nil {
		return CreateFailed{Err: err}
	}
	return CreateSucceeded{Record: *rec}
}

// Delete removes the record with id. Ids no longer in the list are still
// sent to the backend.
func (s *Service) Delete(ctx context.Context, id int64) Action {
	if err := s.api.Delete(ctx, id); err != nil {
		return DeleteFailed{Err: err}
	}
	return DeleteSucceeded{ID: id}
}
