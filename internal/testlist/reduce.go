package testlist

import (
	"github.com/abhisek/speaktest/internal/speakingtest"
)

// Action is a state transition request.
type Action interface {
	isAction()
}

// LoadSucceeded replaces the list with the backend's records.
type LoadSucceeded struct {
	Records []speakingtest.Record
}

// LoadFailed records that the initial load could not complete.
type LoadFailed struct {
	Err error
}

// DraftChanged updates the form text.
type DraftChanged struct {
	Text string
}

// CreateStarted clears the previous error when a valid submission is sent.
type CreateStarted struct{}

// CreateRejected records a submission that failed local validation.
type CreateRejected struct {
	Err error
}

// CreateSucceeded prepends the stored record and clears the draft.
type CreateSucceeded struct {
	Record speakingtest.Record
}

// CreateFailed records a failed create request.
type CreateFailed struct {
	Err error
}

// DeleteSucceeded removes the confirmed record.
type DeleteSucceeded struct {
	ID int64
}

// DeleteFailed records a failed delete request.
type DeleteFailed struct {
	Err error
}

// SuggestionReady fills the draft with a suggested question.
type SuggestionReady struct {
	Question string
}

// SuggestionFailed records a failed suggestion request.
type SuggestionFailed struct {
	Err error
}

// ErrorDismissed clears the visible error.
type ErrorDismissed struct{}

func (LoadSucceeded) isAction()    {}
func (LoadFailed) isAction()       {}
func (DraftChanged) isAction()     {}
func (CreateStarted) isAction()    {}
func (CreateRejected) isAction()   {}
func (CreateSucceeded) isAction()  {}
func (CreateFailed) isAction()     {}
func (DeleteSucceeded) isAction()  {}
func (DeleteFailed) isAction()     {}
func (SuggestionReady) isAction()  {}
func (SuggestionFailed) isAction() {}
func (ErrorDismissed) isAction()   {}

// Reduce applies a to s and returns the resulting state. s is not modified
// and the returned Records never share a backing array with s.Records when
// their contents differ.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadSucceeded:
		s.Records = cloneRecords(a.Records)
		s.LastError = ""
		s.PendingInitialLoad = false

	case LoadFailed:
		s.LastError = MsgUnreachable
		s.PendingInitialLoad = false

	case DraftChanged:
		s.DraftQuestion = a.Text

	case CreateStarted:
		s.LastError = ""

	case CreateRejected:
		s.LastError = MsgEmptyQuestion
		if a.Err != nil && a.Err != ErrEmptyQuestion {
			s.LastError = a.Err.Error()
		}

	case CreateSucceeded:
		records := make([]speakingtest.Record, 0, len(s.Records)+1)
		records = append(records, a.Record)
		records = append(records, s.Records...)
		s.Records = records
		s.DraftQuestion = ""

	case CreateFailed:
		s.LastError = CreateErrorMessage(a.Err)

	case DeleteSucceeded:
		s.Records = removeByID(s.Records, a.ID)

	case DeleteFailed:
		s.LastError = MsgDeleteFailed

	case SuggestionReady:
		s.DraftQuestion = a.Question

	case SuggestionFailed:
		s.LastError = MsgSuggestFailed

	case ErrorDismissed:
		s.LastError = ""
	}
	return s
}

func cloneRecords(in []speakingtest.Record) []speakingtest.Record {
	out := make([]speakingtest.Record, len(in))
	copy(out, in)
	return out
}

// removeByID returns records without entries whose ID is id. The input is
// returned unchanged when nothing matches.
func removeByID(records []speakingtest.Record, id int64) []speakingtest.Record {
	idx := -1
	for i, r := range records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return records
	}

	out := make([]speakingtest.Record, 0, len(records)-1)
	for _, r := range records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
