// Package testlist holds the state container behind the speaking-test list
// view. State values are never mutated in place: Reduce returns a new State
// for every action.
package testlist

import (
	"errors"
	"strings"

	"github.com/abhisek/speaktest/internal/speakingtest"
)

// User-visible error messages.
const (
	MsgUnreachable   = "Failed to load tests. Is the backend running?"
	MsgEmptyQuestion = "Question cannot be empty"
	MsgCreateFailed  = "Failed to create test"
	MsgDeleteFailed  = "Failed to delete test"
	MsgSuggestFailed = "Failed to suggest a question"
)

// ErrEmptyQuestion is returned by ValidateQuestion for blank input.
var ErrEmptyQuestion = errors.New(MsgEmptyQuestion)

// State is the complete view state of the test list.
type State struct {
	// Records is the cached list, newest first after creation.
	Records []speakingtest.Record

	// PendingInitialLoad is true until the first Load resolves.
	PendingInitialLoad bool

	// DraftQuestion is the text bound to the submission form.
	DraftQuestion string

	// LastError is the single visible error; empty when none.
	LastError string
}

// Initial returns the state of a freshly mounted view.
func Initial() State {
	return State{
		Records:            []speakingtest.Record{},
		PendingInitialLoad: true,
	}
}

// ShowTroubleshooting reports whether the error region should include the
// backend troubleshooting hint.
func (s State) ShowTroubleshooting() bool {
	return s.LastError == MsgUnreachable
}

// IndexOf returns the position of the record with id, or -1.
func (s State) IndexOf(id int64) int {
	for i, r := range s.Records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// ValidateQuestion checks the draft before any request is issued.
func ValidateQuestion(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyQuestion
	}
	return nil
}

// CreateErrorMessage maps a create failure to the message shown to the user.
func CreateErrorMessage(err error) string {
	if msg, ok := speakingtest.ServerMessage(err); ok {
		return msg
	}
	return MsgCreateFailed
}
