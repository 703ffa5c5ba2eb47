// Package tests implements the speaking-test list screen: it loads every
// record on mount, creates records from a one-field form and deletes the
// selected record.
package tests

import (
	"context"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/speaktest/internal/router"
	"github.com/abhisek/speaktest/internal/screen"
	"github.com/abhisek/speaktest/internal/screens/detail"
	"github.com/abhisek/speaktest/internal/suggest"
	"github.com/abhisek/speaktest/internal/testlist"
	"github.com/abhisek/speaktest/internal/ui/components"
	"github.com/abhisek/speaktest/internal/ui/layout"
)

// Suggester proposes a question for the form. *suggest.Suggester satisfies it.
type Suggester interface {
	Suggest(ctx context.Context, input suggest.Input) (string, error)
}

type focusArea int

const (
	focusForm focusArea = iota
	focusList
)

var lastViewID atomic.Uint64

// TestListScreen implements screen.Screen for the speaking-test list.
type TestListScreen struct {
	id       uint64
	ctx      context.Context
	cancel   context.CancelFunc
	disposed bool

	service   *testlist.Service
	suggester Suggester
	baseURL   string

	state      testlist.State
	input      components.TextInput
	cursor     components.Cursor
	focus      focusArea
	suggesting bool
}

var (
	_ screen.Screen          = (*TestListScreen)(nil)
	_ screen.KeyHintProvider = (*TestListScreen)(nil)
	_ screen.Disposer        = (*TestListScreen)(nil)
)

// New creates the screen. suggester may be nil, which disables
// suggestions. baseURL is only shown in troubleshooting hints.
func New(service *testlist.Service, suggester Suggester, baseURL string) *TestListScreen {
	ctx, cancel := context.WithCancel(context.Background())
	input := components.NewTextInput("Enter your speaking test question", 0)
	return &TestListScreen{
		id:        lastViewID.Add(1),
		ctx:       ctx,
		cancel:    cancel,
		service:   service,
		suggester: suggester,
		baseURL:   baseURL,
		state:     testlist.Initial(),
		input:     input,
	}
}

// Init issues the initial load.
func (s *TestListScreen) Init() tea.Cmd {
	return s.run(s.service.Load)
}

func (s *TestListScreen) Title() string {
	return "Speaking Tests"
}

// State returns a copy of the current view state.
func (s *TestListScreen) State() testlist.State {
	return s.state
}

// Dispose cancels in-flight requests. Results that arrive later are dropped.
func (s *TestListScreen) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.cancel()
}

func (s *TestListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case actionMsg:
		if msg.viewID != s.id || s.disposed {
			return s, nil
		}
		s.apply(msg.action)
		return s, nil

	case tea.KeyMsg:
		if s.disposed || s.state.PendingInitialLoad {
			return s, nil
		}
		if msg.String() == "tab" {
			return s, s.toggleFocus()
		}
		if s.focus == focusForm {
			return s.handleFormKey(msg)
		}
		return s.handleListKey(msg)
	}

	// Pastes and cursor blinks reach the input here.
	if s.focus == focusForm && !s.disposed {
		return s, s.updateInput(msg)
	}
	return s, nil
}

// updateInput forwards msg to the text input and mirrors any edit into
// DraftQuestion, so submit always sees what is on screen.
func (s *TestListScreen) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if v := s.input.Value(); v != s.state.DraftQuestion {
		s.state = testlist.Reduce(s.state, testlist.DraftChanged{Text: v})
	}
	return cmd
}

// apply reduces a into the state and syncs the widgets that mirror it.
// The selection follows the selected record when rows are added or removed
// above it.
func (s *TestListScreen) apply(a testlist.Action) {
	selected := int64(-1)
	if n := len(s.state.Records); n > 0 && s.cursor.Selected < n {
		selected = s.state.Records[s.cursor.Selected].ID
	}

	s.state = testlist.Reduce(s.state, a)

	switch a.(type) {
	case testlist.SuggestionReady, testlist.SuggestionFailed:
		s.suggesting = false
	}
	if s.input.Value() != s.state.DraftQuestion {
		s.input.SetValue(s.state.DraftQuestion)
	}
	if i := s.state.IndexOf(selected); i >= 0 {
		s.cursor.Selected = i
	}
	s.cursor = s.cursor.Clamp(len(s.state.Records))
}

// run executes fn off the update loop, bound to this screen's lifetime.
func (s *TestListScreen) run(fn func(context.Context) testlist.Action) tea.Cmd {
	id, ctx := s.id, s.ctx
	return func() tea.Msg {
		return actionMsg{viewID: id, action: fn(ctx)}
	}
}

func (s *TestListScreen) toggleFocus() tea.Cmd {
	if s.focus == focusForm {
		s.focus = focusList
		s.input.Blur()
		return nil
	}
	s.focus = focusForm
	return s.input.Focus()
}

func (s *TestListScreen) handleFormKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return s, s.submit()
	case "ctrl+g":
		return s, s.suggest()
	}

	return s, s.updateInput(msg)
}

func (s *TestListScreen) handleListKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "d", "delete":
		return s, s.deleteSelected()
	case "x":
		s.apply(testlist.ErrorDismissed{})
		return s, nil
	case "enter":
		if len(s.state.Records) == 0 {
			return s, nil
		}
		rec := s.state.Records[s.cursor.Selected]
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: detail.New(rec)}
		}
	}

	s.cursor = s.cursor.Update(msg, len(s.state.Records))
	return s, nil
}

// submit validates the draft and, if valid, issues exactly one create.
func (s *TestListScreen) submit() tea.Cmd {
	action, create := s.service.Submit(s.state.DraftQuestion)
	s.apply(action)
	if create == nil {
		return nil
	}
	return s.run(create)
}

func (s *TestListScreen) deleteSelected() tea.Cmd {
	if len(s.state.Records) == 0 {
		return nil
	}
	id := s.state.Records[s.cursor.Selected].ID
	return s.run(func(ctx context.Context) testlist.Action {
		return s.service.Delete(ctx, id)
	})
}

func (s *TestListScreen) suggest() tea.Cmd {
	if s.suggester == nil || s.suggesting {
		return nil
	}
	s.suggesting = true

	in := suggest.Input{Avoid: make([]string, 0, len(s.state.Records))}
	for _, r := range s.state.Records {
		in.Avoid = append(in.Avoid, r.Question)
	}
	sg := s.suggester
	return s.run(func(ctx context.Context) testlist.Action {
		q, err := sg.Suggest(ctx, in)
		if err != nil {
			return testlist.SuggestionFailed{Err: err}
		}
		return testlist.SuggestionReady{Question: q}
	})
}

func (s *TestListScreen) KeyHints() []layout.KeyHint {
	if s.state.PendingInitialLoad {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}

	if s.focus == focusForm {
		hints := []layout.KeyHint{{Key: "Enter", Description: "Add test"}}
		if s.suggester != nil {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+G", Description: "Suggest"})
		}
		return append(hints,
			layout.KeyHint{Key: "Tab", Description: "List"},
			layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
		)
	}

	hints := []layout.KeyHint{{Key: "↑↓", Description: "Select"}}
	if len(s.state.Records) > 0 {
		hints = append(hints,
			layout.KeyHint{Key: "Enter", Description: "Details"},
			layout.KeyHint{Key: "D", Description: "Delete"},
		)
	}
	if s.state.LastError != "" {
		hints = append(hints, layout.KeyHint{Key: "X", Description: "Dismiss"})
	}
	return append(hints,
		layout.KeyHint{Key: "Tab", Description: "Form"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}
