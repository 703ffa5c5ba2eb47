package tests

import "github.com/abhisek/speaktest/internal/testlist"

// actionMsg carries the outcome of an asynchronous operation back to the
// screen that issued it.
type actionMsg struct {
	viewID uint64
	action testlist.Action
}

// Background marks actionMsg for delivery even when the screen is covered.
func (actionMsg) Background() {}
