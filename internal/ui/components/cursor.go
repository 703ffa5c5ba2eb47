package components

import (
	tea "charm.land/bubbletea/v2"
)

// Cursor tracks the selected row of a vertical list whose length can
// change between updates.
type Cursor struct {
	Selected int
}

// Update moves the cursor on up/down/j/k/home/end within [0, n).
func (c Cursor) Update(msg tea.Msg, n int) Cursor {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c.Clamp(n)
	}

	switch kmsg.String() {
	case "up", "k":
		c.Selected--
	case "down", "j":
		c.Selected++
	case "home", "g":
		c.Selected = 0
	case "end", "G":
		c.Selected = n - 1
	}
	return c.Clamp(n)
}

// Clamp keeps the cursor inside a list of n rows. An empty list yields 0.
func (c Cursor) Clamp(n int) Cursor {
	if c.Selected >= n {
		c.Selected = n - 1
	}
	if c.Selected < 0 {
		c.Selected = 0
	}
	return c
}

// VisibleRange picks the rows to draw when row i is heights[i] lines tall
// and at most budget lines fit. The selected row is always included; the
// range grows downward first, then upward.
func VisibleRange(heights []int, selected, budget int) (int, int) {
	n := len(heights)
	if n == 0 {
		return 0, 0
	}
	if selected < 0 || selected >= n {
		selected = 0
	}

	start, end := selected, selected+1
	used := heights[selected]
	for end < n && used+heights[end] <= budget {
		used += heights[end]
		end++
	}
	for start > 0 && used+heights[start-1] <= budget {
		start--
		used += heights[start]
	}
	return start, end
}
