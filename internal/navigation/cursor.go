// Package navigation moves the focused day of a calendar grid in response to
// key presses.
package navigation

import (
	"fmt"
	"strings"

	"github.com/example/calendar-core/internal/calendar"
)

// Key names accepted by Apply. Arrow keys and Enter/Space/Escape follow DOM
// KeyboardEvent.key values; the remaining names are header button intents.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyEnter      = "Enter"
	KeySpace      = " "
	KeyEscape     = "Escape"
	KeyPrevMonth  = "PrevMonth"
	KeyNextMonth  = "NextMonth"
	KeyToday      = "Today"
)

// Action tells the caller what the key press asks for beyond moving focus.
type Action string

const (
	ActionNone  Action = ""
	ActionMove  Action = "move"
	ActionOpen  Action = "open"
	ActionClose Action = "close"
)

// KeyPress is a single key event.
type KeyPress struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Alt   bool
	Shift bool
}

func (k KeyPress) hasModifier() bool {
	return k.Ctrl || k.Meta || k.Alt
}

// Cursor is the focused day plus the month the grid is anchored to.
type Cursor struct {
	Focused   calendar.Date
	Reference calendar.Date
}

// NewCursor focuses day and anchors the grid to its month.
func NewCursor(day calendar.Date) Cursor {
	return Cursor{Focused: day, Reference: day.FirstOfMonth()}
}

// Apply returns the cursor after press along with the requested action.
// today is used by the Today intent. Presses with ctrl, meta or alt held and
// unknown keys leave the cursor unchanged.
func (c Cursor) Apply(press KeyPress, today calendar.Date) (Cursor, Action) {
	if press.hasModifier() {
		return c, ActionNone
	}

	switch press.Key {
	case KeyArrowUp:
		return c.moveBy(-7), ActionMove
	case KeyArrowDown:
		return c.moveBy(7), ActionMove
	case KeyArrowLeft:
		return c.moveBy(-1), ActionMove
	case KeyArrowRight:
		return c.moveBy(1), ActionMove
	case KeyEnter, KeySpace:
		return c, ActionOpen
	case KeyEscape:
		return c, ActionClose
	case KeyPrevMonth:
		return c.shiftMonth(-1), ActionMove
	case KeyNextMonth:
		return c.shiftMonth(1), ActionMove
	case KeyToday:
		return NewCursor(today), ActionMove
	}
	return c, ActionNone
}

// ParseKey validates a key name received from a client.
func ParseKey(value string) (string, error) {
	switch value {
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight,
		KeyEnter, KeySpace, KeyEscape, KeyPrevMonth, KeyNextMonth, KeyToday:
		return value, nil
	}
	if strings.EqualFold(value, "space") {
		return KeySpace, nil
	}
	return "", fmt.Errorf("navigation: unsupported key %q", value)
}

func (c Cursor) moveBy(days int) Cursor {
	focused := c.Focused.AddDays(days)
	reference := c.Reference
	if reference.IsZero() || !focused.SameMonth(reference) {
		reference = focused.FirstOfMonth()
	}
	return Cursor{Focused: focused, Reference: reference}
}

func (c Cursor) shiftMonth(n int) Cursor {
	reference := c.Reference
	if reference.IsZero() {
		reference = c.Focused
	}
	reference = reference.AddMonths(n)

	// Keep the focused day-of-month where the target month allows it.
	last := reference.AddMonths(1).AddDays(-1)
	day := c.Focused.Day
	if day > last.Day {
		day = last.Day
	}
	focused := calendar.Date{Year: reference.Year, Month: reference.Month, Day: day}
	return Cursor{Focused: focused, Reference: reference}
}
