// Package reminder derives which appointments are due a reminder.
// The engine decides what counts as due; when to ask is its callers'
// business (the Scheduler polls on a ticker, the UI asks on demand).
package reminder

import (
	"fmt"
	"time"

	"github.com/metocafinal/turnos/internal/domain"
)

// DefaultWindow is the rolling look-ahead for reminders.
const DefaultWindow = 24 * time.Hour

// Source hands out due appointments exactly once each.
// session.Session implements this.
type Source interface {
	ClaimDue(now time.Time, window time.Duration) []domain.Appointment
}

// Reminder pairs an appointment with its rendered message.
type Reminder struct {
	Appointment domain.Appointment
	Message     string
}

// Engine computes pending reminders over a Source.
type Engine struct {
	src    Source
	window time.Duration
}

// NewEngine creates an engine with the given look-ahead window;
// a non-positive window falls back to DefaultWindow.
func NewEngine(src Source, window time.Duration) *Engine {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Engine{src: src, window: window}
}

// Window returns the configured look-ahead.
func (e *Engine) Window() time.Duration { return e.window }

// Pending returns a reminder for every appointment inside
// [now, now+window] that has not been notified before. Delivery is
// at-most-once per appointment: repeated calls with the same or a later
// now never return an appointment again.
func (e *Engine) Pending(now time.Time) []Reminder {
	due := e.src.ClaimDue(now, e.window)
	if len(due) == 0 {
		return nil
	}
	out := make([]Reminder, len(due))
	for i, a := range due {
		out[i] = Reminder{Appointment: a, Message: FormatReminder(a)}
	}
	return out
}

// FormatReminder renders the human-readable reminder line. Bookings
// made without a time of day land on midnight; those show the date only.
func FormatReminder(a domain.Appointment) string {
	at := a.ScheduledAt
	layout := "02/01/2006 15:04"
	if at.Hour() == 0 && at.Minute() == 0 {
		layout = "02/01/2006"
	}
	return fmt.Sprintf("Reminder: you have an appointment scheduled for %s", at.Format(layout))
}
