package domain

import (
	"errors"
	"time"
)

var (
	ErrNoUser            = errors.New("no registered user")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidTime       = errors.New("invalid time")
	ErrNotFound          = errors.New("appointment not found")
	ErrFutureAppointment = errors.New("appointment has not occurred yet")
	ErrAlreadyRated      = errors.New("appointment already rated")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrNoPendingRating   = errors.New("no rating in progress")
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Status represents where an appointment sits in its lifecycle.
type Status string

const (
	StatusPending        Status = "pending"         // scheduled in the future, not ratable yet
	StatusAwaitingRating Status = "awaiting_rating" // occurred, still unrated
	StatusRated          Status = "rated"           // terminal
)

// Appointment is a scheduled booking. Comment and Rating stay zero
// until a single successful rating commits both together.
type Appointment struct {
	ID          string
	ScheduledAt time.Time // UTC
	Comment     string
	Rating      int  // 0 = unrated, otherwise 1..5
	Notified    bool // a reminder was already emitted
	CreatedAt   time.Time
}

// Rated reports whether a rating has been committed.
func (a Appointment) Rated() bool { return a.Rating != 0 }

// Status derives the lifecycle state at the given instant.
func (a Appointment) Status(now time.Time) Status {
	if a.Rated() {
		return StatusRated
	}
	if a.ScheduledAt.After(now) {
		return StatusPending
	}
	return StatusAwaitingRating
}

// InWindow reports whether the appointment falls inside [now, now+window],
// endpoints inclusive.
func (a Appointment) InWindow(now time.Time, window time.Duration) bool {
	if a.ScheduledAt.Before(now) {
		return false
	}
	return !a.ScheduledAt.After(now.Add(window))
}

// ValidRating reports whether r is an acceptable rating value.
func ValidRating(r int) bool { return r >= MinRating && r <= MaxRating }
