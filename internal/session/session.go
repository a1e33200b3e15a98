// Package session owns all state of a single booking session: the
// registered user, the ordered appointment list, and in-progress rating
// drafts. Every mutation goes through Session methods; the reminder
// poller runs on its own goroutine, so the whole state sits behind one
// mutex and each public operation is atomic.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/metocafinal/turnos/internal/domain"
)

// RatingDraft is a rating the user is still composing. It lives outside
// the appointment itself: committing goes through Rate, abandoning it
// through CancelPendingRating.
type RatingDraft struct {
	Rating  int
	Comment string
}

// Session is the single-user state owner. The zero value is not usable;
// construct with New.
type Session struct {
	mu           sync.Mutex
	user         *domain.User
	appointments []*domain.Appointment
	drafts       map[string]RatingDraft

	now   func() time.Time
	newID func() string
}

// Option customizes a Session, mainly for tests.
type Option func(*Session)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator replaces the appointment id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		drafts: make(map[string]RatingDraft),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the three identity fields together and, on
// success, installs the user. Registration starts a fresh session:
// a previously registered user and their appointments are dropped.
// On failure nothing changes and the aggregated field errors are
// returned.
func (s *Session) Register(name, email, phone string) (domain.User, error) {
	if err := domain.ValidateRegistration(name, email, phone); err != nil {
		return domain.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := domain.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		RegisteredAt: s.now(),
	}
	s.user = &u
	s.appointments = nil
	s.drafts = make(map[string]RatingDraft)
	return u, nil
}

// CurrentUser returns a snapshot of the registered user, if any.
func (s *Session) CurrentUser() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// CreateAppointment books a new appointment at the given instant and
// appends it to the agenda. Duplicate timestamps are allowed. A zero
// timestamp from a confused caller fails closed with ErrInvalidDate.
func (s *Session) CreateAppointment(scheduledAt time.Time) (domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return domain.Appointment{}, domain.ErrNoUser
	}
	if scheduledAt.IsZero() {
		return domain.Appointment{}, fmt.Errorf("%w: zero timestamp", domain.ErrInvalidDate)
	}

	a := &domain.Appointment{
		ID:          s.newID(),
		ScheduledAt: scheduledAt.UTC(),
		CreatedAt:   s.now(),
	}
	s.appointments = append(s.appointments, a)
	return *a, nil
}

// Rate commits a rating and comment onto a past, unrated appointment.
// Both fields are set together or not at all; a committed rating is
// final. Any draft for the appointment is discarded on success.
func (s *Session) Rate(id string, rating int, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.find(id)
	if a == nil {
		return domain.ErrNotFound
	}
	if a.ScheduledAt.After(s.now()) {
		return domain.ErrFutureAppointment
	}
	if a.Rated() {
		return domain.ErrAlreadyRated
	}
	if !domain.ValidRating(rating) {
		return domain.ErrInvalidRating
	}

	a.Rating = rating
	a.Comment = comment
	delete(s.drafts, id)
	return nil
}

// SetRatingDraft stores an in-progress rating for an appointment so a
// conversational form can resume it later. The same gates as Rate apply
// except the value range, which is only enforced on commit.
func (s *Session) SetRatingDraft(id string, draft RatingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.find(id)
	if a == nil {
		return domain.ErrNotFound
	}
	if a.Rated() {
		return domain.ErrAlreadyRated
	}
	s.drafts[id] = draft
	return nil
}

// PendingDraft returns the stored draft for an appointment, if any.
func (s *Session) PendingDraft(id string) (RatingDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	return d, ok
}

// CancelPendingRating abandons an in-progress rating draft. It never
// touches a committed rating: an already-rated appointment fails with
// ErrAlreadyRated, an unknown id with ErrNotFound, and an appointment
// with nothing in progress with ErrNoPendingRating.
func (s *Session) CancelPendingRating(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.find(id)
	if a == nil {
		return domain.ErrNotFound
	}
	if a.Rated() {
		return domain.ErrAlreadyRated
	}
	if _, ok := s.drafts[id]; !ok {
		return domain.ErrNoPendingRating
	}
	delete(s.drafts, id)
	return nil
}

// Appointments returns the agenda in insertion order as value copies.
func (s *Session) Appointments() []domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Appointment, len(s.appointments))
	for i, a := range s.appointments {
		out[i] = *a
	}
	return out
}

// ClaimDue selects every not-yet-notified appointment scheduled inside
// [now, now+window], marks it notified, and returns snapshots. Marking
// happens under the same lock as selection, so an appointment is
// claimed at most once no matter how often the poller fires.
func (s *Session) ClaimDue(now time.Time, window time.Duration) []domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []domain.Appointment
	for _, a := range s.appointments {
		if a.Notified || !a.InWindow(now, window) {
			continue
		}
		a.Notified = true
		due = append(due, *a)
	}
	return due
}

// find returns the appointment with the given id. Caller holds the lock.
func (s *Session) find(id string) *domain.Appointment {
	for _, a := range s.appointments {
		if a.ID == id {
			return a
		}
	}
	return nil
}
