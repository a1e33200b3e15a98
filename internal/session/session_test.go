package session

import (
	"errors"
	"testing"
	"time"

	"github.com/metocafinal/turnos/internal/domain"
)

var base = time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)

// newSession builds a session with a frozen clock at base. The returned
// setter moves the clock.
func newSession(t *testing.T) (*Session, func(time.Time)) {
	t.Helper()
	now := base
	s := New(WithClock(func() time.Time { return now }))
	return s, func(at time.Time) { now = at }
}

func register(t *testing.T, s *Session) domain.User {
	t.Helper()
	u, err := s.Register("Ana", "ana@test.com", "3001234567")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func book(t *testing.T, s *Session, at time.Time) domain.Appointment {
	t.Helper()
	a, err := s.CreateAppointment(at)
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return a
}

func TestRegister(t *testing.T) {
	s, _ := newSession(t)

	if _, ok := s.CurrentUser(); ok {
		t.Fatal("fresh session has a user")
	}

	u := register(t, s)
	if u.Name != "Ana" || u.Email != "ana@test.com" || u.Phone != "3001234567" {
		t.Fatalf("unexpected user: %+v", u)
	}

	got, ok := s.CurrentUser()
	if !ok || got != u {
		t.Fatalf("CurrentUser = %+v, %v", got, ok)
	}
}

func TestRegisterRejectsAndStoresNothing(t *testing.T) {
	s, _ := newSession(t)

	_, err := s.Register("", "bad", "12")
	var fe domain.FieldErrors
	if !errors.As(err, &fe) || len(fe) != 3 {
		t.Fatalf("want 3 aggregated field errors, got %v", err)
	}
	if _, ok := s.CurrentUser(); ok {
		t.Fatal("failed registration stored a user")
	}
}

func TestRegisterStartsFreshSession(t *testing.T) {
	s, _ := newSession(t)
	register(t, s)
	book(t, s, base.Add(48*time.Hour))

	if _, err := s.Register("Luis", "luis@test.com", "3017654321"); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if got := s.Appointments(); len(got) != 0 {
		t.Fatalf("re-registration kept %d appointments", len(got))
	}
}

func TestCreateAppointment(t *testing.T) {
	s, _ := newSession(t)

	if _, err := s.CreateAppointment(base.Add(time.Hour)); !errors.Is(err, domain.ErrNoUser) {
		t.Fatalf("without user: got %v, want ErrNoUser", err)
	}

	register(t, s)

	if _, err := s.CreateAppointment(time.Time{}); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("zero timestamp: got %v, want ErrInvalidDate", err)
	}

	at := base.Add(24 * time.Hour)
	a := book(t, s, at)
	if a.ID == "" {
		t.Fatal("empty appointment id")
	}
	if !a.ScheduledAt.Equal(at) {
		t.Fatalf("scheduled at %v, want %v", a.ScheduledAt, at)
	}
	if a.Rated() || a.Comment != "" || a.Notified {
		t.Fatalf("new appointment not blank: %+v", a)
	}

	// duplicate timestamps are allowed
	b := book(t, s, at)
	if b.ID == a.ID {
		t.Fatal("duplicate ids")
	}
	if got := s.Appointments(); len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("agenda out of order: %+v", got)
	}
}

func TestRatePastAppointment(t *testing.T) {
	s, _ := newSession(t)
	register(t, s)
	a := book(t, s, base.Add(-24*time.Hour))

	if err := s.Rate(a.ID, 4, "great"); err != nil {
		t.Fatalf("rate: %v", err)
	}
	got := s.Appointments()[0]
	if got.Rating != 4 || got.Comment != "great" {
		t.Fatalf("rating not committed: %+v", got)
	}

	// second rating is rejected and the first one stands
	if err := s.Rate(a.ID, 5, "changed mind"); !errors.Is(err, domain.ErrAlreadyRated) {
		t.Fatalf("second rate: got %v, want ErrAlreadyRated", err)
	}
	got = s.Appointments()[0]
	if got.Rating != 4 || got.Comment != "great" {
		t.Fatalf("second rate mutated state: %+v", got)
	}
}

func TestRateFutureAppointment(t *testing.T) {
	s, setNow := newSession(t)
	register(t, s)
	a := book(t, s, base.Add(24*time.Hour))

	if err := s.Rate(a.ID, 5, "too early"); !errors.Is(err, domain.ErrFutureAppointment) {
		t.Fatalf("got %v, want ErrFutureAppointment", err)
	}
	if got := s.Appointments()[0]; got.Rated() {
		t.Fatalf("failed rate left a rating: %+v", got)
	}

	// once the appointment has occurred the same call succeeds
	setNow(base.Add(25 * time.Hour))
	if err := s.Rate(a.ID, 5, "worth the wait"); err != nil {
		t.Fatalf("rate after occurrence: %v", err)
	}
}

func TestRateErrors(t *testing.T) {
	s, _ := newSession(t)
	register(t, s)
	a := book(t, s, base.Add(-time.Hour))

	if err := s.Rate("no-such-id", 3, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id: got %v, want ErrNotFound", err)
	}
	for _, r := range []int{0, 6, -1} {
		if err := s.Rate(a.ID, r, ""); !errors.Is(err, domain.ErrInvalidRating) {
			t.Fatalf("rating %d: got %v, want ErrInvalidRating", r, err)
		}
	}
	if got := s.Appointments()[0]; got.Rated() {
		t.Fatalf("rejected ratings mutated state: %+v", got)
	}
}

func TestRatingDraftLifecycle(t *testing.T) {
	s, _ := newSession(t)
	register(t, s)
	a := book(t, s, base.Add(-time.Hour))

	if err := s.CancelPendingRating(a.ID); !errors.Is(err, domain.ErrNoPendingRating) {
		t.Fatalf("cancel without draft: got %v", err)
	}
	if err := s.SetRatingDraft(a.ID, RatingDraft{Rating: 3, Comment: "ok"}); err != nil {
		t.Fatalf("set draft: %v", err)
	}
	if d, ok := s.PendingDraft(a.ID); !ok || d.Rating != 3 {
		t.Fatalf("draft not stored: %+v %v", d, ok)
	}

	if err := s.CancelPendingRating(a.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, ok := s.PendingDraft(a.ID); ok {
		t.Fatal("draft survived cancel")
	}
	// the appointment itself was never touched
	if got := s.Appointments()[0]; got.Rated() {
		t.Fatalf("draft leaked into appointment: %+v", got)
	}

	if err := s.CancelPendingRating("no-such-id"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id: got %v, want ErrNotFound", err)
	}

	// commit discards the draft and cancel is rejected afterwards
	if err := s.SetRatingDraft(a.ID, RatingDraft{Rating: 5}); err != nil {
		t.Fatalf("set draft: %v", err)
	}
	if err := s.Rate(a.ID, 5, "done"); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, ok := s.PendingDraft(a.ID); ok {
		t.Fatal("draft survived commit")
	}
	if err := s.CancelPendingRating(a.ID); !errors.Is(err, domain.ErrAlreadyRated) {
		t.Fatalf("cancel after commit: got %v, want ErrAlreadyRated", err)
	}
	if err := s.SetRatingDraft(a.ID, RatingDraft{Rating: 1}); !errors.Is(err, domain.ErrAlreadyRated) {
		t.Fatalf("draft after commit: got %v, want ErrAlreadyRated", err)
	}
}

func TestClaimDue(t *testing.T) {
	s, _ := newSession(t)
	register(t, s)
	window := 24 * time.Hour

	inside := book(t, s, base.Add(23*time.Hour))
	book(t, s, base.Add(48*time.Hour))  // beyond window
	book(t, s, base.Add(-2*time.Hour))  // already past

	due := s.ClaimDue(base, window)
	if len(due) != 1 || due[0].ID != inside.ID {
		t.Fatalf("due = %+v, want only %s", due, inside.ID)
	}
	if !due[0].Notified {
		t.Fatal("claimed appointment not marked notified")
	}

	// same instant, later instant: never redelivered
	if due := s.ClaimDue(base, window); len(due) != 0 {
		t.Fatalf("redelivered: %+v", due)
	}
	if due := s.ClaimDue(base.Add(30*time.Minute), window); len(due) != 0 {
		t.Fatalf("redelivered later: %+v", due)
	}

	// the far appointment becomes due once the window reaches it
	due = s.ClaimDue(base.Add(25*time.Hour), window)
	if len(due) != 1 || !due[0].ScheduledAt.Equal(base.Add(48*time.Hour)) {
		t.Fatalf("far appointment: %+v", due)
	}
}

func TestAppointmentsReturnsSnapshots(t *testing.T) {
	s, _ := newSession(t)
	register(t, s)
	a := book(t, s, base.Add(-time.Hour))

	snap := s.Appointments()
	snap[0].Rating = 5
	snap[0].Comment = "tampered"

	if err := s.Rate(a.ID, 2, "real"); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if got := s.Appointments()[0]; got.Rating != 2 || got.Comment != "real" {
		t.Fatalf("snapshot mutation reached the session: %+v", got)
	}
}
