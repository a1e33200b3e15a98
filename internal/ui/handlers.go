package ui

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/metocafinal/turnos/internal/domain"
	"github.com/metocafinal/turnos/internal/session"
)

// --- Commands ---

func (r *Router) handleRegister() {
	r.reset()
	r.pending = pendingName
	r.prompt(promptName)
}

func (r *Router) handleBook() {
	if _, ok := r.sess.CurrentUser(); !ok {
		r.print(errorMessage(domain.ErrNoUser))
		return
	}
	r.reset()
	r.pending = pendingDate
	r.prompt(promptDate)
}

func (r *Router) handleAgenda() {
	r.print(renderAgenda(r.sess.Appointments(), r.now()))
}

func (r *Router) handleReminders() {
	rs := r.engine.Pending(r.now())
	if len(rs) == 0 {
		r.print(noRemindersText)
		return
	}
	for _, rem := range rs {
		r.print("🔔 " + rem.Message)
	}
}

// handleRate starts the rating flow for the agenda entry the user named.
func (r *Router) handleRate(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		r.print("Usage: rate <n> — n is the agenda number.")
		return
	}
	appts := r.sess.Appointments()
	if n < 1 || n > len(appts) {
		r.print(errorMessage(domain.ErrNotFound))
		return
	}
	a := appts[n-1]

	// Reject upfront instead of after the user typed a whole rating.
	switch a.Status(r.now()) {
	case domain.StatusPending:
		r.print(errorMessage(domain.ErrFutureAppointment))
		return
	case domain.StatusRated:
		r.print(errorMessage(domain.ErrAlreadyRated))
		return
	}

	if err := r.sess.SetRatingDraft(a.ID, session.RatingDraft{}); err != nil {
		r.print(errorMessage(err))
		return
	}
	r.reset()
	r.form.ratingID = a.ID
	r.pending = pendingRating
	r.prompt(promptRating)
}

// handleCancel abandons the rating in progress, or whatever other flow
// is waiting for input.
func (r *Router) handleCancel() {
	if r.form.ratingID != "" {
		if err := r.sess.CancelPendingRating(r.form.ratingID); err != nil {
			r.log.Warn("cancel pending rating", zap.Error(err))
		}
		r.reset()
		r.print(cancelledText)
		return
	}
	if r.pending != "" {
		r.reset()
		r.print(cancelledText)
		return
	}
	r.print(nothingToCancel)
}

// --- Conversational flows ---

func (r *Router) handleFreeForm(text string) {
	switch r.pending {
	case pendingName:
		r.form.name = text
		r.pending = pendingEmail
		r.prompt(promptEmail)
	case pendingEmail:
		r.form.email = text
		r.pending = pendingPhone
		r.prompt(promptPhone)
	case pendingPhone:
		r.form.phone = text
		r.finishRegistration()
	case pendingDate:
		r.form.date = text
		if r.requireTime {
			r.pending = pendingTime
			r.prompt(promptTime)
			return
		}
		r.finishBooking("")
	case pendingTime:
		r.finishBooking(text)
	case pendingRating:
		r.stepRating(text)
	case pendingComment:
		r.finishRating(text)
	default:
		r.print(fmt.Sprintf(unknownCmdFmt, text))
	}
}

// finishRegistration submits all three fields at once so every invalid
// one is reported together.
func (r *Router) finishRegistration() {
	u, err := r.sess.Register(r.form.name, r.form.email, r.form.phone)
	r.reset()
	if err != nil {
		var fe domain.FieldErrors
		if errors.As(err, &fe) {
			for _, field := range []string{"name", "email", "phone"} {
				if ferr := fe.Field(field); ferr != nil {
					r.print(errorMessage(ferr))
				}
			}
			r.print("Type 'register' to try again.")
			return
		}
		r.print(errorMessage(err))
		return
	}
	r.print(fmt.Sprintf(greetingFmt, u.Name))
	r.print(registeredText)
}

func (r *Router) finishBooking(timeStr string) {
	date := r.form.date
	r.reset()

	at, err := domain.ParseSchedule(date, timeStr, r.requireTime, r.loc)
	if err != nil {
		r.print(errorMessage(err))
		return
	}
	a, err := r.sess.CreateAppointment(at)
	if err != nil {
		r.print(errorMessage(err))
		return
	}
	r.print(fmt.Sprintf(bookedFmt, formatSchedule(a.ScheduledAt)))

	// An appointment inside the reminder window gets its reminder right
	// away rather than waiting for the next poll.
	for _, rem := range r.engine.Pending(r.now()) {
		r.print("🔔 " + rem.Message)
	}
}

func (r *Router) stepRating(text string) {
	n, err := strconv.Atoi(text)
	if err != nil || !domain.ValidRating(n) {
		r.print(errorMessage(domain.ErrInvalidRating))
		r.prompt(promptRating)
		return
	}
	r.form.rating = n
	if err := r.sess.SetRatingDraft(r.form.ratingID, session.RatingDraft{Rating: n}); err != nil {
		r.print(errorMessage(err))
		r.reset()
		return
	}
	r.pending = pendingComment
	r.prompt(promptComment)
}

func (r *Router) finishRating(comment string) {
	id, rating := r.form.ratingID, r.form.rating
	r.reset()
	if err := r.sess.Rate(id, rating, comment); err != nil {
		r.print(errorMessage(err))
		return
	}
	r.print(ratedText)
}
