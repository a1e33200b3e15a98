package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/metocafinal/turnos/internal/domain"
)

// UI texts in English
const (
	welcomeText = "Welcome! Type 'register' to create your profile, or 'help' for all commands."
	greetingFmt = "Welcome, %s!"

	promptName    = "Name: "
	promptEmail   = "Email: "
	promptPhone   = "Phone (10 digits): "
	promptDate    = "Date (DD/MM/YYYY): "
	promptTime    = "Time (HH:MM): "
	promptRating  = "Rating (1-5): "
	promptComment = "Comment: "

	registeredText  = "You are registered. Type 'book' to schedule an appointment."
	bookedFmt       = "Appointment scheduled for %s."
	ratedText       = "Thanks, your rating was saved."
	cancelledText   = "Rating discarded."
	nothingToCancel = "There is no rating in progress."
	noRemindersText = "No upcoming-appointment reminders right now."
	emptyAgendaText = "No appointments scheduled."
	unknownCmdFmt   = "Unknown command %q. Type 'help' for the command list."
	byeText         = "Goodbye!"
)

// errorMessage translates an error kind from the engine into the line
// shown to the user. The engine itself never renders anything.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoUser):
		return "You need to register before booking. Type 'register'."
	case errors.Is(err, domain.ErrInvalidDate):
		return "Enter a valid date, like 15/09/2026."
	case errors.Is(err, domain.ErrInvalidTime):
		return "Enter a valid time, like 14:30."
	case errors.Is(err, domain.ErrNotFound):
		return "That appointment does not exist. Check the agenda numbers."
	case errors.Is(err, domain.ErrFutureAppointment):
		return "You cannot rate a future appointment."
	case errors.Is(err, domain.ErrAlreadyRated):
		return "This appointment has already been rated."
	case errors.Is(err, domain.ErrInvalidRating):
		return "The rating must be a number from 1 to 5."
	case errors.Is(err, domain.ErrNoPendingRating):
		return nothingToCancel
	case errors.Is(err, domain.ErrEmptyName):
		return "Enter your name."
	case errors.Is(err, domain.ErrInvalidEmail):
		return "Enter a valid email address."
	case errors.Is(err, domain.ErrInvalidPhone):
		return "Enter a valid phone number (10 digits)."
	}
	return "Something went wrong: " + err.Error()
}

// renderAgenda draws the appointment table: date, comment, and a
// rating column with stars or the current status.
func renderAgenda(appointments []domain.Appointment, now time.Time) string {
	if len(appointments) == 0 {
		return emptyAgendaText
	}
	var b strings.Builder
	b.WriteString("  #  Date              Comment               Rating\n")
	for i, a := range appointments {
		rating := ""
		switch a.Status(now) {
		case domain.StatusRated:
			rating = fmt.Sprintf("%d %s", a.Rating, stars(a.Rating))
		case domain.StatusAwaitingRating:
			rating = "awaiting rating"
		case domain.StatusPending:
			rating = "upcoming"
		}
		fmt.Fprintf(&b, "%3d  %-17s %-21s %s\n",
			i+1, formatSchedule(a.ScheduledAt), clip(a.Comment, 21), rating)
	}
	return strings.TrimRight(b.String(), "\n")
}

func stars(n int) string {
	return strings.Repeat("★", n)
}

// formatSchedule hides the midnight time of date-only bookings.
func formatSchedule(at time.Time) string {
	if at.Hour() == 0 && at.Minute() == 0 {
		return at.Format("02/01/2006")
	}
	return at.Format("02/01/2006 15:04")
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
