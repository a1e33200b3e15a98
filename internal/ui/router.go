package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/metocafinal/turnos/assets"
	"github.com/metocafinal/turnos/internal/reminder"
	"github.com/metocafinal/turnos/internal/session"
)

// Pending state keys used in conversational flows.
const (
	pendingName    = "await_name"
	pendingEmail   = "await_email"
	pendingPhone   = "await_phone"
	pendingDate    = "await_date"
	pendingTime    = "await_time"
	pendingRating  = "await_rating"
	pendingComment = "await_comment"
)

// form accumulates the inputs of whichever flow is in progress.
type form struct {
	name, email, phone string
	date               string
	ratingID           string
	rating             int
}

// Router turns terminal input lines into engine calls and renders the
// results. Input handling is single-threaded; only the output writer is
// shared with the reminder scheduler goroutine, so only writes are
// locked.
type Router struct {
	sess   *session.Session
	engine *reminder.Engine
	log    *zap.Logger

	mu  sync.Mutex
	out io.Writer

	pending     string // current conversational state, "" when idle
	form        form
	requireTime bool
	loc         *time.Location
	now         func() time.Time
}

// NewRouter creates a terminal router writing to out. requireTime makes
// booking ask for a time of day; loc is the zone typed dates are in.
func NewRouter(sess *session.Session, engine *reminder.Engine, log *zap.Logger, out io.Writer, requireTime bool, loc *time.Location) *Router {
	if loc == nil {
		loc = time.Local
	}
	return &Router{
		sess:        sess,
		engine:      engine,
		log:         log,
		out:         out,
		requireTime: requireTime,
		loc:         loc,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Greet prints the banner and the opening hint.
func (r *Router) Greet() {
	r.print(assets.Banner)
	if u, ok := r.sess.CurrentUser(); ok {
		r.print(fmt.Sprintf(greetingFmt, u.Name))
		return
	}
	r.print(welcomeText)
}

// HandleLine routes a single input line. It returns true when the user
// asked to quit.
func (r *Router) HandleLine(line string) bool {
	text := strings.TrimSpace(line)
	if text == "" {
		return false
	}

	switch {
	case text == "register":
		r.handleRegister()
	case text == "book":
		r.handleBook()
	case text == "agenda":
		r.handleAgenda()
	case text == "rate" || strings.HasPrefix(text, "rate "):
		r.handleRate(strings.TrimSpace(strings.TrimPrefix(text, "rate")))
	case text == "cancel":
		r.handleCancel()
	case text == "reminders":
		r.handleReminders()
	case text == "help":
		r.print(assets.Help)
	case text == "quit" || text == "exit":
		r.print(byeText)
		return true
	default:
		// Free-form text feeds whichever flow is waiting for input.
		r.handleFreeForm(text)
	}
	return false
}

// Notify renders a due reminder as a toast line. This makes Router
// satisfy reminder.Sink.
func (r *Router) Notify(rem reminder.Reminder) error {
	r.print("🔔 " + rem.Message)
	return nil
}

// print writes a line, synchronized against the scheduler goroutine.
func (r *Router) print(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.out, s)
}

// prompt writes a prompt without a trailing newline.
func (r *Router) prompt(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprint(r.out, s)
}

func (r *Router) reset() {
	r.pending = ""
	r.form = form{}
}
