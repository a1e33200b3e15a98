package app

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/metocafinal/turnos/internal/config"
	"github.com/metocafinal/turnos/internal/reminder"
	"github.com/metocafinal/turnos/internal/session"
	"github.com/metocafinal/turnos/internal/ui"
)

// App wires the session engine, the reminder poller and the terminal
// front end together.
type App struct {
	cfg config.Config
	log *zap.Logger

	in  io.Reader
	out io.Writer
}

// New creates an App reading from stdin and writing to stdout.
func New(cfg config.Config, log *zap.Logger) *App {
	return &App{cfg: cfg, log: log, in: os.Stdin, out: os.Stdout}
}

// Run starts the reminder poller and the interactive loop, and blocks
// until the user quits, input ends, or a signal arrives.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting turnos",
		zap.Duration("reminderWindow", a.cfg.ReminderWindow),
		zap.Duration("pollInterval", a.cfg.PollInterval),
		zap.Bool("requireTime", a.cfg.RequireTime),
	)

	sess := session.New()
	engine := reminder.NewEngine(sess, a.cfg.ReminderWindow)
	router := ui.NewRouter(sess, engine, a.log, a.out, a.cfg.RequireTime, a.cfg.Location())
	sched := reminder.NewScheduler(engine, a.log, router, a.cfg.PollInterval)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sched.Run(ctx)

	// Read input on its own goroutine so the loop can also watch ctx.
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(a.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			a.log.Error("input read failed", zap.Error(err))
		}
	}()

	router.Greet()
	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			return nil
		case line, ok := <-lines:
			if !ok {
				a.log.Info("input closed")
				return nil
			}
			if router.HandleLine(line) {
				return nil
			}
		}
	}
}
