package reminder

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sink receives due reminders. The terminal UI implements this
// (method: Notify) and renders them as toast lines.
type Sink interface {
	Notify(r Reminder) error
}

// Scheduler periodically asks the engine for due reminders and hands
// them to the sink.
type Scheduler struct {
	engine   *Engine
	log      *zap.Logger
	sink     Sink
	interval time.Duration
}

// NewScheduler creates a Scheduler polling at the given interval.
func NewScheduler(engine *Engine, log *zap.Logger, sink Sink, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{engine: engine, log: log, sink: sink, interval: interval}
}

// Run starts the poll loop until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopping")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick performs one delivery cycle.
func (s *Scheduler) tick() {
	now := time.Now().UTC()
	for _, r := range s.engine.Pending(now) {
		if err := s.sink.Notify(r); err != nil {
			s.log.Error("reminder delivery failed",
				zap.Error(err),
				zap.String("appointmentID", r.Appointment.ID),
			)
			continue
		}
		s.log.Debug("reminder delivered",
			zap.String("appointmentID", r.Appointment.ID),
			zap.Time("scheduledAt", r.Appointment.ScheduledAt),
		)
	}
}
