package services

import (
	"context"
	"time"

	"elvalg/internal/logger"

	"cloud.google.com/go/civil"
)

// DispatchFunc sends every reminder due on or before today.
type DispatchFunc func(ctx context.Context, today civil.Date) error

type ReminderScheduler struct {
	interval time.Duration
	location *time.Location
	dispatch DispatchFunc
	now      func() time.Time
	log      logger.Logger
}

func NewReminderScheduler(interval time.Duration, location *time.Location, dispatch DispatchFunc) *ReminderScheduler {
	if location == nil {
		location = time.UTC
	}
	return &ReminderScheduler{
		interval: interval,
		location: location,
		dispatch: dispatch,
		now:      time.Now,
		log:      logger.New("ReminderScheduler"),
	}
}

// Run dispatches once at startup and then on every tick until ctx is done.
// A failed run is logged and retried on the next tick.
func (s *ReminderScheduler) Run(ctx context.Context) error {
	log := s.log.Function("Run")

	if s.interval <= 0 {
		return log.Error("reminder interval must be positive", "interval", s.interval)
	}

	log.Info("Starting reminder scheduler", "interval", s.interval, "timezone", s.location.String())
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping reminder scheduler")
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *ReminderScheduler) tick(ctx context.Context) {
	today := civil.DateOf(s.now().In(s.location))
	if err := s.dispatch(ctx, today); err != nil && ctx.Err() == nil {
		s.log.Function("tick").Er("reminder dispatch failed", err, "today", today.String())
	}
}
