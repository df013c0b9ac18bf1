package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
)

// RunFunc performs one exploration run.
type RunFunc func(ctx context.Context) error

type Scheduler struct {
	ctx     context.Context
	cron    *cron.Cron
	spec    string
	timeout time.Duration
	run     RunFunc
	log     *slog.Logger
}

func New(
	ctx context.Context,
	spec string,
	timeout time.Duration,
	run RunFunc,
	log *slog.Logger,
) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:     ctx,
		cron:    c,
		spec:    spec,
		timeout: timeout,
		run:     run,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return fmt.Errorf("add cron func (spec = %s): %w", s.spec, err)
	}

	s.cron.Start()

	return nil
}

// Stop waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	start := time.Now()

	if err := s.run(ctx); err != nil {
		s.log.ErrorContext(ctx, "Scheduled run failed",
			"error", err,
			"spec", s.spec,
			"durationSeconds", time.Since(start).Seconds())
		return
	}

	s.log.InfoContext(ctx, "Scheduled run is finished",
		"spec", s.spec,
		"durationSeconds", time.Since(start).Seconds())
}
