package background

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-rates-pipeline/internal/domain"
	"github.com/robfig/cron/v3"
)

// RatesJob is one fetch-enrich-publish cycle.
type RatesJob interface {
	FetchAndPublish(ctx context.Context) domain.Outcome
}

// RatesScheduler runs a RatesJob once at start and then on a fixed interval.
// A tick that lands while a cycle is still running is skipped.
type RatesScheduler struct {
	job      RatesJob
	interval time.Duration
	logger   *slog.Logger

	cron *cron.Cron
	wg   sync.WaitGroup
}

func NewRatesScheduler(job RatesJob, interval time.Duration, logger *slog.Logger) (*RatesScheduler, error) {
	if job == nil {
		return nil, errors.New("rates scheduler: job is required")
	}
	if interval <= 0 {
		return nil, errors.New("rates scheduler: interval must be positive")
	}
	return &RatesScheduler{job: job, interval: interval, logger: logger}, nil
}

// Start schedules the job and triggers the first cycle immediately. Once ctx
// is done no new cycle starts, but one already running is left to finish.
func (s *RatesScheduler) Start(ctx context.Context) {
	cl := cronLogger{logger: s.logger}
	s.cron = cron.New(cron.WithLogger(cl))

	wrapped := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(func() {
		s.runCycle(ctx)
	}))
	s.cron.Schedule(fixedPeriod(s.interval), wrapped)
	s.cron.Start()

	s.logger.Info("Rates scheduler started", "interval", s.interval.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		wrapped.Run()
	}()
}

// Stop halts the schedule and waits for running cycles to return.
func (s *RatesScheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("Rates scheduler stopped")
}

func (s *RatesScheduler) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	started := time.Now()
	out := s.job.FetchAndPublish(context.WithoutCancel(ctx))
	s.logger.Debug("rates cycle finished",
		"ok", out.OK(), "stage", out.Stage, "duration", time.Since(started).String())
}

// fixedPeriod fires d after the previous activation. Unlike cron.Every it
// does not round d down to whole seconds.
type fixedPeriod time.Duration

func (p fixedPeriod) Next(t time.Time) time.Time {
	return t.Add(time.Duration(p))
}

// cronLogger routes cron's own diagnostics into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
