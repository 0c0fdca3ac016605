// Package scheduler runs periodic jobs (holding revaluation) on cron specs with seconds.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Runner struct {
	cron    *cron.Cron
	baseCtx context.Context
}

func New(baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	logger := cronLogger{l: log.With().Str("component", "cron").Logger()}
	return &Runner{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		baseCtx: baseCtx,
	}
}

// Add schedules job on spec ("0 */15 * * * *", "@every 1h").
func (r *Runner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() { job(r.baseCtx) })
}

func (r *Runner) Start() {
	log.Info().Int("jobs", len(r.cron.Entries())).Msg("cron started")
	r.cron.Start()
}

// Stop waits for running jobs to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	log.Info().Msg("cron stopped")
}

// Revaluer recomputes stored holding values from live prices.
type Revaluer interface {
	Revalue(ctx context.Context) (int, error)
}

// RevalueJob wraps a Revaluer as a cron job with a per-run timeout.
func RevalueJob(rv Revaluer, timeout time.Duration) func(context.Context) {
	return func(ctx context.Context) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		n, err := rv.Revalue(ctx)
		if err != nil {
			log.Error().Err(err).Msg("scheduled revaluation failed")
			return
		}
		log.Info().Int("updated", n).Dur("took", time.Since(start)).Msg("scheduled revaluation done")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
