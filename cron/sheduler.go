package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartCron schedules every registered job and starts the scheduler. A job
// still running when its next tick arrives skips that tick.
func StartCron(ctx context.Context, r *Registry, log *zap.Logger) (*cron.Cron, error) {
	if log == nil {
		log = zap.NewNop()
	}
	logger := zapLogger{log.Sugar()}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	for name, j := range r.Jobs() {
		name, run := name, j.Run
		_, err := c.AddFunc(j.Schedule, func() {
			start := time.Now()
			if err := run(ctx); err != nil {
				log.Error("cron job failed", zap.String("job", name), zap.Error(err))
				return
			}
			log.Info("cron job done", zap.String("job", name), zap.Duration("took", time.Since(start)))
		})
		if err != nil {
			return nil, fmt.Errorf("register job %s: %w", name, err)
		}
	}
	c.Start()
	return c, nil
}

// zapLogger satisfies cron.Logger.
type zapLogger struct {
	log *zap.SugaredLogger
}

func (l zapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw("cron: "+msg, keysAndValues...)
}

func (l zapLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
