package limiter

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSweepSchedule runs the sweep once a minute.
const DefaultSweepSchedule = "@every 1m"

var sweepParser = cron.NewParser(
	cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

// ParseSchedule validates a sweep schedule: a 5-field cron expression or a descriptor like "@every 30s".
func ParseSchedule(expr string) (cron.Schedule, error) {
	clean := strings.TrimSpace(expr)
	if clean == "" {
		return nil, fmt.Errorf("sweep schedule is required")
	}
	s, err := sweepParser.Parse(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule: %w", err)
	}
	return s, nil
}

// Sweeper periodically removes expired limiter records.
type Sweeper struct {
	c *cron.Cron
}

// StartSweeper schedules l.Sweep on expr and starts the scheduler.
func StartSweeper(l Limiter, expr string, log *zap.Logger) (*Sweeper, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sched, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}

	c := cron.New(cron.WithParser(sweepParser), cron.WithChain(cron.Recover(cron.DiscardLogger)))
	c.Schedule(sched, cron.FuncJob(func() {
		if n := l.Sweep(context.Background()); n > 0 {
			log.Info("expired limiter records removed", zap.Int("count", n))
		}
	}))
	c.Start()
	return &Sweeper{c: c}, nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.c.Stop().Done()
}
