// Package schedule repeats a job on a cron schedule without ever running
// two instances at once.
package schedule

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is one scheduled unit of work. Errors are logged; they do not stop
// the schedule.
type Job func(ctx context.Context) error

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Parse validates a standard five-field expression or a descriptor such
// as "@hourly" or "@every 10m".
func Parse(spec string) (cron.Schedule, error) {
	s, err := parser.Parse(spec)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schedule %q", spec)
	}
	return s, nil
}

type Scheduler struct {
	Spec       string
	// RunAtStart runs the job once before the first tick.
	RunAtStart bool

	sched cron.Schedule
	job   Job
	log   logrus.FieldLogger
}

func New(spec string, job Job, log logrus.FieldLogger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("schedule: nil job")
	}
	s, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{Spec: spec, sched: s, job: job, log: log.WithField("schedule", spec)}, nil
}

// Next returns the first activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.sched.Next(t)
}

// Run blocks until ctx is cancelled, then waits for a job in flight.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.RunAtStart {
		s.runOnce(ctx)
	}
	if ctx.Err() != nil {
		return nil
	}

	logger := cron.PrintfLogger(s.log)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(s.sched, cron.FuncJob(func() { s.runOnce(ctx) }))
	c.Start()
	s.log.WithField("next", s.Next(time.Now()).Format(time.RFC3339)).Info("watching")

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := time.Now()
	if err := s.job(ctx); err != nil {
		s.log.WithError(err).Error("scheduled run failed")
		return
	}
	s.log.WithField("took", time.Since(start).Round(time.Millisecond)).Debug("scheduled run done")
}
