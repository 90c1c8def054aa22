package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/diegoclair/slack-idea-bot/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is the work triggered on every scheduled tick.
type Job func(ctx context.Context) error

// Scheduler runs a job on a cron schedule in a fixed timezone.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	job     Job
	timeout time.Duration
	entryID cron.EntryID
}

// New parses spec (standard five-field cron) in loc. Each run gets timeout to finish.
func New(spec string, loc *time.Location, timeout time.Duration, job Job) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		spec:    spec,
		job:     job,
		timeout: timeout,
	}

	id, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	s.entryID = id

	return s, nil
}

func (s *Scheduler) Start() {
	logger.Info("Scheduler starting...", zap.String("schedule", s.spec), zap.Time("next_run", s.Next()))
	s.cron.Start()
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	logger.Info("Scheduler stopping...")
	<-s.cron.Stop().Done()
}

// Next returns the next time the job is due, zero before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.job(ctx); err != nil {
		logger.Error("Scheduled job failed", zap.String("schedule", s.spec), zap.Error(err))
	}
}
