package indexing

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

// Scheduler runs the indexing job of several stages on a cron schedule
type Scheduler struct {
	job       *Job
	cron      *cron.Cron
	stages    []model.Stage
	types     []string
	temporary bool
}

// NewScheduler creates a scheduler indexing types of every stage at each
// tick of schedule. No types means every type the job knows.
func NewScheduler(job *Job, schedule string, stages []model.Stage, types []string, temporary bool) (*Scheduler, error) {
	if len(types) == 0 {
		types = job.Types()
	}
	s := &Scheduler{
		job:       job,
		cron:      cron.New(),
		stages:    stages,
		types:     types,
		temporary: temporary,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid indexing schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce indexes every stage once. A failing stage does not stop the
// following ones.
func (s *Scheduler) RunOnce(ctx context.Context) map[model.Stage][]*Report {
	result := make(map[model.Stage][]*Report, len(s.stages))
	for _, stage := range s.stages {
		logger := s.job.logger.WithField("stage", string(stage))
		logger.Infof("Starting to index %d types", len(s.types))
		reports, err := s.job.RunAll(ctx, stage, s.types, s.temporary)
		if err != nil {
			logger.WithError(err).Error("Indexing failed")
		} else {
			logger.Info("Indexing completed successfully")
		}
		result[stage] = reports
	}
	return result
}

// Start starts the schedule in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the schedule and waits for a running job to complete
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
