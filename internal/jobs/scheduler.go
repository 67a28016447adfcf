package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"coursecatalog/api/internal/events"
)

const DefaultSnapshotSchedule = "0 0 3 * * *"

type Enqueuer interface {
	Publish(ctx context.Context, ev events.Event) error
}

// Scheduler enqueues periodic tasks on the catalog event stream. The worker
// does the actual work.
type Scheduler struct {
	cron     *cron.Cron
	queue    Enqueuer
	schedule string
	log      zerolog.Logger
}

func NewScheduler(queue Enqueuer, schedule string, log zerolog.Logger) *Scheduler {
	if schedule == "" {
		schedule = DefaultSnapshotSchedule
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		queue:    queue,
		schedule: schedule,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.enqueueSnapshot); err != nil {
		return fmt.Errorf("schedule snapshot %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("snapshot scheduler started")
	return nil
}

// Stop halts the cron and returns a context that is done once any running
// enqueue has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) enqueueSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.queue.Publish(ctx, events.Event{Type: events.TypeSnapshot}); err != nil {
		s.log.Error().Err(err).Msg("enqueue snapshot failed")
	}
}
