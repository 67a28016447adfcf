package tasks

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"coursecatalog/api/internal/events"
	"coursecatalog/api/internal/models"
)

type CourseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, courses []models.Course, at time.Time) (string, error)
	PruneSnapshots(ctx context.Context) (int, error)
}

// DirtyMarker records that the catalog changed since the last snapshot.
// Workers in one consumer group must share it, since the change event and
// the snapshot task may be delivered to different workers.
type DirtyMarker interface {
	Mark(ctx context.Context) error
	// Take reports whether the marker was set and clears it.
	Take(ctx context.Context) (bool, error)
}

// LocalDirty is an in-process DirtyMarker for a single worker.
type LocalDirty struct {
	flag atomic.Bool
}

func (d *LocalDirty) Mark(context.Context) error {
	d.flag.Store(true)
	return nil
}

func (d *LocalDirty) Take(context.Context) (bool, error) {
	return d.flag.Swap(false), nil
}

// Processor handles entries from the catalog stream. Course events mark the
// catalog dirty; snapshot tasks export it when dirty.
type Processor struct {
	courses   CourseLister
	snapshots SnapshotWriter
	dirty     DirtyMarker
	logger    zerolog.Logger
	now       func() time.Time

	// booted flips on the first snapshot task so that one always runs.
	booted atomic.Bool
}

// NewProcessor uses a LocalDirty marker when dirty is nil.
func NewProcessor(courses CourseLister, snapshots SnapshotWriter, dirty DirtyMarker, logger zerolog.Logger) *Processor {
	if dirty == nil {
		dirty = &LocalDirty{}
	}
	return &Processor{
		courses:   courses,
		snapshots: snapshots,
		dirty:     dirty,
		logger:    logger,
		now:       time.Now,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	ev, err := events.Decode(msg.Values)
	if err != nil {
		// Undecodable entries would be reclaimed forever; drop them.
		p.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("discarding malformed catalog event")
		return nil
	}

	switch {
	case ev.IsCourseChange():
		return p.handleCourseChange(ctx, ev)
	case ev.Type == events.TypeSnapshot:
		return p.handleSnapshot(ctx)
	default:
		p.logger.Warn().Str("type", ev.Type).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) handleCourseChange(ctx context.Context, ev events.Event) error {
	if err := p.dirty.Mark(ctx); err != nil {
		return fmt.Errorf("mark catalog dirty: %w", err)
	}
	p.logger.Info().
		Str("type", ev.Type).
		Str("course_id", ev.CourseID).
		Time("occurred_at", ev.OccurredAt).
		Msg("catalog changed")
	return nil
}

func (p *Processor) handleSnapshot(ctx context.Context) error {
	dirty, err := p.dirty.Take(ctx)
	if err != nil {
		return fmt.Errorf("read dirty marker: %w", err)
	}
	first := !p.booted.Swap(true)
	if !dirty && !first {
		p.logger.Debug().Msg("catalog unchanged, snapshot skipped")
		return nil
	}

	courses, err := p.courses.List(ctx)
	if err != nil {
		p.remark(ctx)
		return fmt.Errorf("list courses: %w", err)
	}

	key, err := p.snapshots.WriteSnapshot(ctx, courses, p.now())
	if err != nil {
		p.remark(ctx)
		return fmt.Errorf("write snapshot: %w", err)
	}

	p.logger.Info().Str("key", key).Int("courses", len(courses)).Msg("catalog snapshot written")

	// Retention is best effort; the next snapshot prunes again.
	removed, err := p.snapshots.PruneSnapshots(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("snapshot retention failed")
	} else if removed > 0 {
		p.logger.Info().Int("removed", removed).Msg("old snapshots pruned")
	}
	return nil
}

// remark sets the marker again after a failed export so the retry runs.
func (p *Processor) remark(ctx context.Context) {
	if err := p.dirty.Mark(ctx); err != nil {
		p.logger.Warn().Err(err).Msg("restore dirty marker failed")
	}
}
