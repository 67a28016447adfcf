// Package events carries catalog change notifications and scheduled tasks
// over a Redis stream.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TypeCourseCreated = "course.created"
	TypeCourseUpdated = "course.updated"
	TypeCourseDeleted = "course.deleted"
	TypeSnapshot      = "snapshot"
)

// Event is one stream entry. It never carries the identity of whoever caused it.
type Event struct {
	Type       string
	CourseID   string
	OccurredAt time.Time
}

func (e Event) IsCourseChange() bool {
	switch e.Type {
	case TypeCourseCreated, TypeCourseUpdated, TypeCourseDeleted:
		return true
	}
	return false
}

func (e Event) values() map[string]any {
	values := map[string]any{
		"type":       e.Type,
		"occurredAt": e.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	if e.CourseID != "" {
		values["courseId"] = e.CourseID
	}
	return values
}

var ErrMissingType = errors.New("event type missing")

// Decode converts stream entry values back into an Event.
func Decode(values map[string]any) (Event, error) {
	var ev Event
	ev.Type, _ = values["type"].(string)
	if ev.Type == "" {
		return Event{}, ErrMissingType
	}
	ev.CourseID, _ = values["courseId"].(string)
	if raw, ok := values["occurredAt"].(string); ok && raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Event{}, fmt.Errorf("parse occurredAt: %w", err)
		}
		ev.OccurredAt = at
	}
	return ev, nil
}

type Publisher struct {
	client *redis.Client
	stream string
	now    func() time.Time
}

func NewPublisher(client *redis.Client, stream string) *Publisher {
	return &Publisher{
		client: client,
		stream: stream,
		now:    time.Now,
	}
}

// Publish appends ev to the stream. A nil publisher or client is a no-op.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	if p == nil || p.client == nil {
		return nil
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = p.now()
	}

	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: ev.values(),
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

func (p *Publisher) Ping(ctx context.Context) error {
	if p == nil || p.client == nil {
		return errors.New("events disabled")
	}
	return p.client.Ping(ctx).Err()
}
