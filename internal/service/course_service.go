package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"coursecatalog/api/internal/apperr"
	"coursecatalog/api/internal/events"
	"coursecatalog/api/internal/ids"
	"coursecatalog/api/internal/models"
	"coursecatalog/api/internal/repository"
)

const msgCourseNotFound = "Course not found"

type CourseStore interface {
	Create(ctx context.Context, course models.Course) error
	List(ctx context.Context) ([]models.Course, error)
	Update(ctx context.Context, id string, fields models.CourseFields, updatedAt time.Time) (models.Course, error)
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

// CourseService owns the course lifecycle. It does not authenticate callers;
// mutating routes are gated before they reach it.
type CourseService struct {
	courses   CourseStore
	publisher EventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

func NewCourseService(courses CourseStore, publisher EventPublisher, log zerolog.Logger) *CourseService {
	return &CourseService{
		courses:   courses,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (s *CourseService) Create(ctx context.Context, fields models.CourseFields) (models.Course, error) {
	if !fields.Complete() {
		return models.Course{}, apperr.Validation(msgAllFieldsRequired)
	}

	now := s.timestamp()
	course := models.Course{
		ID:                ids.New(),
		CourseName:        fields.CourseName,
		CourseDescription: fields.CourseDescription,
		Instructor:        fields.Instructor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return models.Course{}, apperr.Internal(err)
	}

	s.publish(ctx, events.TypeCourseCreated, course.ID)
	return course, nil
}

// List returns every course, most recently created first.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// Update replaces all three editable fields; each must be present.
func (s *CourseService) Update(ctx context.Context, id string, fields models.CourseFields) (models.Course, error) {
	if !fields.Complete() {
		return models.Course{}, apperr.Validation(msgAllFieldsRequired)
	}

	course, err := s.courses.Update(ctx, id, fields, s.timestamp())
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return models.Course{}, apperr.NotFound(msgCourseNotFound)
		}
		return models.Course{}, apperr.Internal(err)
	}

	s.publish(ctx, events.TypeCourseUpdated, course.ID)
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return apperr.NotFound(msgCourseNotFound)
		}
		return apperr.Internal(err)
	}

	s.publish(ctx, events.TypeCourseDeleted, id)
	return nil
}

func (s *CourseService) publish(ctx context.Context, eventType string, courseID string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		CourseID:   courseID,
		OccurredAt: s.timestamp(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("course_id", courseID).Str("event", eventType).Msg("publish catalog event failed")
	}
}

// timestamp matches the microsecond precision of TIMESTAMPTZ so a course
// reads back exactly as it was returned.
func (s *CourseService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
