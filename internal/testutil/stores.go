// Package testutil provides in-memory doubles for the store and publisher
// ports so services and handlers can be tested without Postgres or Redis.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"coursecatalog/api/internal/events"
	"coursecatalog/api/internal/models"
	"coursecatalog/api/internal/repository"
)

type StudentStore struct {
	mu      sync.Mutex
	byEmail map[string]models.Student
	Err     error // returned by every call when set
	Creates int
}

func NewStudentStore() *StudentStore {
	return &StudentStore{byEmail: make(map[string]models.Student)}
}

func (s *StudentStore) Create(_ context.Context, student models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.byEmail[student.Email]; ok {
		return repository.ErrEmailTaken
	}
	s.byEmail[student.Email] = student
	s.Creates++
	return nil
}

func (s *StudentStore) FindByEmail(_ context.Context, email string) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Student{}, s.Err
	}
	student, ok := s.byEmail[email]
	if !ok {
		return models.Student{}, repository.ErrStudentNotFound
	}
	return student, nil
}

func (s *StudentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byEmail)
}

type CourseStore struct {
	mu      sync.Mutex
	courses map[string]models.Course
	Err     error
	Writes  int
}

func NewCourseStore(seed ...models.Course) *CourseStore {
	s := &CourseStore{courses: make(map[string]models.Course)}
	for _, c := range seed {
		s.courses[c.ID] = c
	}
	return s
}

func (s *CourseStore) Create(_ context.Context, course models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.courses[course.ID] = course
	s.Writes++
	return nil
}

func (s *CourseStore) List(_ context.Context) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *CourseStore) Update(_ context.Context, id string, fields models.CourseFields, updatedAt time.Time) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Course{}, s.Err
	}
	course, ok := s.courses[id]
	if !ok {
		return models.Course{}, repository.ErrCourseNotFound
	}
	course.CourseName = fields.CourseName
	course.CourseDescription = fields.CourseDescription
	course.Instructor = fields.Instructor
	course.UpdatedAt = updatedAt
	s.courses[id] = course
	s.Writes++
	return course, nil
}

func (s *CourseStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.courses[id]; !ok {
		return repository.ErrCourseNotFound
	}
	delete(s.courses, id)
	s.Writes++
	return nil
}

type Publisher struct {
	mu     sync.Mutex
	Events []events.Event
	Err    error
}

func (p *Publisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, ev)
	return nil
}

func (p *Publisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Events))
	for _, ev := range p.Events {
		out = append(out, ev.Type)
	}
	return out
}
