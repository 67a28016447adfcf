package client

import (
	"context"
	"sort"
	"strings"
	"sync"

	"coursecatalog/api/internal/models"
)

const (
	msgAllFieldsRequired = "All fields are required"
	msgCreateFailed      = "Failed to create course"
	msgUpdateFailed      = "Failed to update course"
	msgDeleteFailed      = "Failed to delete course"
)

// ActionError is a failed view operation. Message is ready to show to the
// user; Err is the underlying cause, if any.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }
func (e *ActionError) Unwrap() error { return e.Err }

type CourseAPI interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, fields models.CourseFields) (models.Course, error)
	UpdateCourse(ctx context.Context, id string, fields models.CourseFields) (models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

type Stats struct {
	Total       int
	Instructors int
	Showing     int
}

// CourseView is the local copy of the catalog plus the search and filter
// applied to it. Mutations change local state only after the server accepts
// them.
type CourseView struct {
	api CourseAPI

	mu         sync.RWMutex
	courses    []models.Course
	search     string
	instructor string
}

func NewCourseView(api CourseAPI) *CourseView {
	return &CourseView{api: api}
}

func (v *CourseView) Load(ctx context.Context) error {
	courses, err := v.api.ListCourses(ctx)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.courses = append([]models.Course(nil), courses...)
	v.mu.Unlock()
	return nil
}

func (v *CourseView) SetSearch(term string) {
	v.mu.Lock()
	v.search = term
	v.mu.Unlock()
}

// SetInstructor restricts Visible to one instructor; "" clears the filter.
func (v *CourseView) SetInstructor(name string) {
	v.mu.Lock()
	v.instructor = name
	v.mu.Unlock()
}

func (v *CourseView) Courses() []models.Course {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Course(nil), v.courses...)
}

// Visible returns the courses matching the search term (case-insensitive,
// over name, instructor and description) and the instructor filter (exact).
func (v *CourseView) Visible() []models.Course {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.visibleLocked()
}

func (v *CourseView) visibleLocked() []models.Course {
	term := strings.ToLower(strings.TrimSpace(v.search))
	out := make([]models.Course, 0, len(v.courses))
	for _, c := range v.courses {
		if v.instructor != "" && c.Instructor != v.instructor {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(c.CourseName), term) &&
			!strings.Contains(strings.ToLower(c.Instructor), term) &&
			!strings.Contains(strings.ToLower(c.CourseDescription), term) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Instructors returns the distinct instructor names, sorted.
func (v *CourseView) Instructors() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.instructorsLocked()
}

func (v *CourseView) instructorsLocked() []string {
	seen := make(map[string]struct{}, len(v.courses))
	out := make([]string, 0, len(v.courses))
	for _, c := range v.courses {
		if _, ok := seen[c.Instructor]; ok {
			continue
		}
		seen[c.Instructor] = struct{}{}
		out = append(out, c.Instructor)
	}
	sort.Strings(out)
	return out
}

func (v *CourseView) Stats() Stats {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Stats{
		Total:       len(v.courses),
		Instructors: len(v.instructorsLocked()),
		Showing:     len(v.visibleLocked()),
	}
}

func (v *CourseView) Create(ctx context.Context, fields models.CourseFields) (models.Course, error) {
	if !fields.Complete() {
		return models.Course{}, &ActionError{Message: msgAllFieldsRequired}
	}

	course, err := v.api.CreateCourse(ctx, fields)
	if err != nil {
		return models.Course{}, &ActionError{Message: MessageOr(err, msgCreateFailed), Err: err}
	}

	v.mu.Lock()
	v.courses = append([]models.Course{course}, v.courses...)
	v.mu.Unlock()
	return course, nil
}

func (v *CourseView) Update(ctx context.Context, id string, fields models.CourseFields) (models.Course, error) {
	if !fields.Complete() {
		return models.Course{}, &ActionError{Message: msgAllFieldsRequired}
	}

	course, err := v.api.UpdateCourse(ctx, id, fields)
	if err != nil {
		return models.Course{}, &ActionError{Message: MessageOr(err, msgUpdateFailed), Err: err}
	}

	v.mu.Lock()
	for i := range v.courses {
		if v.courses[i].ID == course.ID {
			v.courses[i] = course
		}
	}
	v.mu.Unlock()
	return course, nil
}

func (v *CourseView) Delete(ctx context.Context, id string) error {
	if err := v.api.DeleteCourse(ctx, id); err != nil {
		return &ActionError{Message: MessageOr(err, msgDeleteFailed), Err: err}
	}

	v.mu.Lock()
	kept := v.courses[:0:0]
	for _, c := range v.courses {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	v.courses = kept
	v.mu.Unlock()
	return nil
}

// Find returns the locally known course with id.
func (v *CourseView) Find(id string) (models.Course, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, c := range v.courses {
		if c.ID == id {
			return c, true
		}
	}
	return models.Course{}, false
}
