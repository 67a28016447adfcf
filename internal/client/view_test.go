package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecatalog/api/internal/models"
)

type fakeAPI struct {
	list    []models.Course
	next    models.Course
	err     error
	calls   int
	deleted []string
}

func (f *fakeAPI) ListCourses(context.Context) ([]models.Course, error) {
	f.calls++
	return f.list, f.err
}

func (f *fakeAPI) CreateCourse(_ context.Context, fields models.CourseFields) (models.Course, error) {
	f.calls++
	if f.err != nil {
		return models.Course{}, f.err
	}
	c := f.next
	c.CourseName, c.CourseDescription, c.Instructor = fields.CourseName, fields.CourseDescription, fields.Instructor
	return c, nil
}

func (f *fakeAPI) UpdateCourse(_ context.Context, id string, fields models.CourseFields) (models.Course, error) {
	f.calls++
	if f.err != nil {
		return models.Course{}, f.err
	}
	return models.Course{ID: id, CourseName: fields.CourseName, CourseDescription: fields.CourseDescription, Instructor: fields.Instructor}, nil
}

func (f *fakeAPI) DeleteCourse(_ context.Context, id string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

var catalog = []models.Course{
	{ID: "c3", CourseName: "Databases", CourseDescription: "SQL and indexing", Instructor: "Dr. Y"},
	{ID: "c2", CourseName: "Algorithms", CourseDescription: "Sorting", Instructor: "Dr. X"},
	{ID: "c1", CourseName: "Networks", CourseDescription: "TCP/IP and algorithms", Instructor: "Dr. X"},
}

func loadedView(t *testing.T) (*CourseView, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{list: append([]models.Course(nil), catalog...)}
	v := NewCourseView(api)
	require.NoError(t, v.Load(context.Background()))
	return v, api
}

func ids(courses []models.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.ID)
	}
	return out
}

func TestCourseView_SearchAndFilter(t *testing.T) {
	t.Parallel()
	v, _ := loadedView(t)

	assert.Equal(t, []string{"c3", "c2", "c1"}, ids(v.Visible()))

	v.SetSearch("  ALGO ")
	assert.Equal(t, []string{"c2", "c1"}, ids(v.Visible()))

	v.SetInstructor("Dr. X")
	v.SetSearch("")
	assert.Equal(t, []string{"c2", "c1"}, ids(v.Visible()))

	v.SetSearch("sql")
	assert.Empty(t, v.Visible())

	v.SetInstructor("dr. x")
	v.SetSearch("")
	assert.Empty(t, v.Visible(), "instructor filter is exact")
}

func TestCourseView_InstructorsAndStats(t *testing.T) {
	t.Parallel()
	v, _ := loadedView(t)

	assert.Equal(t, []string{"Dr. X", "Dr. Y"}, v.Instructors())

	v.SetSearch("tcp")
	assert.Equal(t, Stats{Total: 3, Instructors: 2, Showing: 1}, v.Stats())
}

func TestCourseView_CreatePrepends(t *testing.T) {
	t.Parallel()
	v, api := loadedView(t)
	api.next = models.Course{ID: "c4"}

	course, err := v.Create(context.Background(), models.CourseFields{CourseName: "OS", CourseDescription: "Kernels", Instructor: "Dr. Z"})
	require.NoError(t, err)
	assert.Equal(t, "c4", course.ID)
	assert.Equal(t, []string{"c4", "c3", "c2", "c1"}, ids(v.Courses()))
}

func TestCourseView_CreateValidatesLocally(t *testing.T) {
	t.Parallel()
	v, api := loadedView(t)
	before := api.calls

	_, err := v.Create(context.Background(), models.CourseFields{CourseName: "OS"})
	require.Error(t, err)
	assert.Equal(t, "All fields are required", err.Error())
	assert.Equal(t, before, api.calls)
}

func TestCourseView_FailuresLeaveStateUnchanged(t *testing.T) {
	t.Parallel()
	v, api := loadedView(t)
	ctx := context.Background()
	fields := models.CourseFields{CourseName: "X", CourseDescription: "Y", Instructor: "Z"}

	api.err = &APIError{Status: 401, Message: "Not authorized"}
	_, err := v.Create(ctx, fields)
	assert.Equal(t, "Not authorized", err.Error())

	api.err = errors.New("connection refused")
	_, err = v.Update(ctx, "c2", fields)
	assert.Equal(t, "Failed to update course", err.Error())
	err = v.Delete(ctx, "c2")
	assert.Equal(t, "Failed to delete course", err.Error())
	assert.ErrorIs(t, err, api.err)

	_, err = v.Create(ctx, fields)
	assert.Equal(t, "Failed to create course", err.Error())

	assert.Equal(t, catalog, v.Courses())
}

func TestCourseView_UpdateReplacesInPlace(t *testing.T) {
	t.Parallel()
	v, _ := loadedView(t)

	_, err := v.Update(context.Background(), "c2", models.CourseFields{CourseName: "Algo II", CourseDescription: "Graphs", Instructor: "Dr. Q"})
	require.NoError(t, err)

	assert.Equal(t, []string{"c3", "c2", "c1"}, ids(v.Courses()))
	got, ok := v.Find("c2")
	require.True(t, ok)
	assert.Equal(t, "Algo II", got.CourseName)
	assert.Equal(t, []string{"Dr. Q", "Dr. X", "Dr. Y"}, v.Instructors())
}

func TestCourseView_Delete(t *testing.T) {
	t.Parallel()
	v, api := loadedView(t)

	require.NoError(t, v.Delete(context.Background(), "c3"))
	assert.Equal(t, []string{"c2", "c1"}, ids(v.Courses()))
	assert.Equal(t, []string{"c3"}, api.deleted)
	_, ok := v.Find("c3")
	assert.False(t, ok)
}

func TestCourseView_LoadFailureKeepsPrevious(t *testing.T) {
	t.Parallel()
	v, api := loadedView(t)

	api.err = errors.New("timeout")
	require.Error(t, v.Load(context.Background()))
	assert.Len(t, v.Courses(), 3)
}
