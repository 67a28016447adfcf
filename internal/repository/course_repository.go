package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursecatalog/api/internal/models"
)

var ErrCourseNotFound = errors.New("course not found")

const courseColumns = `id, course_name, course_description, instructor, created_at, updated_at`

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

func (r *CourseRepository) Create(ctx context.Context, course models.Course) error {
	const query = `
		INSERT INTO courses (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		course.ID,
		course.CourseName,
		course.CourseDescription,
		course.Instructor,
		course.CreatedAt,
		course.UpdatedAt,
	)
	return err
}

// List returns the whole collection, newest first.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `
		SELECT ` + courseColumns + `
		FROM courses
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// Update replaces the editable fields in a single statement; id and
// created_at are never touched.
func (r *CourseRepository) Update(ctx context.Context, id string, fields models.CourseFields, updatedAt time.Time) (models.Course, error) {
	const query = `
		UPDATE courses
		SET course_name = $2,
		    course_description = $3,
		    instructor = $4,
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + courseColumns

	course, err := scanCourse(r.pool.QueryRow(ctx, query,
		id,
		fields.CourseName,
		fields.CourseDescription,
		fields.Instructor,
		updatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM courses WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.CourseName,
		&course.CourseDescription,
		&course.Instructor,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	return course, err
}
