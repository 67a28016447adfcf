package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursecatalog/api/internal/models"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrEmailTaken      = errors.New("email already registered")
)

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func (r *StudentRepository) Create(ctx context.Context, student models.Student) error {
	const query = `
		INSERT INTO students (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		student.ID,
		student.Name,
		student.Email,
		student.PasswordHash,
		student.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

// FindByEmail matches the email exactly, including case.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (models.Student, error) {
	const query = `
		SELECT id, name, email, password_hash, created_at
		FROM students WHERE email = $1
	`

	row := r.pool.QueryRow(ctx, query, email)
	var student models.Student
	if err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.PasswordHash,
		&student.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}
	return student, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
