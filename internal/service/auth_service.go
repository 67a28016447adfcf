package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"coursecatalog/api/internal/apperr"
	"coursecatalog/api/internal/config"
	"coursecatalog/api/internal/ids"
	"coursecatalog/api/internal/models"
	"coursecatalog/api/internal/repository"
	"coursecatalog/api/internal/security"
)

const (
	msgAllFieldsRequired   = "All fields are required"
	msgCredentialsRequired = "Email and password are required"
	msgEmailTaken          = "Email already registered"
	msgInvalidCredentials  = "Invalid credentials"
)

type StudentStore interface {
	Create(ctx context.Context, student models.Student) error
	FindByEmail(ctx context.Context, email string) (models.Student, error)
}

type TokenMinter interface {
	Issue(identity security.Identity) (string, error)
}

type AuthService struct {
	students   StudentStore
	tokens     TokenMinter
	bcryptCost int
	log        zerolog.Logger
	now        func() time.Time
	verify     func(password string, hash []byte) (bool, error)

	// dummyHash is compared against on unknown emails so both login
	// failures cost one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(students StudentStore, tokens TokenMinter, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		students:   students,
		tokens:     tokens,
		bcryptCost: cfg.Security.BcryptCost,
		log:        log,
		now:        time.Now,
		verify:     security.VerifyPassword,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token   string
	Student models.StudentView
}

// Register creates a student and returns a session token for it. Nothing is
// persisted when any step before the insert fails.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return AuthResult{}, apperr.Validation(msgAllFieldsRequired)
	}

	if _, err := s.students.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, apperr.Conflict(msgEmailTaken)
	} else if !errors.Is(err, repository.ErrStudentNotFound) {
		return AuthResult{}, apperr.Internal(err)
	}

	passwordHash, err := security.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return AuthResult{}, apperr.Internal(err)
	}

	student := models.Student{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return AuthResult{}, apperr.Conflict(msgEmailTaken)
		}
		return AuthResult{}, apperr.Internal(err)
	}

	s.log.Info().Str("student_id", student.ID).Msg("student registered")

	return s.issue(student)
}

// Login never reveals whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	if input.Email == "" || input.Password == "" {
		return AuthResult{}, apperr.Validation(msgCredentialsRequired)
	}

	student, err := s.students.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			_, _ = s.verify(input.Password, s.unknownStudentHash())
			return AuthResult{}, apperr.Auth(msgInvalidCredentials)
		}
		return AuthResult{}, apperr.Internal(err)
	}

	ok, err := s.verify(input.Password, student.PasswordHash)
	if err != nil {
		s.log.Warn().Err(err).Str("student_id", student.ID).Msg("stored password hash unreadable")
	}
	if err != nil || !ok {
		return AuthResult{}, apperr.Auth(msgInvalidCredentials)
	}

	return s.issue(student)
}

func (s *AuthService) issue(student models.Student) (AuthResult, error) {
	token, err := s.tokens.Issue(security.Identity{
		ID:    student.ID,
		Name:  student.Name,
		Email: student.Email,
	})
	if err != nil {
		return AuthResult{}, apperr.Internal(err)
	}

	return AuthResult{
		Token:   token,
		Student: student.View(),
	}, nil
}

func (s *AuthService) unknownStudentHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := security.HashPassword(ids.New(), s.bcryptCost)
		if err != nil {
			s.log.Warn().Err(err).Msg("dummy password hash unavailable")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
