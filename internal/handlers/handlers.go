package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"coursecatalog/api/internal/apperr"
	"coursecatalog/api/internal/config"
	"coursecatalog/api/internal/metrics"
	"coursecatalog/api/internal/middleware"
	"coursecatalog/api/internal/models"
	"coursecatalog/api/internal/service"
)

const msgInvalidBody = "Invalid request body"

type AuthUseCases interface {
	Register(ctx context.Context, input service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, input service.LoginInput) (service.AuthResult, error)
}

type CourseUseCases interface {
	Create(ctx context.Context, fields models.CourseFields) (models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Update(ctx context.Context, id string, fields models.CourseFields) (models.Course, error)
	Delete(ctx context.Context, id string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Options carries the dependencies of a HandlerSet. Database and Events may
// be nil; health then reports them as disabled. A nil AuthLimiter disables
// throttling of the credential endpoints.
type Options struct {
	Log         zerolog.Logger
	Config      *config.AppConfig
	Auth        AuthUseCases
	Courses     CourseUseCases
	Verifier    middleware.TokenVerifier
	AuthLimiter *middleware.RateLimiter
	Metrics     *metrics.Collector
	Database    Pinger
	Events      Pinger
}

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	auth     AuthUseCases
	courses  CourseUseCases
	verifier middleware.TokenVerifier
	limiter  *middleware.RateLimiter
	metrics  *metrics.Collector
	db       Pinger
	events   Pinger
}

func NewHandlerSet(opts Options) HandlerSet {
	return HandlerSet{
		log:      opts.Log,
		cfg:      opts.Config,
		auth:     opts.Auth,
		courses:  opts.Courses,
		verifier: opts.Verifier,
		limiter:  opts.AuthLimiter,
		metrics:  opts.Metrics,
		db:       opts.Database,
		events:   opts.Events,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/", h.Root)

	api := router.Group("/api")
	api.GET("/healthz", h.Health)

	auth := api.Group("/auth")
	auth.Use(h.limiter.Middleware())
	auth.POST("/register", h.RegisterStudent)
	auth.POST("/login", h.Login)

	courses := api.Group("/courses")
	courses.GET("", h.ListCourses)

	guard := middleware.Auth(h.verifier)
	courses.POST("", guard, h.CreateCourse)
	courses.PUT("/:id", guard, h.UpdateCourse)
	courses.DELETE("/:id", guard, h.DeleteCourse)
}

func (h HandlerSet) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Course Management API running"})
}

// writeError renders err as {message, error}. Internal causes are logged
// here and never leave the process.
func (h HandlerSet) writeError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.KindInternal {
		h.log.Error().
			Err(appErr.Cause).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("request_id", middleware.RequestIDFrom(c)).
			Msg("request failed")
	}
	c.JSON(apperr.HTTPStatus(appErr.Kind), appErr.Response())
}

func (h HandlerSet) invalidBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, apperr.Validation(msgInvalidBody).Response())
}
