package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"coursecatalog/api/internal/client"
	"coursecatalog/api/internal/config"
	"coursecatalog/api/internal/handlers"
	"coursecatalog/api/internal/security"
	"coursecatalog/api/internal/service"
	"coursecatalog/api/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	api     *client.Client
	session *client.Session
	view    *client.CourseView
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.AppConfig{Security: config.SecurityConfig{
		JWTSecret: "cli-secret", TokenTTL: security.DefaultTokenTTL, BcryptCost: bcrypt.MinCost,
	}}
	log := zerolog.Nop()
	issuer := security.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	h := handlers.NewHandlerSet(handlers.Options{
		Log:      log,
		Config:   cfg,
		Auth:     service.NewAuthService(testutil.NewStudentStore(), issuer, cfg, log),
		Courses:  service.NewCourseService(testutil.NewCourseStore(), nil, log),
		Verifier: issuer,
	})
	router := gin.New()
	h.Register(&router.RouterGroup)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	session, err := client.NewSession(nil)
	require.NoError(t, err)
	api := client.New(srv.URL, srv.Client(), session)
	return &harness{api: api, session: session, view: client.NewCourseView(api)}
}

func (h *harness) run(t *testing.T, script ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(h.api, h.session, h.view, strings.NewReader(strings.Join(script, "\n")+"\n"), &out, 0)
	app.Run(context.Background())
	return out.String()
}

func stubPassword(t *testing.T, password string, err error) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(password), err }
	t.Cleanup(func() { readPassword = orig })
}

func TestApp_RegisterAddDelete(t *testing.T) {
	stubPassword(t, "secret1", nil)
	h := newHarness(t)

	out := h.run(t,
		"add",
		"register", "Ann", "a@x.com",
		"add", "Algo", "Sorting", "Dr. X",
		"add", "DB", "", "Dr. Y",
		"stats",
		"exit",
	)

	assert.Contains(t, out, "Please log in first")
	assert.Contains(t, out, "Signed in as Ann <a@x.com>")
	assert.Contains(t, out, "Course created successfully")
	assert.Contains(t, out, "All fields are required")
	assert.Contains(t, out, "Total courses: 1\nInstructors: 1\nShowing: 1")
	assert.Contains(t, out, "Bye!")

	courses := h.view.Courses()
	require.Len(t, courses, 1)
	id := courses[0].ID

	out = h.run(t, "delete "+id, "n", "list", "delete "+id, "y", "list")
	assert.Contains(t, out, "Algo")
	assert.Contains(t, out, "Course deleted successfully")
	assert.Contains(t, out, "No courses found")
	assert.Empty(t, h.view.Courses())
}

func TestApp_EditKeepsBlankFields(t *testing.T) {
	stubPassword(t, "secret1", nil)
	h := newHarness(t)

	h.run(t, "register", "Ann", "a@x.com", "add", "Algo", "Sorting", "Dr. X")
	id := h.view.Courses()[0].ID

	out := h.run(t, "edit "+id, "Algo II", "", "", "edit missing")
	assert.Contains(t, out, "Course updated")
	assert.Contains(t, out, `Unknown course id "missing"`)

	got, ok := h.view.Find(id)
	require.True(t, ok)
	assert.Equal(t, "Algo II", got.CourseName)
	assert.Equal(t, "Sorting", got.CourseDescription)
	assert.Equal(t, "Dr. X", got.Instructor)
}

func TestApp_LoginFailureAndLogout(t *testing.T) {
	stubPassword(t, "secret1", nil)
	h := newHarness(t)
	h.run(t, "register", "Ann", "a@x.com", "logout")
	assert.False(t, h.session.IsAuthenticated())

	stubPassword(t, "wrong", nil)
	out := h.run(t, "login", "a@x.com")
	assert.Contains(t, out, "Invalid credentials")
	assert.False(t, h.session.IsAuthenticated())

	stubPassword(t, "secret1", nil)
	out = h.run(t, "login", "a@x.com")
	assert.Contains(t, out, "Signed in as Ann")
	assert.True(t, h.session.IsAuthenticated())
}

func TestApp_PasswordReadFailure(t *testing.T) {
	stubPassword(t, "", errors.New("not a terminal"))
	h := newHarness(t)

	out := h.run(t, "login", "a@x.com")
	assert.Contains(t, out, "Login failed")
}

func TestApp_SearchFilterAndUnknown(t *testing.T) {
	stubPassword(t, "secret1", nil)
	h := newHarness(t)

	h.run(t,
		"register", "Ann", "a@x.com",
		"add", "Algorithms", "Sorting", "Dr. X",
		"add", "Databases", "SQL", "Dr. Y",
	)

	out := h.run(t, "search sql", "filter", "frobnicate", "help")
	assert.Contains(t, out, "Databases")
	assert.Contains(t, out, "Instructors: Dr. X, Dr. Y")
	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, "edit <id>")

	h.view.SetSearch("")
	out = h.run(t, "filter Dr. X", "stats")
	assert.Contains(t, out, "Showing: 1")
}

type countingAuth struct {
	registers int
	logins    int
}

func (c *countingAuth) Register(context.Context, string, string, string) (client.AuthResponse, error) {
	c.registers++
	return client.AuthResponse{}, errors.New("unexpected call")
}

func (c *countingAuth) Login(context.Context, string, string) (client.AuthResponse, error) {
	c.logins++
	return client.AuthResponse{}, errors.New("unexpected call")
}

func TestApp_AuthInputCheckedLocally(t *testing.T) {
	h := newHarness(t)
	auth := &countingAuth{}

	runWith := func(password string, script ...string) string {
		stubPassword(t, password, nil)
		var out bytes.Buffer
		app := NewApp(auth, h.session, h.view, strings.NewReader(strings.Join(script, "\n")+"\n"), &out, 0)
		app.Run(context.Background())
		return out.String()
	}

	out := runWith("12345", "register", "Ann", "a@x.com", "exit")
	assert.Contains(t, out, "Password must be at least 6 characters")

	out = runWith("secret1", "register", "", "a@x.com", "exit")
	assert.Contains(t, out, "All fields are required")

	out = runWith("", "login", "a@x.com", "exit")
	assert.Contains(t, out, "Email and password are required")

	out = runWith("secret1", "login", "", "exit")
	assert.Contains(t, out, "Email and password are required")

	assert.Zero(t, auth.registers)
	assert.Zero(t, auth.logins)
	assert.False(t, h.session.IsAuthenticated())
}
