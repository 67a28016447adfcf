// Package cli implements coursectl, an interactive terminal front end for
// the course catalog.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"coursecatalog/api/internal/client"
	"coursecatalog/api/internal/models"
)

const (
	msgRegistrationFailed = "Registration failed"
	msgLoginFailed        = "Login failed"
	msgLoginRequired      = "Please log in first"

	msgFieldsRequired      = "All fields are required"
	msgPasswordTooShort    = "Password must be at least 6 characters"
	msgCredentialsRequired = "Email and password are required"

	minPasswordLength = 6
)

type AuthAPI interface {
	Register(ctx context.Context, name, email, password string) (client.AuthResponse, error)
	Login(ctx context.Context, email, password string) (client.AuthResponse, error)
}

type App struct {
	auth       AuthAPI
	session    *client.Session
	view       *client.CourseView
	in         *bufio.Reader
	out        io.Writer
	passwordFd int
}

func NewApp(auth AuthAPI, session *client.Session, view *client.CourseView, in io.Reader, out io.Writer, passwordFd int) *App {
	return &App{
		auth:       auth,
		session:    session,
		view:       view,
		in:         bufio.NewReader(in),
		out:        out,
		passwordFd: passwordFd,
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) prompt() string {
	if student, ok := a.session.Student(); ok && a.session.IsAuthenticated() {
		return fmt.Sprintf("coursectl (%s)> ", student.Email)
	}
	return "coursectl> "
}

// Run loads the catalog and then reads commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	if err := a.view.Load(ctx); err != nil {
		a.printf("Could not load courses: %v\n", err)
	}

	for {
		a.printf("%s", a.prompt())
		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			a.printf("\n")
			return
		}
		if !a.dispatch(ctx, strings.TrimSpace(line)) {
			return
		}
	}
}

// dispatch runs one command line and reports whether the loop continues.
func (a *App) dispatch(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
	case "help":
		a.help()
	case "register":
		a.register(ctx)
	case "login":
		a.login(ctx)
	case "logout":
		a.logout()
	case "list", "ls":
		a.list(ctx)
	case "search":
		a.view.SetSearch(rest)
		a.show()
	case "filter":
		a.view.SetInstructor(rest)
		if rest == "" {
			a.printf("Instructors: %s\n", strings.Join(a.view.Instructors(), ", "))
		}
		a.show()
	case "stats":
		s := a.view.Stats()
		a.printf("Total courses: %d\nInstructors: %d\nShowing: %d\n", s.Total, s.Instructors, s.Showing)
	case "add":
		a.add(ctx)
	case "edit":
		a.edit(ctx, rest)
	case "delete", "rm":
		a.delete(ctx, rest)
	case "exit", "quit":
		a.printf("Bye!\n")
		return false
	default:
		a.printf("Unknown command: %s (try help)\n", cmd)
	}
	return true
}

func (a *App) help() {
	a.printf(`Commands:
  register              create an account
  login                 sign in
  logout                sign out
  list                  reload and show courses
  search [term]         search name, instructor and description
  filter [instructor]   show one instructor's courses; no name clears
  stats                 catalog totals
  add                   create a course
  edit <id>             change a course
  delete <id>           remove a course
  exit                  leave
`)
}

func (a *App) register(ctx context.Context) {
	name, err := readLine(a.in, a.out, "Name")
	if err != nil {
		return
	}
	email, err := readLine(a.in, a.out, "Email")
	if err != nil {
		return
	}
	password, err := a.readSecret("Password")
	if err != nil {
		a.printf("%s\n", msgRegistrationFailed)
		return
	}

	if name == "" || email == "" || password == "" {
		a.printf("%s\n", msgFieldsRequired)
		return
	}
	if len([]rune(password)) < minPasswordLength {
		a.printf("%s\n", msgPasswordTooShort)
		return
	}

	res, err := a.auth.Register(ctx, name, email, password)
	if err != nil {
		a.printf("%s\n", client.MessageOr(err, msgRegistrationFailed))
		return
	}
	a.startSession(res)
}

func (a *App) login(ctx context.Context) {
	email, err := readLine(a.in, a.out, "Email")
	if err != nil {
		return
	}
	password, err := a.readSecret("Password")
	if err != nil {
		a.printf("%s\n", msgLoginFailed)
		return
	}

	if email == "" || password == "" {
		a.printf("%s\n", msgCredentialsRequired)
		return
	}

	res, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.printf("%s\n", client.MessageOr(err, msgLoginFailed))
		return
	}
	a.startSession(res)
}

func (a *App) startSession(res client.AuthResponse) {
	if err := a.session.Login(res.Token, res.Student); err != nil {
		a.printf("Signed in, but the session could not be saved: %v\n", err)
		return
	}
	a.printf("Signed in as %s <%s>\n", res.Student.Name, res.Student.Email)
}

func (a *App) logout() {
	if err := a.session.Logout(); err != nil {
		a.printf("Logout failed: %v\n", err)
		return
	}
	a.printf("Signed out\n")
}

func (a *App) list(ctx context.Context) {
	if err := a.view.Load(ctx); err != nil {
		a.printf("Could not load courses: %v\n", err)
	}
	a.show()
}

func (a *App) show() {
	visible := a.view.Visible()
	if len(visible) == 0 {
		a.printf("No courses found\n")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tINSTRUCTOR\tDESCRIPTION")
	for _, c := range visible {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.CourseName, c.Instructor, c.CourseDescription)
	}
	_ = tw.Flush()
}

func (a *App) requireLogin() bool {
	if a.session.IsAuthenticated() {
		return true
	}
	a.printf("%s\n", msgLoginRequired)
	return false
}

func (a *App) add(ctx context.Context) {
	if !a.requireLogin() {
		return
	}

	var fields models.CourseFields
	var err error
	if fields.CourseName, err = readLine(a.in, a.out, "Course name"); err != nil {
		return
	}
	if fields.CourseDescription, err = readLine(a.in, a.out, "Description"); err != nil {
		return
	}
	if fields.Instructor, err = readLine(a.in, a.out, "Instructor"); err != nil {
		return
	}

	course, err := a.view.Create(ctx, fields)
	if err != nil {
		a.printf("%v\n", err)
		return
	}
	a.printf("Course created successfully (%s)\n", course.ID)
}

func (a *App) edit(ctx context.Context, id string) {
	if !a.requireLogin() {
		return
	}
	current, ok := a.view.Find(id)
	if !ok {
		a.printf("Unknown course id %q\n", id)
		return
	}

	var fields models.CourseFields
	var err error
	if fields.CourseName, err = readLineDefault(a.in, a.out, "Course name", current.CourseName); err != nil {
		return
	}
	if fields.CourseDescription, err = readLineDefault(a.in, a.out, "Description", current.CourseDescription); err != nil {
		return
	}
	if fields.Instructor, err = readLineDefault(a.in, a.out, "Instructor", current.Instructor); err != nil {
		return
	}

	if _, err := a.view.Update(ctx, id, fields); err != nil {
		a.printf("%v\n", err)
		return
	}
	a.printf("Course updated\n")
}

func (a *App) delete(ctx context.Context, id string) {
	if !a.requireLogin() {
		return
	}
	if id == "" {
		a.printf("Usage: delete <id>\n")
		return
	}

	ok, err := confirm(a.in, a.out, "Are you sure you want to delete this course?")
	if err != nil || !ok {
		return
	}

	if err := a.view.Delete(ctx, id); err != nil {
		a.printf("%v\n", err)
		return
	}
	a.printf("Course deleted successfully\n")
}
