package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"coursecatalog/api/internal/cli"
	"coursecatalog/api/internal/client"
	"coursecatalog/api/internal/log"
)

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "coursectl", "session.json")
}

func main() {
	apiURL := flag.String("api", envOr("COURSECATALOG_API_URL", "http://localhost:5000"), "course catalog API base URL")
	sessionPath := flag.String("session", defaultSessionPath(), "file that keeps the login between runs")
	flag.Parse()

	logger := log.New("production", "coursectl", "warn")

	session, err := client.NewSession(client.FileStore{Path: *sessionPath})
	if err != nil {
		logger.Warn().Err(err).Str("path", *sessionPath).Msg("ignoring unreadable session")
	}

	api := client.New(*apiURL, nil, session)
	view := client.NewCourseView(api)
	app := cli.NewApp(api, session, view, os.Stdin, os.Stdout, int(os.Stdin.Fd()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Run(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
