package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Events      string `json:"events"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var dbStatus, eventsStatus string
	var g errgroup.Group
	g.Go(func() error {
		dbStatus = h.ping(ctx, h.db, "database")
		return nil
	})
	g.Go(func() error {
		eventsStatus = h.ping(ctx, h.events, "events")
		return nil
	})
	_ = g.Wait()

	status := "ok"
	if dbStatus != "ok" {
		status = "degraded"
	}

	env := ""
	if h.cfg != nil {
		env = h.cfg.Environment
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:      status,
		Database:    dbStatus,
		Events:      eventsStatus,
		Environment: env,
	})
}

func (h HandlerSet) ping(ctx context.Context, p Pinger, name string) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		h.log.Error().Err(err).Str("dependency", name).Msg("health ping failed")
		return "error"
	}
	return "ok"
}
