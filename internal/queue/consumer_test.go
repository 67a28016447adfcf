package queue

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecatalog/api/internal/config"
	"coursecatalog/api/internal/events"
	"coursecatalog/api/internal/ids"
)

func TestIsBusyGroup(t *testing.T) {
	t.Parallel()

	assert.True(t, isBusyGroup(errors.New("BUSYGROUP Consumer Group name already exists")))
	assert.False(t, isBusyGroup(errors.New("ERR no such key")))
	assert.False(t, isBusyGroup(nil))
}

func TestNewConsumer_DefaultClaimInterval(t *testing.T) {
	t.Parallel()

	c := NewConsumer(nil, config.EventsConfig{Stream: "s", Group: "g", Consumer: "c"}, zerolog.Nop(), nil)
	assert.Equal(t, 30*time.Second, c.claimInterval)
}

type recordingHandler struct {
	mu   sync.Mutex
	got  []events.Event
	done chan struct{}
}

func (h *recordingHandler) Handle(_ context.Context, msg redis.XMessage) error {
	ev, err := events.Decode(msg.Values)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.got = append(h.got, ev)
	if len(h.got) == 2 {
		close(h.done)
	}
	return nil
}

// Requires a reachable redis; set COURSECATALOG_TEST_REDIS_ADDR to run.
func TestConsumer_DeliversPublishedEvents(t *testing.T) {
	addr := os.Getenv("COURSECATALOG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("COURSECATALOG_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())

	cfg := config.EventsConfig{
		Stream:        "test:catalog:" + ids.New(),
		Group:         "test-workers",
		Consumer:      "test-1",
		ClaimInterval: time.Second,
	}
	t.Cleanup(func() { client.Del(context.Background(), cfg.Stream) })

	handler := &recordingHandler{done: make(chan struct{})}
	consumer := NewConsumer(client, cfg, zerolog.Nop(), handler)
	require.NoError(t, consumer.EnsureGroup(ctx))
	require.NoError(t, consumer.EnsureGroup(ctx))

	pub := events.NewPublisher(client, cfg.Stream)
	require.NoError(t, pub.Publish(ctx, events.Event{Type: events.TypeCourseCreated, CourseID: "c1"}))
	require.NoError(t, pub.Publish(ctx, events.Event{Type: events.TypeSnapshot}))

	runCtx, stop := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- consumer.Start(runCtx) }()

	select {
	case <-handler.done:
	case <-ctx.Done():
		t.Fatal("events not delivered")
	}
	assert.Eventually(t, func() bool {
		pending, err := client.XPending(ctx, cfg.Stream, cfg.Group).Result()
		return err == nil && pending.Count == 0
	}, 5*time.Second, 50*time.Millisecond, "entries acked")

	stop()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	handler.mu.Lock()
	defer handler.mu.Unlock()
	assert.Equal(t, events.TypeCourseCreated, handler.got[0].Type)
	assert.Equal(t, "c1", handler.got[0].CourseID)
	assert.Equal(t, events.TypeSnapshot, handler.got[1].Type)
}
