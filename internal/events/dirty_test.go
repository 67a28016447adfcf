package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecatalog/api/internal/ids"
)

// Requires a reachable redis; set COURSECATALOG_TEST_REDIS_ADDR to run.
func TestDirtyFlag_MarkAndTake(t *testing.T) {
	addr := os.Getenv("COURSECATALOG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("COURSECATALOG_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := "test:catalog:dirty:" + ids.New()
	t.Cleanup(func() { client.Del(context.Background(), key) })

	workerA := NewDirtyFlag(client, key)
	workerB := NewDirtyFlag(client, key)

	dirty, err := workerB.Take(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, workerA.Mark(ctx))
	require.NoError(t, workerA.Mark(ctx))

	dirty, err = workerB.Take(ctx)
	require.NoError(t, err)
	assert.True(t, dirty)

	dirty, err = workerA.Take(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)
}
