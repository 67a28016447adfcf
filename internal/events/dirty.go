package events

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DirtyFlag is a catalog-changed marker kept in redis so every worker in
// the consumer group sees the same state.
type DirtyFlag struct {
	client *redis.Client
	key    string
}

func NewDirtyFlag(client *redis.Client, key string) *DirtyFlag {
	return &DirtyFlag{client: client, key: key}
}

func (f *DirtyFlag) Mark(ctx context.Context) error {
	return f.client.Set(ctx, f.key, "1", 0).Err()
}

// Take reads and clears the marker in one command.
func (f *DirtyFlag) Take(ctx context.Context) (bool, error) {
	err := f.client.GetDel(ctx, f.key).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
