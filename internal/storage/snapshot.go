package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/minio/minio-go/v7"

	"coursecatalog/api/internal/models"
)

const (
	snapshotPrefix    = "snapshots/"
	latestSnapshotKey = snapshotPrefix + "latest.json"
)

// Snapshot is the exported form of the catalog at a point in time.
type Snapshot struct {
	TakenAt time.Time       `json:"takenAt"`
	Count   int             `json:"count"`
	Courses []models.Course `json:"courses"`
}

func SnapshotKey(at time.Time) string {
	return snapshotPrefix + at.UTC().Format("20060102T150405Z") + ".json"
}

// WriteSnapshot stores courses under a timestamped key and then overwrites
// latest.json. It returns the timestamped key.
func (s *ObjectStore) WriteSnapshot(ctx context.Context, courses []models.Course, at time.Time) (string, error) {
	if courses == nil {
		courses = []models.Course{}
	}
	body, err := json.Marshal(Snapshot{
		TakenAt: at.UTC(),
		Count:   len(courses),
		Courses: courses,
	})
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := SnapshotKey(at)
	if err := s.put(ctx, key, body, "application/json"); err != nil {
		return "", err
	}
	if err := s.put(ctx, latestSnapshotKey, body, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// PruneSnapshots removes the oldest timestamped snapshots so that at most
// cfg.SnapshotRetention remain. latest.json is never touched. It returns
// how many objects were removed.
func (s *ObjectStore) PruneSnapshots(ctx context.Context) (int, error) {
	keep := s.cfg.SnapshotRetention
	if keep <= 0 {
		return 0, nil
	}

	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var keys []string
	for obj := range s.client.ListObjects(listCtx, s.cfg.BucketSnapshots, minio.ListObjectsOptions{
		Prefix:    snapshotPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return 0, fmt.Errorf("list snapshots: %w", obj.Err)
		}
		if obj.Key != latestSnapshotKey {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) <= keep {
		return 0, nil
	}

	// Timestamped keys sort chronologically.
	sort.Strings(keys)
	stale := keys[:len(keys)-keep]
	for i, key := range stale {
		if err := s.client.RemoveObject(ctx, s.cfg.BucketSnapshots, key, minio.RemoveObjectOptions{}); err != nil {
			return i, fmt.Errorf("remove %s: %w", key, err)
		}
	}
	return len(stale), nil
}
