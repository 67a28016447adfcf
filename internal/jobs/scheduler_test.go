package jobs

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecatalog/api/internal/events"
	"coursecatalog/api/internal/testutil"
)

func TestScheduler_EnqueueSnapshot(t *testing.T) {
	t.Parallel()

	pub := &testutil.Publisher{}
	s := NewScheduler(pub, "", zerolog.Nop())
	assert.Equal(t, DefaultSnapshotSchedule, s.schedule)

	s.enqueueSnapshot()
	assert.Equal(t, []string{events.TypeSnapshot}, pub.Types())
}

func TestScheduler_EnqueueFailureIsLogged(t *testing.T) {
	t.Parallel()

	pub := &testutil.Publisher{Err: errors.New("redis down")}
	s := NewScheduler(pub, "", zerolog.Nop())

	s.enqueueSnapshot()
	assert.Empty(t, pub.Events)
}

func TestScheduler_StartRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	s := NewScheduler(&testutil.Publisher{}, "every tuesday", zerolog.Nop())
	require.Error(t, s.Start())
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	s := NewScheduler(&testutil.Publisher{}, "*/30 * * * * *", zerolog.Nop())
	require.NoError(t, s.Start())
	<-s.Stop().Done()
}

func TestScheduler_NilQueueIsNoop(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, "", zerolog.Nop())
	require.NoError(t, s.Start())
	<-s.Stop().Done()
}
