package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddGetRemove(t *testing.T) {
	s := NewEventScheduler()

	require.NoError(t, s.AddJob("purge", "0 3 * * *", func() {}))
	assert.Error(t, s.AddJob("purge", "0 3 * * *", func() {}), "duplicate id")

	info, ok := s.GetJob("purge")
	require.True(t, ok)
	assert.Equal(t, "0 3 * * *", info.CronExpr)
	assert.NotNil(t, info.NextRun)
	assert.Nil(t, info.LastRun)

	require.NoError(t, s.RemoveJob("purge"))
	_, ok = s.GetJob("purge")
	assert.False(t, ok)
	assert.Error(t, s.RemoveJob("purge"))
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewEventScheduler()
	assert.False(t, s.IsRunning())
	s.Start()
	assert.True(t, s.IsRunning())
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestValidateCronExpression(t *testing.T) {
	assert.NoError(t, ValidateCronExpression("*/5 * * * *"))
	assert.Error(t, ValidateCronExpression("not a cron"))
}

func TestScheduler_WrapRecordsRunAndRecovers(t *testing.T) {
	s := NewEventScheduler().(*GocronScheduler)
	require.NoError(t, s.AddJob("boom", "0 3 * * *", func() {}))

	ran := false
	assert.NotPanics(t, s.wrap("boom", func() {
		ran = true
		panic("job failed")
	}))
	assert.True(t, ran)

	info, ok := s.GetJob("boom")
	require.True(t, ok)
	require.NotNil(t, info.LastRun)
	assert.False(t, info.LastRun.IsZero())
}
