package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register_Lookup(t *testing.T) {
	r := NewRegistry()
	ran := false
	require.NoError(t, r.Register("Export", "@every 1h", func(context.Context) error {
		ran = true
		return nil
	}))

	j, ok := r.Lookup("export")
	require.True(t, ok)
	assert.Equal(t, "@every 1h", j.Schedule)
	require.NoError(t, j.Run(context.Background()))
	assert.True(t, ran)
	assert.Equal(t, []string{"export"}, r.Names())
}

func TestRegistry_Register_Rejects(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context) error { return nil }
	require.NoError(t, r.Register("dupjob", "@hourly", noop))
	assert.Error(t, r.Register("DUPJOB", "@daily", noop))
	assert.Error(t, r.Register("bad", "every hour", noop))

	r.Jobs()
	assert.ErrorIs(t, r.Register("late", "@daily", noop), ErrLocked)
}

func TestStartCron_RunsJobs(t *testing.T) {
	r := NewRegistry()
	var runs int32
	require.NoError(t, r.Register("tick", "@every 1s", func(context.Context) error {
		if atomic.AddInt32(&runs, 1) == 1 {
			return errors.New("first run fails")
		}
		return nil
	}))

	c, err := StartCron(context.Background(), r, nil)
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, 5*time.Second, 50*time.Millisecond)
}
