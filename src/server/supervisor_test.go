package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskGroup_WaitsForTasks(t *testing.T) {
	var g TaskGroup
	release := make(chan struct{})

	for i := 0; i < 3; i++ {
		g.Go(func() { <-release })
	}
	require.Eventually(t, func() bool { return g.Active() == 3 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, g.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, g.Wait(context.Background()))
	assert.Zero(t, g.Active())
}

func TestPingPeriod(t *testing.T) {
	assert.Zero(t, pingPeriod(0))
	assert.Equal(t, 9*time.Second, pingPeriod(10*time.Second))
}
