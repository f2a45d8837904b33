package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resellbd/resell-api/pkg/workerpool"
)

func TestSubmitRunsEveryTaskBeforeShutdownReturns(t *testing.T) {
	pool := workerpool.New("test", 4)

	var count atomic.Int64
	for i := 0; i < 8; i++ {
		require.NoError(t, pool.Submit(func() { count.Add(1) }))
	}
	pool.Shutdown()

	assert.Equal(t, int64(8), count.Load())
}

func TestSubmitReportsBackpressure(t *testing.T) {
	pool := workerpool.New("test", 1)
	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, pool.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	// One busy worker, buffer of two.
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))
	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolFull)

	close(release)
	pool.Shutdown()
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New("test", 2)
	pool.Shutdown()
	pool.Shutdown()
	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	pool := workerpool.New("test", 1)

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, pool.Submit(func() { panic("listener bug") }))
	require.NoError(t, pool.Submit(func() { wg.Done() }))
	wg.Wait()
	pool.Shutdown()
}
