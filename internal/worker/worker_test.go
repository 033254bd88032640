package worker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := NewPool(3, 10)

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		})
	}
	wg.Wait()
	p.Stop()
	require.Equal(t, int32(20), count.Load())
}

func TestPoolStopDrainsQueue(t *testing.T) {
	p := NewPool(1, 5)

	var count atomic.Int32
	for i := 0; i < 5; i++ {
		p.Submit(func() { count.Add(1) })
	}
	p.Stop()
	require.Equal(t, int32(5), count.Load())
}

func TestPoolDefaultsToOneWorker(t *testing.T) {
	p := NewPool(0, -1)

	done := make(chan struct{})
	p.Submit(func() { close(done) })
	<-done
	p.Stop()
}

func TestPoolIgnoresNilTask(t *testing.T) {
	p := NewPool(1, 1)
	p.Submit(nil)
	p.Stop()
}
