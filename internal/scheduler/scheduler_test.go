package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KotFed0t/ginvest_bot/utils"
	"github.com/stretchr/testify/assert"
)

func TestIntervalJobRunsWithRequestID(t *testing.T) {
	s := New()
	defer s.Stop()

	var mu sync.Mutex
	var ids []string
	s.NewIntervalJob("collect", func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, utils.GetRequestIDFromCtx(ctx))
		return nil
	}, 20*time.Millisecond, true)
	s.Start()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ids) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}

func TestPanickingJobKeepsRunning(t *testing.T) {
	s := New()
	defer s.Stop()

	var runs atomic.Int32
	s.NewIntervalJob("panics", func(context.Context) error {
		runs.Add(1)
		panic("boom")
	}, 20*time.Millisecond, true)
	s.Start()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}
