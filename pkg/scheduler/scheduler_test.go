package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"apkdist/pkg/core/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddCronTask(t *testing.T) {
	s := NewScheduler(logger.GetLogger())
	noop := func(ctx context.Context) error { return nil }

	assert.NoError(t, s.AddCronTask("every-hour", "0 0 * * * *", time.Minute, noop))
	assert.NoError(t, s.AddCronTask("five-fields", "*/5 * * * *", time.Minute, noop))
	assert.NoError(t, s.AddCronTask("descriptor", "@daily", time.Minute, noop))
	assert.Error(t, s.AddCronTask("bad", "not a cron", time.Minute, noop))
	assert.Error(t, s.AddCronTask("every-hour", "@hourly", time.Minute, noop))
}

func TestScheduler_RunsTask(t *testing.T) {
	s := NewScheduler(logger.GetLogger())
	var runs atomic.Int32
	done := make(chan struct{}, 1)

	require.NoError(t, s.AddCronTask("tick", "@every 1s", time.Second, func(ctx context.Context) error {
		if runs.Add(1) == 1 {
			done <- struct{}{}
		}
		return errors.New("失败也不影响调度")
	}))
	s.Start()
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("任务未在预期时间内执行")
	}
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}
