package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventBusStopsAtHandled(t *testing.T) {
	eb := NewEventBus()
	var order []int
	first := eb.Register(EVENT_CODE_BATCHES_BUILT, func(ctx EventContext) bool {
		order = append(order, 1)
		return false
	})
	eb.Register(EVENT_CODE_BATCHES_BUILT, func(ctx EventContext) bool {
		order = append(order, 2)
		assert.Equal(t, []string{"b"}, ctx.Data)
		return true
	})
	eb.Register(EVENT_CODE_BATCHES_BUILT, func(ctx EventContext) bool {
		order = append(order, 3)
		return true
	})

	assert.True(t, eb.Fire(EVENT_CODE_BATCHES_BUILT, []string{"b"}))
	assert.Equal(t, []int{1, 2}, order)

	assert.True(t, eb.Unregister(EVENT_CODE_BATCHES_BUILT, first))
	assert.False(t, eb.Unregister(EVENT_CODE_BATCHES_BUILT, first))
	assert.False(t, eb.Fire(EVENT_CODE_SCENE_CLEARED, nil))
}

func TestMetricsAverage(t *testing.T) {
	m := NewMetrics()
	m.RecordBuild(10*time.Millisecond, 2, 5, 1)
	m.RecordBuild(30*time.Millisecond, 1, 3, 0)
	m.RecordRangeUpdate(7)

	s := m.Snapshot()
	assert.Equal(t, 3, s.BatchCount)
	assert.Equal(t, 8, s.RenderViewCount)
	assert.Equal(t, 1, s.SkippedObjects)
	assert.Equal(t, 30*time.Millisecond, s.LastBuild)
	assert.Equal(t, 20*time.Millisecond, s.AvgBuild)
	assert.Equal(t, 7, s.DrawGroupCount)
	assert.Equal(t, uint64(1), s.RangeUpdates)

	m.Reset()
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}

func TestIdentifier(t *testing.T) {
	a, b := IdentifierAcquireNewID(), IdentifierAcquireNewID()
	assert.NotEqual(t, a, b)
	assert.True(t, IdentifierIsValid(a))
	assert.False(t, IdentifierIsValid("batch-1"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("chatty"))
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Zero(t, c.Elapsed())
	c.Start()
	time.Sleep(time.Millisecond)
	c.Stop()
	stopped := c.Elapsed()
	assert.Greater(t, stopped, time.Duration(0))
	c.Update()
	assert.Equal(t, stopped, c.Elapsed())
}
