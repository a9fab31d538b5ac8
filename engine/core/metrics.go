package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

// Metrics keeps running numbers about batch building and draw-range updates.
type Metrics struct {
	mu sync.Mutex

	buildAVGCounter uint8
	buildTimes      [AVG_COUNT]time.Duration

	BatchCount      int
	RenderViewCount int
	DrawGroupCount  int
	SkippedObjects  int
	LastBuild       time.Duration
	AvgBuild        time.Duration
	RangeUpdates    uint64
}

// MetricsSnapshot is a copy of Metrics safe to hand out.
type MetricsSnapshot struct {
	BatchCount      int
	RenderViewCount int
	DrawGroupCount  int
	SkippedObjects  int
	LastBuild       time.Duration
	AvgBuild        time.Duration
	RangeUpdates    uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordBuild adds one batch-building pass to the running average.
func (m *Metrics) RecordBuild(elapsed time.Duration, batches, views, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastBuild = elapsed
	m.BatchCount += batches
	m.RenderViewCount += views
	m.SkippedObjects += skipped

	m.buildTimes[m.buildAVGCounter] = elapsed
	m.buildAVGCounter++

	var total time.Duration
	n := 0
	for i := uint8(0); i < AVG_COUNT; i++ {
		if m.buildTimes[i] != 0 {
			total += m.buildTimes[i]
			n++
		}
	}
	if n > 0 {
		m.AvgBuild = total / time.Duration(n)
	}
	m.buildAVGCounter %= AVG_COUNT
}

func (m *Metrics) RecordRangeUpdate(drawGroups int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RangeUpdates++
	m.DrawGroupCount = drawGroups
}

func (m *Metrics) SetDrawGroups(drawGroups int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DrawGroupCount = drawGroups
}

func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buildAVGCounter = 0
	m.buildTimes = [AVG_COUNT]time.Duration{}
	m.BatchCount = 0
	m.RenderViewCount = 0
	m.DrawGroupCount = 0
	m.SkippedObjects = 0
	m.LastBuild = 0
	m.AvgBuild = 0
	m.RangeUpdates = 0
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		BatchCount:      m.BatchCount,
		RenderViewCount: m.RenderViewCount,
		DrawGroupCount:  m.DrawGroupCount,
		SkippedObjects:  m.SkippedObjects,
		LastBuild:       m.LastBuild,
		AvgBuild:        m.AvgBuild,
		RangeUpdates:    m.RangeUpdates,
	}
}
