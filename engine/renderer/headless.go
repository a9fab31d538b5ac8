package renderer

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

// HeadlessBackend keeps uploaded batches in memory and counts draw calls.
// It stands in for a GPU when none is attached.
type HeadlessBackend struct {
	mu        sync.Mutex
	buffers   map[string]*metadata.BatchBuffers
	groups    map[string][]metadata.DrawRange
	inFrame   bool
	frames    uint64
	drawCalls int
	bytes     uint64
}

func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{
		buffers: make(map[string]*metadata.BatchBuffers),
		groups:  make(map[string][]metadata.DrawRange),
	}
}

func (hb *HeadlessBackend) Initialize() error {
	return nil
}

func (hb *HeadlessBackend) Shutdown() error {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	hb.buffers = make(map[string]*metadata.BatchBuffers)
	hb.groups = make(map[string][]metadata.DrawRange)
	hb.bytes = 0
	return nil
}

func (hb *HeadlessBackend) BeginFrame(deltaTime float64) error {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	if hb.inFrame {
		return fmt.Errorf("BeginFrame called twice without EndFrame")
	}
	hb.inFrame = true
	hb.drawCalls = 0
	return nil
}

func (hb *HeadlessBackend) EndFrame(deltaTime float64) error {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	if !hb.inFrame {
		return fmt.Errorf("EndFrame called without BeginFrame")
	}
	hb.inFrame = false
	hb.frames++
	return nil
}

func (hb *HeadlessBackend) UploadBatch(buffers *metadata.BatchBuffers) error {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	if _, ok := hb.buffers[buffers.BatchID]; ok {
		return fmt.Errorf("batch %s already uploaded", buffers.BatchID)
	}
	hb.buffers[buffers.BatchID] = buffers
	hb.bytes += buffers.ByteSize()
	return nil
}

func (hb *HeadlessBackend) DestroyBatch(batchID string) {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	if b, ok := hb.buffers[batchID]; ok {
		hb.bytes -= b.ByteSize()
		delete(hb.buffers, batchID)
		delete(hb.groups, batchID)
		return
	}
	core.LogWarn("DestroyBatch: batch %s was never uploaded", batchID)
}

func (hb *HeadlessBackend) UpdateDrawGroups(batchID string, groups []metadata.DrawRange) error {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	if _, ok := hb.buffers[batchID]; !ok {
		return fmt.Errorf("batch %s: %w", batchID, core.ErrNotFound)
	}
	hb.groups[batchID] = append([]metadata.DrawRange(nil), groups...)
	return nil
}

func (hb *HeadlessBackend) DrawBatch(info metadata.BatchDrawInfo) error {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	if !hb.inFrame {
		return fmt.Errorf("DrawBatch called outside a frame")
	}
	if _, ok := hb.buffers[info.BatchID]; !ok {
		return fmt.Errorf("batch %s: %w", info.BatchID, core.ErrNotFound)
	}
	for _, g := range info.Groups {
		if g.Material != nil && g.Material.Visible && g.Count > 0 {
			hb.drawCalls++
		}
	}
	return nil
}

// DrawCalls returns the draw calls issued in the last frame.
func (hb *HeadlessBackend) DrawCalls() int {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return hb.drawCalls
}

func (hb *HeadlessBackend) Frames() uint64 {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return hb.frames
}

func (hb *HeadlessBackend) UploadedBytes() uint64 {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return hb.bytes
}

func (hb *HeadlessBackend) BatchCount() int {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return len(hb.buffers)
}

// DrawGroups returns the groups last pushed for a batch.
func (hb *HeadlessBackend) DrawGroups(batchID string) []metadata.DrawRange {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return append([]metadata.DrawRange(nil), hb.groups[batchID]...)
}
