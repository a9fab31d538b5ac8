package systems

import (
	"sync"

	"github.com/spaghettifunk/stratum/engine/math"
)

// WorldSystem accumulates the bounding volume of every geometry encoded
// since the last reset. The volume only grows.
type WorldSystem struct {
	mu     sync.RWMutex
	box    math.Extents3D
	hasBox bool
}

func NewWorldSystem() *WorldSystem {
	return &WorldSystem{box: math.NewExtents3DEmpty()}
}

/**
 * @brief Unions the world volume with box. The first non-empty box
 * initializes the volume.
 */
func (ws *WorldSystem) Expand(box math.Extents3D) {
	if box.IsEmpty() {
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if !ws.hasBox {
		ws.box = box
		ws.hasBox = true
		return
	}
	ws.box = ws.box.Union(box)
}

/**
 * @brief Clears the volume. Only called on full scene teardown.
 */
func (ws *WorldSystem) Reset() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.box = math.NewExtents3DEmpty()
	ws.hasBox = false
}

func (ws *WorldSystem) IsEmpty() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return !ws.hasBox
}

func (ws *WorldSystem) Extents() math.Extents3D {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.box
}

func (ws *WorldSystem) Center() math.Vec3 {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.box.Center()
}

func (ws *WorldSystem) HalfExtents() math.Vec3 {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.box.HalfExtents()
}
