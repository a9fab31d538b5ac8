package systems

import (
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

// RenderViewIndex maps an object id to the render views produced for it.
// It stores references, never pointers into batches.
type RenderViewIndex struct {
	lookup map[string][]metadata.RenderViewRef
	count  int
}

func NewRenderViewIndex() *RenderViewIndex {
	return &RenderViewIndex{
		lookup: make(map[string][]metadata.RenderViewRef),
	}
}

// Add records views for their objects. Called when a batch is created.
func (rvi *RenderViewIndex) Add(views ...metadata.RenderView) {
	for _, rv := range views {
		rvi.lookup[rv.ObjectID] = append(rvi.lookup[rv.ObjectID], rv.Ref())
		rvi.count++
	}
}

// Get returns the views of one object.
func (rvi *RenderViewIndex) Get(objectID string) ([]metadata.RenderViewRef, bool) {
	refs, ok := rvi.lookup[objectID]
	return refs, ok
}

/**
 * @brief Bulk lookup. Unknown ids are skipped; the result follows the order
 * of ids and may contain the same reference more than once if ids repeat.
 */
func (rvi *RenderViewIndex) Lookup(objectIDs []string) []metadata.RenderViewRef {
	out := make([]metadata.RenderViewRef, 0, len(objectIDs))
	for _, id := range objectIDs {
		out = append(out, rvi.lookup[id]...)
	}
	return out
}

func (rvi *RenderViewIndex) Has(objectID string) bool {
	_, ok := rvi.lookup[objectID]
	return ok
}

// Len returns the number of render views indexed.
func (rvi *RenderViewIndex) Len() int {
	return rvi.count
}

// ObjectCount returns the number of distinct objects indexed.
func (rvi *RenderViewIndex) ObjectCount() int {
	return len(rvi.lookup)
}

// Clear drops every entry. Called on scene teardown.
func (rvi *RenderViewIndex) Clear() {
	rvi.lookup = make(map[string][]metadata.RenderViewRef)
	rvi.count = 0
}
