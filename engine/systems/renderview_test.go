package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

func TestRenderViewIndex(t *testing.T) {
	rvi := NewRenderViewIndex()
	rvi.Add(
		metadata.RenderView{ObjectID: "a", BatchID: "b1", Index: 0},
		metadata.RenderView{ObjectID: "b", BatchID: "b1", Index: 1},
		metadata.RenderView{ObjectID: "a", BatchID: "b2", Index: 0},
	)

	refs, ok := rvi.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []metadata.RenderViewRef{{BatchID: "b1", Index: 0}, {BatchID: "b2", Index: 0}}, refs)
	assert.Equal(t, 3, rvi.Len())
	assert.Equal(t, 2, rvi.ObjectCount())

	assert.Equal(t, []metadata.RenderViewRef{
		{BatchID: "b1", Index: 1},
		{BatchID: "b1", Index: 0},
		{BatchID: "b2", Index: 0},
	}, rvi.Lookup([]string{"b", "unknown", "a"}))

	rvi.Clear()
	assert.Equal(t, 0, rvi.Len())
	assert.False(t, rvi.Has("a"))
	assert.Empty(t, rvi.Lookup([]string{"a"}))
}
