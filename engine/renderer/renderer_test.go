package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

func TestRendererHeadlessFrame(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	backend := r.Backend().(*HeadlessBackend)

	buffers := &metadata.BatchBuffers{
		BatchID:      "b1",
		GeometryType: metadata.GeometryTypePoint,
		Point:        &metadata.PointGeometry{Position: make([]float32, 6)},
	}
	require.NoError(t, r.UploadBatch(buffers))
	assert.Error(t, r.UploadBatch(buffers))
	assert.Equal(t, uint64(24), backend.UploadedBytes())

	visible := &metadata.Material{Visible: true}
	hidden := &metadata.Material{}
	groups := []metadata.DrawRange{
		{Offset: 0, Count: 1, Material: visible},
		{Offset: 1, Count: 1, Material: hidden},
	}
	require.NoError(t, r.UpdateDrawGroups("b1", groups))
	assert.Equal(t, groups, backend.DrawGroups("b1"))
	assert.ErrorIs(t, r.UpdateDrawGroups("nope", groups), core.ErrNotFound)

	infos := []metadata.BatchDrawInfo{{BatchID: "b1", ElementCount: 2, Groups: groups}}
	require.NoError(t, r.DrawFrame(infos, 0.016))
	assert.Equal(t, 1, backend.DrawCalls())
	assert.Equal(t, uint64(1), backend.Frames())

	assert.ErrorIs(t, r.DrawFrame([]metadata.BatchDrawInfo{{BatchID: "nope"}}, 0.016), core.ErrNotFound)

	r.DestroyBatch("b1")
	assert.Equal(t, 0, backend.BatchCount())
	assert.Equal(t, uint64(0), backend.UploadedBytes())
	require.NoError(t, r.Shutdown())
}
