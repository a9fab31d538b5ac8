package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/math"
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

func newTestGeometrySystem(t *testing.T, config GeometrySystemConfig) (*GeometrySystem, *WorldSystem) {
	t.Helper()
	ws := NewWorldSystem()
	gs, err := NewGeometrySystem(config, ws)
	require.NoError(t, err)
	return gs, ws
}

// grid returns n vertices spread along x.
func grid(n int) []float64 {
	out := make([]float64, 0, n*3)
	for i := 0; i < n; i++ {
		out = append(out, float64(i), float64(i%2), 0)
	}
	return out
}

func TestNewGeometrySystemNeedsWorld(t *testing.T) {
	_, err := NewGeometrySystem(GeometrySystemConfig{}, nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{})

	cases := []struct {
		name    string
		kind    metadata.GeometryType
		payload *metadata.GeometryPayload
	}{
		{"nil payload", metadata.GeometryTypeMesh, nil},
		{"no position", metadata.GeometryTypeMesh, &metadata.GeometryPayload{}},
		{"position not xyz", metadata.GeometryTypeMesh, metadata.NewGeometryPayload([]float64{0, 0, 0, 1})},
		{"soup not triangles", metadata.GeometryTypeMesh, metadata.NewGeometryPayload(grid(4))},
		{"index out of range", metadata.GeometryTypeMesh, &metadata.GeometryPayload{
			Attributes: map[metadata.AttributeType][]float64{metadata.AttributePosition: grid(3)},
			Index:      []uint32{0, 1, 3},
		}},
		{"index not triangles", metadata.GeometryTypeMesh, &metadata.GeometryPayload{
			Attributes: map[metadata.AttributeType][]float64{metadata.AttributePosition: grid(3)},
			Index:      []uint32{0, 1},
		}},
		{"colour length", metadata.GeometryTypeMesh, &metadata.GeometryPayload{
			Attributes: map[metadata.AttributeType][]float64{
				metadata.AttributePosition: grid(3),
				metadata.AttributeColor:    {1, 1, 1},
			},
		}},
		{"single vertex line", metadata.GeometryTypeLine, metadata.NewGeometryPayload(grid(1))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, gs.Validate(tc.kind, tc.payload), core.ErrMalformedGeometry)
		})
	}

	assert.NoError(t, gs.Validate(metadata.GeometryTypeMesh, metadata.NewGeometryPayload(grid(3))))
	assert.NoError(t, gs.Validate(metadata.GeometryTypeLine, metadata.NewGeometryPayload(grid(2))))
	assert.NoError(t, gs.Validate(metadata.GeometryTypePoint, metadata.NewGeometryPayload(grid(1))))
	assert.ErrorIs(t, gs.Validate(metadata.GeometryType(42), metadata.NewGeometryPayload(grid(1))), core.ErrUnknownGeometryType)
}

func indexedPayload(vertexCount int) *metadata.GeometryPayload {
	return &metadata.GeometryPayload{
		Attributes: map[metadata.AttributeType][]float64{metadata.AttributePosition: grid(vertexCount)},
		Index:      []uint32{0, 1, 2},
	}
}

func TestMergeAllOffsetsByVertexCount(t *testing.T) {
	gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{})
	payloads := []*metadata.GeometryPayload{indexedPayload(4), indexedPayload(3), indexedPayload(5)}

	merged, err := gs.MergeAll(payloads)
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 1, 2, 4, 5, 6, 7, 8, 9}, merged.Index)
	assert.Equal(t, 12, merged.VertexCount())
	for _, p := range payloads {
		assert.Empty(t, p.Attributes)
		assert.Nil(t, p.Index)
	}
}

func TestMergeAllSinglePayloadIsIdentity(t *testing.T) {
	gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{})
	p := &metadata.GeometryPayload{
		Attributes: map[metadata.AttributeType][]float64{
			metadata.AttributePosition: grid(4),
			metadata.AttributeColor:    {1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1},
		},
		Index: []uint32{0, 1, 2, 2, 1, 3},
	}
	want := p.Clone()

	merged, err := gs.MergeAll([]*metadata.GeometryPayload{p})
	require.NoError(t, err)
	assert.Equal(t, want.Attributes, merged.Attributes)
	assert.Equal(t, want.Index, merged.Index)
}

func TestMergeAllAttributePresence(t *testing.T) {
	gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{})
	withColor := metadata.NewGeometryPayload(grid(3))
	withColor.SetAttribute(metadata.AttributeColor, []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5})
	withColor.SetAttribute(metadata.AttributeNormal, make([]float64, 9))
	bare := metadata.NewGeometryPayload(grid(3))

	merged, err := gs.MergeAll([]*metadata.GeometryPayload{withColor, bare})
	require.NoError(t, err)

	colors := merged.Attribute(metadata.AttributeColor)
	require.Len(t, colors, 18)
	assert.Equal(t, 0.5, colors[0])
	assert.Equal(t, 1.0, colors[17])
	assert.Nil(t, merged.Attribute(metadata.AttributeNormal))
	assert.Nil(t, merged.Index)
}

func TestMergeAllSynthesizesIndices(t *testing.T) {
	gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{})
	soup := metadata.NewGeometryPayload(grid(3))

	merged, err := gs.MergeAll([]*metadata.GeometryPayload{soup, indexedPayload(3)})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, merged.Index)
}

func TestMergeAllBakesTransforms(t *testing.T) {
	gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{})
	p := metadata.NewGeometryPayload([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0})
	mt := math.NewMat4Translation(math.NewVec3(10, 0, 0))
	p.BakeTransform = &mt

	merged, err := gs.MergeAll([]*metadata.GeometryPayload{p})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 0, 0, 11, 0, 0, 10, 1, 0}, merged.Positions())
	assert.Nil(t, merged.BakeTransform)
}

func TestMergeAllEmpty(t *testing.T) {
	gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{})
	_, err := gs.MergeAll(nil)
	assert.ErrorIs(t, err, core.ErrMalformedGeometry)
}

func TestIndexWidthBoundary(t *testing.T) {
	gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{})

	narrow, err := gs.BuildMesh(indexedPayload(65534))
	require.NoError(t, err)
	assert.False(t, narrow.Index.Wide)
	assert.Equal(t, []uint16{0, 1, 2}, narrow.Index.U16)

	wide, err := gs.BuildMesh(indexedPayload(65535))
	require.NoError(t, err)
	assert.True(t, wide.Index.Wide)
	assert.Equal(t, []uint32{0, 1, 2}, wide.Index.U32)

	assert.True(t, NeedsWideIndices(3, 65535))
	assert.False(t, NeedsWideIndices(3, 65534))
}

func TestBuildMesh(t *testing.T) {
	gs, ws := newTestGeometrySystem(t, GeometrySystemConfig{UseRTE: true})
	p := metadata.NewGeometryPayload([]float64{1e6 + 0.25, 0, 0, 1e6 + 1, 0, 0, 1e6, 1, 0})

	g, err := gs.BuildMesh(p)
	require.NoError(t, err)

	assert.Nil(t, g.Index)
	assert.Equal(t, 3, g.ElementCount())
	require.Len(t, g.Normal, 9)
	for v := 0; v < 3; v++ {
		assert.InDelta(t, 1.0, g.Normal[v*3+2], 1e-6)
	}
	require.Len(t, g.PositionHigh, 9)
	require.Len(t, g.PositionLow, 9)
	assert.InDelta(t, 1e6+0.25, float64(g.PositionHigh[0])+float64(g.PositionLow[0]), 1e-9)

	assert.False(t, ws.IsEmpty())
	assert.Equal(t, math.NewVec3(1e6, 0, 0), ws.Extents().Min)
	assert.Equal(t, math.NewVec3(1e6+1, 1, 0), ws.Extents().Max)
	assert.Greater(t, g.BoundingSphere.Radius, 0.0)
}

func TestBuildMeshKeepsNormals(t *testing.T) {
	gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{})
	p := metadata.NewGeometryPayload(grid(3))
	p.SetAttribute(metadata.AttributeNormal, []float64{0, 1, 0, 0, 1, 0, 0, 1, 0})

	g, err := gs.BuildMesh(p)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0, 0, 1, 0, 0, 1, 0}, g.Normal)
	assert.Nil(t, g.PositionHigh)
}

func TestBuildMeshRejectsMalformed(t *testing.T) {
	gs, ws := newTestGeometrySystem(t, GeometrySystemConfig{})
	_, err := gs.BuildMesh(metadata.NewGeometryPayload(grid(2)))
	assert.ErrorIs(t, err, core.ErrMalformedGeometry)
	assert.True(t, ws.IsEmpty())
}

func TestBuildLines(t *testing.T) {
	polyline := func() *metadata.GeometryPayload {
		p := metadata.NewGeometryPayload([]float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0})
		p.SetAttribute(metadata.AttributeColor, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1})
		return p
	}

	t.Run("thin", func(t *testing.T) {
		gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{})
		g, err := gs.BuildLines(polyline())
		require.NoError(t, err)
		assert.False(t, g.Thick)
		assert.Equal(t, 3, g.SegmentCount)
		assert.Equal(t, 6, g.ElementCount())
		assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 1, 0, 0, 1, 1, 0, 1, 1, 0, 0, 1, 0}, g.Position)
		assert.Nil(t, g.Color)
	})

	t.Run("thick", func(t *testing.T) {
		gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{ThickLines: true, UseRTE: true})
		g, err := gs.BuildLines(polyline())
		require.NoError(t, err)
		assert.True(t, g.Thick)
		assert.Equal(t, 3, g.ElementCount())
		require.Len(t, g.Color, 18)
		assert.Equal(t, []float32{1, 0, 0, 0, 1, 0}, g.Color[:6])
		assert.Len(t, g.PositionHigh, 18)
	})
}

func TestLineSegmentsDoNotJoinWhenMerged(t *testing.T) {
	gs, _ := newTestGeometrySystem(t, GeometrySystemConfig{})
	a, err := gs.LineSegments(metadata.NewGeometryPayload([]float64{0, 0, 0, 1, 0, 0}))
	require.NoError(t, err)
	b, err := gs.LineSegments(metadata.NewGeometryPayload([]float64{5, 0, 0, 6, 0, 0}))
	require.NoError(t, err)

	merged, err := gs.MergeAll([]*metadata.GeometryPayload{a, b})
	require.NoError(t, err)
	g, err := gs.BuildLineSegments(merged)
	require.NoError(t, err)
	assert.Equal(t, 2, g.SegmentCount)
}

func TestBuildPoints(t *testing.T) {
	gs, ws := newTestGeometrySystem(t, GeometrySystemConfig{UseRTE: true})
	g, err := gs.BuildPoints(metadata.NewGeometryPayload([]float64{-1, -2, -3, 4, 5, 6}))
	require.NoError(t, err)
	assert.Equal(t, 2, g.ElementCount())
	assert.Len(t, g.PositionLow, 6)
	assert.Equal(t, math.NewVec3(-1, -2, -3), ws.Extents().Min)
}

func TestUnpackColors(t *testing.T) {
	colors := UnpackColors([]int32{0xff0000, 0x00ff00, 0x000000})
	assert.Equal(t, []float64{1, 0, 0, 0, 1, 0, 0, 0, 0}, colors)
}
