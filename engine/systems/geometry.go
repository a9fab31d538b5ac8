package systems

import (
	"fmt"
	stdmath "math"

	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/math"
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

// Vertex or index counts at or above this value need 32-bit indices.
const maxNarrowIndexCount int = 65535

type GeometrySystemConfig struct {
	/** @brief Produce the high/low split position buffers. */
	UseRTE bool
	/** @brief Encode lines as screen-space quad instances instead of GL lines. */
	ThickLines bool
}

/**
 * @brief The geometry encoder. Turns payloads into renderer-ready buffers,
 * merges payloads for batching and feeds the world extent tracker.
 */
type GeometrySystem struct {
	config GeometrySystemConfig
	world  *WorldSystem
}

func NewGeometrySystem(config GeometrySystemConfig, world *WorldSystem) (*GeometrySystem, error) {
	if world == nil {
		err := fmt.Errorf("func NewGeometrySystem - world system must not be nil")
		core.LogWarn(err.Error())
		return nil, err
	}
	return &GeometrySystem{
		config: config,
		world:  world,
	}, nil
}

func (gs *GeometrySystem) Config() GeometrySystemConfig {
	return gs.config
}

/**
 * @brief Replaces the encoder configuration. Batches already built keep
 * the encoding they were built with.
 */
func (gs *GeometrySystem) SetConfig(config GeometrySystemConfig) {
	gs.config = config
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", core.ErrMalformedGeometry, fmt.Sprintf(format, args...))
}

/**
 * @brief Checks a payload against the shape rules of the given geometry type.
 * @return nil when the payload can be encoded; an error wrapping
 * core.ErrMalformedGeometry otherwise.
 */
func (gs *GeometrySystem) Validate(kind metadata.GeometryType, p *metadata.GeometryPayload) error {
	if p == nil {
		return malformed("nil payload")
	}
	positions := p.Positions()
	if len(positions) == 0 {
		return malformed("missing POSITION attribute")
	}
	if len(positions)%3 != 0 {
		return malformed("POSITION length %d is not a multiple of 3", len(positions))
	}
	for i, v := range positions {
		if stdmath.IsNaN(v) || stdmath.IsInf(v, 0) {
			return malformed("POSITION component %d is not finite", i)
		}
	}
	vertexCount := len(positions) / 3

	for attr, data := range p.Attributes {
		if attr == metadata.AttributePosition || data == nil {
			continue
		}
		if want := vertexCount * attr.Components(); len(data) != want {
			return malformed("%s length %d, want %d", attr, len(data), want)
		}
	}

	switch kind {
	case metadata.GeometryTypeMesh:
		if p.Index == nil {
			if len(positions)%9 != 0 {
				return malformed("non-indexed POSITION length %d is not a multiple of 9", len(positions))
			}
			return nil
		}
		if len(p.Index) == 0 || len(p.Index)%3 != 0 {
			return malformed("INDEX length %d is not a positive multiple of 3", len(p.Index))
		}
		for i, idx := range p.Index {
			if int(idx) >= vertexCount {
				return malformed("INDEX[%d] = %d out of range for %d vertices", i, idx, vertexCount)
			}
		}
	case metadata.GeometryTypeLine:
		if vertexCount < 2 {
			return malformed("a line needs at least 2 vertices, got %d", vertexCount)
		}
	case metadata.GeometryTypePoint, metadata.GeometryTypePointCloud:
	default:
		return fmt.Errorf("%w: %d", core.ErrUnknownGeometryType, kind)
	}
	return nil
}

/**
 * @brief Applies and drops the payload's bake transform.
 */
func (gs *GeometrySystem) BakeTransform(p *metadata.GeometryPayload) {
	if p.BakeTransform == nil {
		return
	}
	if !p.BakeTransform.IsIdentity() {
		math.TransformPositions(p.Positions(), *p.BakeTransform)
	}
	p.BakeTransform = nil
}

/**
 * @brief Reports whether a mesh needs 32-bit indices.
 */
func NeedsWideIndices(vertexCount, indexCount int) bool {
	return vertexCount >= maxNarrowIndexCount || indexCount >= maxNarrowIndexCount
}

func newIndexBuffer(indices []uint32, vertexCount int) *metadata.IndexBuffer {
	if NeedsWideIndices(vertexCount, len(indices)) {
		return &metadata.IndexBuffer{Wide: true, U32: append([]uint32(nil), indices...)}
	}
	narrow := make([]uint16, len(indices))
	for i, idx := range indices {
		narrow[i] = uint16(idx)
	}
	return &metadata.IndexBuffer{U16: narrow}
}

func toFloat32(in []float64) []float32 {
	if in == nil {
		return nil
	}
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func (gs *GeometrySystem) splitPositions(positions []float64) (high, low []float32) {
	if !gs.config.UseRTE {
		return nil, nil
	}
	high = make([]float32, len(positions))
	low = make([]float32, len(positions))
	math.DoubleToHighLowBuffer(positions, low, high)
	return high, low
}

/**
 * @brief Encodes a triangle mesh payload.
 */
func (gs *GeometrySystem) BuildMesh(p *metadata.GeometryPayload) (*metadata.MeshGeometry, error) {
	if err := gs.Validate(metadata.GeometryTypeMesh, p); err != nil {
		return nil, err
	}
	gs.BakeTransform(p)

	positions := p.Positions()
	vertexCount := p.VertexCount()
	g := &metadata.MeshGeometry{
		Position: toFloat32(positions),
		Color:    toFloat32(p.Attribute(metadata.AttributeColor)),
		UV:       toFloat32(p.Attribute(metadata.AttributeUV)),
	}
	if p.Index != nil {
		g.Index = newIndexBuffer(p.Index, vertexCount)
	}
	if normals := p.Attribute(metadata.AttributeNormal); normals != nil {
		g.Normal = toFloat32(normals)
	} else {
		g.Normal = math.ComputeVertexNormals(positions, p.Index)
	}

	g.BoundingBox = math.NewExtents3DFromPositions(positions)
	g.BoundingSphere = math.NewSphereFromPositions(positions, g.BoundingBox)
	gs.world.Expand(g.BoundingBox)

	g.PositionHigh, g.PositionLow = gs.splitPositions(positions)
	return g, nil
}

/**
 * @brief Converts a polyline payload into a segment list payload: every pair
 * of consecutive vertices becomes an explicit start/end pair. COLOR follows
 * the same expansion.
 */
func (gs *GeometrySystem) LineSegments(p *metadata.GeometryPayload) (*metadata.GeometryPayload, error) {
	if err := gs.Validate(metadata.GeometryTypeLine, p); err != nil {
		return nil, err
	}
	gs.BakeTransform(p)

	out := &metadata.GeometryPayload{Attributes: map[metadata.AttributeType][]float64{
		metadata.AttributePosition: polylineToSegments(p.Positions()),
	}}
	if colors := p.Attribute(metadata.AttributeColor); colors != nil {
		out.Attributes[metadata.AttributeColor] = polylineToSegments(colors)
	}
	return out, nil
}

func polylineToSegments(in []float64) []float64 {
	segments := len(in)/3 - 1
	out := make([]float64, 0, segments*6)
	for i := 0; i < segments; i++ {
		out = append(out, in[i*3:i*3+6]...)
	}
	return out
}

/**
 * @brief Encodes a segment list payload, as produced by LineSegments or a
 * merge of several of them.
 */
func (gs *GeometrySystem) BuildLineSegments(p *metadata.GeometryPayload) (*metadata.LineGeometry, error) {
	if p == nil {
		return nil, malformed("nil payload")
	}
	positions := p.Positions()
	if len(positions) == 0 || len(positions)%6 != 0 {
		return nil, malformed("segment POSITION length %d is not a positive multiple of 6", len(positions))
	}

	g := &metadata.LineGeometry{
		Thick:        gs.config.ThickLines,
		Position:     toFloat32(positions),
		SegmentCount: len(positions) / 6,
	}
	if g.Thick {
		if colors := p.Attribute(metadata.AttributeColor); len(colors) == len(positions) {
			g.Color = toFloat32(colors)
		} else {
			g.Color = whiteColors(len(positions))
		}
	}

	g.BoundingBox = math.NewExtents3DFromPositions(positions)
	gs.world.Expand(g.BoundingBox)

	g.PositionHigh, g.PositionLow = gs.splitPositions(positions)
	return g, nil
}

/**
 * @brief Encodes a polyline payload.
 */
func (gs *GeometrySystem) BuildLines(p *metadata.GeometryPayload) (*metadata.LineGeometry, error) {
	segments, err := gs.LineSegments(p)
	if err != nil {
		return nil, err
	}
	return gs.BuildLineSegments(segments)
}

/**
 * @brief Encodes a point or point cloud payload.
 */
func (gs *GeometrySystem) BuildPoints(p *metadata.GeometryPayload) (*metadata.PointGeometry, error) {
	if err := gs.Validate(metadata.GeometryTypePoint, p); err != nil {
		return nil, err
	}
	gs.BakeTransform(p)

	positions := p.Positions()
	g := &metadata.PointGeometry{
		Position: toFloat32(positions),
		Color:    toFloat32(p.Attribute(metadata.AttributeColor)),
	}
	g.BoundingBox = math.NewExtents3DFromPositions(positions)
	gs.world.Expand(g.BoundingBox)

	g.PositionHigh, g.PositionLow = gs.splitPositions(positions)
	return g, nil
}

func whiteColors(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

var mergedAttributes = []metadata.AttributeType{
	metadata.AttributeColor,
	metadata.AttributeNormal,
	metadata.AttributeUV,
	metadata.AttributeTangents,
}

/**
 * @brief Merges payloads into one, consuming them.
 *
 * Transforms are baked first. Attributes are concatenated in input order;
 * an attribute survives only if every payload has it, except COLOR which is
 * padded with white for payloads that lack it. When any payload is indexed,
 * the result is indexed: payloads without INDEX get sequential indices and
 * the indices of payload k are offset by the vertex count of payloads 0..k-1.
 * The inputs are cleared on success.
 */
func (gs *GeometrySystem) MergeAll(payloads []*metadata.GeometryPayload) (*metadata.GeometryPayload, error) {
	if len(payloads) == 0 {
		return nil, malformed("nothing to merge")
	}

	indexed := false
	totalVertices := 0
	totalIndices := 0
	for i, p := range payloads {
		if p == nil || len(p.Positions()) == 0 {
			return nil, malformed("payload %d has no POSITION", i)
		}
		gs.BakeTransform(p)
		vc := p.VertexCount()
		totalVertices += vc
		if p.IsIndexed() {
			indexed = true
			totalIndices += len(p.Index)
		} else {
			totalIndices += vc
		}
	}

	positions := make([]float64, 0, totalVertices*3)
	for _, p := range payloads {
		positions = append(positions, p.Positions()...)
	}
	merged := metadata.NewGeometryPayload(positions)

	for _, attr := range mergedAttributes {
		present := 0
		for _, p := range payloads {
			if p.Attribute(attr) != nil {
				present++
			}
		}
		if present == 0 {
			continue
		}
		if present < len(payloads) && attr != metadata.AttributeColor {
			core.LogDebug("dropping %s: present in %d of %d merged payloads", attr, present, len(payloads))
			continue
		}
		data := make([]float64, 0, totalVertices*attr.Components())
		for _, p := range payloads {
			if src := p.Attribute(attr); src != nil {
				data = append(data, src...)
				continue
			}
			for i := 0; i < p.VertexCount()*attr.Components(); i++ {
				data = append(data, 1)
			}
		}
		merged.SetAttribute(attr, data)
	}

	if indexed {
		index := make([]uint32, 0, totalIndices)
		offset := uint32(0)
		for _, p := range payloads {
			vc := p.VertexCount()
			if p.IsIndexed() {
				for _, idx := range p.Index {
					index = append(index, idx+offset)
				}
			} else {
				for i := 0; i < vc; i++ {
					index = append(index, uint32(i)+offset)
				}
			}
			offset += uint32(vc)
		}
		merged.Index = index
	}

	for _, p := range payloads {
		p.Clear()
	}
	return merged, nil
}

/**
 * @brief Expands packed 0xRRGGBB colours into float RGB triples in [0, 1].
 */
func UnpackColors(packed []int32) []float64 {
	out := make([]float64, 0, len(packed)*3)
	for _, c := range packed {
		out = append(out,
			float64((c>>16)&0xff)/255.0,
			float64((c>>8)&0xff)/255.0,
			float64(c&0xff)/255.0,
		)
	}
	return out
}
