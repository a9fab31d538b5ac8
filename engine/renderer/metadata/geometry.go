package metadata

import (
	"github.com/spaghettifunk/stratum/engine/math"
)

/** @brief Named per-vertex attributes carried by a geometry payload. */
type AttributeType string

const (
	AttributePosition AttributeType = "POSITION"
	AttributeColor    AttributeType = "COLOR"
	AttributeNormal   AttributeType = "NORMAL"
	AttributeUV       AttributeType = "UV"
	AttributeTangents AttributeType = "TANGENTS"
)

/** @brief Number of scalars per vertex for the attribute. */
func (a AttributeType) Components() int {
	switch a {
	case AttributeUV:
		return 2
	case AttributeTangents:
		return 4
	default:
		return 3
	}
}

/** @brief The kind of primitive a batch draws. */
type GeometryType uint8

const (
	GeometryTypeMesh GeometryType = iota
	GeometryTypeLine
	GeometryTypePoint
	GeometryTypePointCloud
)

func (g GeometryType) String() string {
	switch g {
	case GeometryTypeMesh:
		return "mesh"
	case GeometryTypeLine:
		return "line"
	case GeometryTypePoint:
		return "point"
	case GeometryTypePointCloud:
		return "pointcloud"
	default:
		return "unknown"
	}
}

/**
 * @brief Per-object geometry input, as handed over by the loading subsystem.
 * Positions are kept in double precision until they are encoded.
 */
type GeometryPayload struct {
	/** @brief Flat attribute arrays keyed by attribute name. */
	Attributes map[AttributeType][]float64
	/** @brief Triangle indices, 3 per triangle. Nil for non-indexed geometry. */
	Index []uint32
	/** @brief Optional transform baked into POSITION before merging. */
	BakeTransform *math.Mat4
}

func NewGeometryPayload(positions []float64) *GeometryPayload {
	return &GeometryPayload{
		Attributes: map[AttributeType][]float64{
			AttributePosition: positions,
		},
	}
}

func (p *GeometryPayload) Positions() []float64 {
	if p == nil || p.Attributes == nil {
		return nil
	}
	return p.Attributes[AttributePosition]
}

func (p *GeometryPayload) Attribute(a AttributeType) []float64 {
	if p == nil || p.Attributes == nil {
		return nil
	}
	return p.Attributes[a]
}

func (p *GeometryPayload) SetAttribute(a AttributeType, data []float64) {
	if p.Attributes == nil {
		p.Attributes = make(map[AttributeType][]float64)
	}
	p.Attributes[a] = data
}

func (p *GeometryPayload) VertexCount() int {
	return len(p.Positions()) / 3
}

func (p *GeometryPayload) IsIndexed() bool {
	return p != nil && p.Index != nil
}

/** @brief Drops all attribute storage. Merged payloads are consumed this way. */
func (p *GeometryPayload) Clear() {
	for k := range p.Attributes {
		delete(p.Attributes, k)
	}
	p.Index = nil
	p.BakeTransform = nil
}

/** @brief Deep copy, so a payload can be batched without being consumed. */
func (p *GeometryPayload) Clone() *GeometryPayload {
	if p == nil {
		return nil
	}
	out := &GeometryPayload{Attributes: make(map[AttributeType][]float64, len(p.Attributes))}
	for k, v := range p.Attributes {
		out.Attributes[k] = append([]float64(nil), v...)
	}
	if p.Index != nil {
		out.Index = append([]uint32(nil), p.Index...)
	}
	if p.BakeTransform != nil {
		t := *p.BakeTransform
		out.BakeTransform = &t
	}
	return out
}

/** @brief Index data stored with the narrowest width that fits. */
type IndexBuffer struct {
	Wide bool
	U16  []uint16
	U32  []uint32
}

func (ib IndexBuffer) Len() int {
	if ib.Wide {
		return len(ib.U32)
	}
	return len(ib.U16)
}

func (ib IndexBuffer) At(i int) uint32 {
	if ib.Wide {
		return ib.U32[i]
	}
	return uint32(ib.U16[i])
}

/** @brief Size in bytes of one index. */
func (ib IndexBuffer) Stride() int {
	if ib.Wide {
		return 4
	}
	return 2
}

/**
 * @brief Renderer-ready triangle mesh buffers.
 */
type MeshGeometry struct {
	Position []float32
	/** @brief High part of the split position encoding. Nil when RTE is off. */
	PositionHigh []float32
	/** @brief Low part of the split position encoding. Nil when RTE is off. */
	PositionLow []float32
	Color       []float32
	Normal      []float32
	UV          []float32
	Index       *IndexBuffer

	BoundingBox    math.Extents3D
	BoundingSphere math.Sphere
}

func (g *MeshGeometry) VertexCount() int {
	return len(g.Position) / 3
}

/** @brief Indices when indexed, vertices otherwise. */
func (g *MeshGeometry) ElementCount() int {
	if g.Index != nil {
		return g.Index.Len()
	}
	return g.VertexCount()
}

/**
 * @brief Renderer-ready line buffers. Both encodings store segments as
 * start/end pairs, 6 floats per segment. Thin lines draw them as a vertex list,
 * thick lines draw one screen-space quad instance per segment.
 */
type LineGeometry struct {
	Thick        bool
	Position     []float32
	PositionHigh []float32
	PositionLow  []float32
	/** @brief Start/end colours per segment. Thick lines only. */
	Color        []float32
	SegmentCount int

	BoundingBox math.Extents3D
}

/** @brief Segment instances for thick lines, vertices for thin lines. */
func (g *LineGeometry) ElementCount() int {
	if g.Thick {
		return g.SegmentCount
	}
	return g.SegmentCount * 2
}

/**
 * @brief Renderer-ready point buffers.
 */
type PointGeometry struct {
	Position     []float32
	PositionHigh []float32
	PositionLow  []float32
	Color        []float32

	BoundingBox math.Extents3D
}

func (g *PointGeometry) ElementCount() int {
	return len(g.Position) / 3
}
