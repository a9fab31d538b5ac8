package metadata

/**
 * @brief A sub-range of a batch drawn with a given material.
 */
type DrawRange struct {
	Offset   uint32
	Count    uint32
	Material *Material
}

func (dr DrawRange) End() uint32 {
	return dr.Offset + dr.Count
}

/**
 * @brief Per-batch draw information read by the renderer each frame.
 */
type BatchDrawInfo struct {
	BatchID      string
	GeometryType GeometryType
	ElementCount uint32
	/** @brief Ranges covering [0, ElementCount) in order, gaps filled with the base material. */
	Groups []DrawRange
}

/**
 * @brief The encoded buffers of one batch, as handed to the renderer backend.
 * Exactly one of Mesh, Line and Point is set, matching GeometryType.
 */
type BatchBuffers struct {
	BatchID      string
	GeometryType GeometryType
	Mesh         *MeshGeometry
	Line         *LineGeometry
	Point        *PointGeometry
}

/** @brief Total size in bytes of all float and index buffers. */
func (bb *BatchBuffers) ByteSize() uint64 {
	floats := 0
	indexBytes := 0
	switch {
	case bb.Mesh != nil:
		g := bb.Mesh
		floats = len(g.Position) + len(g.PositionHigh) + len(g.PositionLow) + len(g.Color) + len(g.Normal) + len(g.UV)
		if g.Index != nil {
			indexBytes = g.Index.Len() * g.Index.Stride()
		}
	case bb.Line != nil:
		g := bb.Line
		floats = len(g.Position) + len(g.PositionHigh) + len(g.PositionLow) + len(g.Color)
	case bb.Point != nil:
		g := bb.Point
		floats = len(g.Position) + len(g.PositionHigh) + len(g.PositionLow) + len(g.Color)
	}
	return uint64(floats*4 + indexBytes)
}
