package metadata

import (
	"encoding/binary"
	"hash/fnv"
	stdmath "math"

	"github.com/spaghettifunk/stratum/engine/math"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief Material attributes attached to an object by the loading subsystem.
 * Objects whose descriptors hash to the same key can share a batch.
 */
type MaterialDescriptor struct {
	/** @brief Diffuse colour as 0xRRGGBB. */
	Color     uint32
	Opacity   float32
	Roughness float32
	Metalness float32
	/** @brief Emissive colour as 0xRRGGBB. */
	Emissive uint32
	/** @brief Line weight for line display styles. */
	LineWeight float32
}

/**
 * @brief Returns the material grouping key. A nil descriptor maps to the
 * reserved key 0; a real descriptor never does.
 */
func (md *MaterialDescriptor) Hash() uint64 {
	if md == nil {
		return 0
	}
	var buf [24]byte
	binary.LittleEndian.PutUint32(buf[0:], md.Color)
	binary.LittleEndian.PutUint32(buf[4:], stdmath.Float32bits(md.Opacity))
	binary.LittleEndian.PutUint32(buf[8:], stdmath.Float32bits(md.Roughness))
	binary.LittleEndian.PutUint32(buf[12:], stdmath.Float32bits(md.Metalness))
	binary.LittleEndian.PutUint32(buf[16:], md.Emissive)
	binary.LittleEndian.PutUint32(buf[20:], stdmath.Float32bits(md.LineWeight))

	hasher := fnv.New64a()
	_, _ = hasher.Write(buf[:])
	h := hasher.Sum64()
	if h == 0 {
		h = 1
	}
	return h
}

/** @brief How a draw-range override renders its ranges. */
type StyleKind uint8

const (
	/** @brief Selection highlight. */
	StyleHighlight StyleKind = iota
	/** @brief Attribute-driven filter colour. */
	StyleFilter
	/** @brief Not drawn. */
	StyleHidden
	/** @brief Dimmed, semi-transparent. */
	StyleGhost
)

/** @brief The style requested by a selection, filter or isolation consumer. */
type DrawStyle struct {
	Kind StyleKind
	/** @brief Colour as 0xRRGGBB; used by StyleFilter. */
	Color uint32
}

/**
 * @brief A material, which represents the surface properties used to draw
 * one or more ranges of a batch.
 */
type Material struct {
	/** @brief The material id. */
	ID uint32
	/** @brief The material name. */
	Name string
	/** @brief The grouping key the material was created for. */
	Key          uint64
	GeometryType GeometryType
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4
	EmissiveColour math.Vec4
	Roughness      float32
	Metalness      float32
	LineWidth      float32
	PointSize      float32
	Transparent    bool
	/** @brief False for materials that suppress drawing entirely. */
	Visible bool
	/** @brief Uses per-vertex colours instead of DiffuseColour. */
	VertexColors bool
}
