package systems

import (
	"fmt"

	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/math"
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

type MaterialSystemConfig struct {
	/** @brief Base colour of default materials, 0xRRGGBB. */
	DefaultColor uint32
	/** @brief Colour used by the selection highlight, 0xRRGGBB. */
	HighlightColor uint32
	/** @brief Opacity of ghosted ranges. */
	GhostOpacity float32
	LineWidth    float32
	PointSize    float32
}

type materialMapKey struct {
	key          uint64
	geometryType metadata.GeometryType
}

type filterMapKey struct {
	geometryType metadata.GeometryType
	color        uint32
}

/**
 * @brief Owns every material used by batches and draw-range overrides.
 * Materials are created once per key and shared afterwards.
 */
type MaterialSystem struct {
	config MaterialSystemConfig
	nextID uint32

	defaults   map[metadata.GeometryType]*metadata.Material
	materials  map[materialMapKey]*metadata.Material
	highlights map[metadata.GeometryType]*metadata.Material
	ghosts     map[metadata.GeometryType]*metadata.Material
	filters    map[filterMapKey]*metadata.Material
	hidden     *metadata.Material
}

func NewMaterialSystem(config MaterialSystemConfig) (*MaterialSystem, error) {
	if config.GhostOpacity < 0 || config.GhostOpacity > 1 {
		err := fmt.Errorf("func NewMaterialSystem - ghost opacity must be within [0, 1], got %f", config.GhostOpacity)
		core.LogWarn(err.Error())
		return nil, err
	}
	ms := &MaterialSystem{}
	ms.SetConfig(config)
	ms.Clear()
	ms.hidden = ms.newMaterial("hidden", 0, metadata.GeometryTypeMesh)
	ms.hidden.Visible = false
	return ms, nil
}

/**
 * @brief Replaces the configuration. Only materials created afterwards use it.
 */
func (ms *MaterialSystem) SetConfig(config MaterialSystemConfig) {
	if config.LineWidth <= 0 {
		config.LineWidth = 1
	}
	if config.PointSize <= 0 {
		config.PointSize = 1
	}
	ms.config = config
}

func (ms *MaterialSystem) newMaterial(name string, key uint64, geometryType metadata.GeometryType) *metadata.Material {
	ms.nextID++
	return &metadata.Material{
		ID:            ms.nextID,
		Name:          name,
		Key:           key,
		GeometryType:  geometryType,
		DiffuseColour: math.NewVec4FromRGB(ms.config.DefaultColor, 1),
		Roughness:     1,
		LineWidth:     ms.config.LineWidth,
		PointSize:     ms.config.PointSize,
		Visible:       true,
	}
}

/**
 * @brief Returns the default material of a geometry type, used for key 0.
 */
func (ms *MaterialSystem) DefaultMaterial(geometryType metadata.GeometryType) *metadata.Material {
	if m, ok := ms.defaults[geometryType]; ok {
		return m
	}
	m := ms.newMaterial(fmt.Sprintf("%s_%s", metadata.DefaultMaterialName, geometryType), 0, geometryType)
	// default meshes, lines and points take their colour from the vertices
	m.VertexColors = true
	ms.defaults[geometryType] = m
	return m
}

/**
 * @brief Returns the shared material for a grouping key, creating it from
 * desc on first use.
 */
func (ms *MaterialSystem) UpdateMaterialMap(key uint64, desc *metadata.MaterialDescriptor, geometryType metadata.GeometryType) *metadata.Material {
	if key == 0 || desc == nil {
		return ms.DefaultMaterial(geometryType)
	}
	mk := materialMapKey{key: key, geometryType: geometryType}
	if m, ok := ms.materials[mk]; ok {
		return m
	}

	m := ms.newMaterial(fmt.Sprintf("material_%016x", key), key, geometryType)
	opacity := desc.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	m.DiffuseColour = math.NewVec4FromRGB(desc.Color, opacity)
	m.EmissiveColour = math.NewVec4FromRGB(desc.Emissive, 1)
	m.Roughness = desc.Roughness
	m.Metalness = desc.Metalness
	m.Transparent = opacity < 1
	if desc.LineWeight > 0 {
		m.LineWidth = desc.LineWeight
	}
	ms.materials[mk] = m
	return m
}

/**
 * @brief Returns the material of an existing key, if any.
 */
func (ms *MaterialSystem) Material(key uint64, geometryType metadata.GeometryType) (*metadata.Material, bool) {
	if key == 0 {
		return ms.DefaultMaterial(geometryType), true
	}
	m, ok := ms.materials[materialMapKey{key: key, geometryType: geometryType}]
	return m, ok
}

func (ms *MaterialSystem) HighlightMaterial(rv metadata.RenderView) *metadata.Material {
	if m, ok := ms.highlights[rv.GeometryType]; ok {
		return m
	}
	m := ms.newMaterial(fmt.Sprintf("highlight_%s", rv.GeometryType), 0, rv.GeometryType)
	m.DiffuseColour = math.NewVec4FromRGB(ms.config.HighlightColor, 1)
	m.EmissiveColour = m.DiffuseColour
	ms.highlights[rv.GeometryType] = m
	return m
}

func (ms *MaterialSystem) FilterMaterial(rv metadata.RenderView, color uint32) *metadata.Material {
	fk := filterMapKey{geometryType: rv.GeometryType, color: color}
	if m, ok := ms.filters[fk]; ok {
		return m
	}
	m := ms.newMaterial(fmt.Sprintf("filter_%s_%06x", rv.GeometryType, color), 0, rv.GeometryType)
	m.DiffuseColour = math.NewVec4FromRGB(color, 1)
	ms.filters[fk] = m
	return m
}

func (ms *MaterialSystem) GhostMaterial(rv metadata.RenderView) *metadata.Material {
	if m, ok := ms.ghosts[rv.GeometryType]; ok {
		return m
	}
	m := ms.newMaterial(fmt.Sprintf("ghost_%s", rv.GeometryType), 0, rv.GeometryType)
	m.DiffuseColour = math.NewVec4FromRGB(ms.config.DefaultColor, ms.config.GhostOpacity)
	m.Transparent = true
	ms.ghosts[rv.GeometryType] = m
	return m
}

// HiddenMaterial is shared by every geometry type.
func (ms *MaterialSystem) HiddenMaterial() *metadata.Material {
	return ms.hidden
}

/**
 * @brief Resolves the override material for a view under a draw style.
 */
func (ms *MaterialSystem) StyleMaterial(rv metadata.RenderView, style metadata.DrawStyle) *metadata.Material {
	switch style.Kind {
	case metadata.StyleFilter:
		return ms.FilterMaterial(rv, style.Color)
	case metadata.StyleHidden:
		return ms.HiddenMaterial()
	case metadata.StyleGhost:
		return ms.GhostMaterial(rv)
	default:
		return ms.HighlightMaterial(rv)
	}
}

// Count returns the number of keyed materials.
func (ms *MaterialSystem) Count() int {
	return len(ms.materials)
}

/**
 * @brief Drops every keyed and style material. The hidden material survives.
 */
func (ms *MaterialSystem) Clear() {
	ms.defaults = make(map[metadata.GeometryType]*metadata.Material)
	ms.materials = make(map[materialMapKey]*metadata.Material)
	ms.highlights = make(map[metadata.GeometryType]*metadata.Material)
	ms.ghosts = make(map[metadata.GeometryType]*metadata.Material)
	ms.filters = make(map[filterMapKey]*metadata.Material)
}
