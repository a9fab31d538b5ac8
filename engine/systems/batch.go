package systems

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

/**
 * @brief A set of objects sharing one material, merged into one buffer.
 * Implemented by MeshBatch, LineBatch and PointBatch only.
 */
type Batch interface {
	ID() string
	GeometryType() metadata.GeometryType
	/** @brief The base material, used wherever no override applies. */
	Material() *metadata.Material
	RenderViews() []metadata.RenderView
	GetRenderView(index int) (metadata.RenderView, error)
	/** @brief Length of the drawable range, in the batch's element unit. */
	ElementCount() uint32
	Buffers() *metadata.BatchBuffers

	/**
	 * @brief Replaces the overrides with ranges. Ranges are clipped to the
	 * batch and must not overlap each other.
	 */
	SetDrawRanges(ranges ...metadata.DrawRange) error
	/** @brief Leaves one full-range entry with the base material. */
	ResetDrawRanges()
	DrawRanges() []metadata.DrawRange
	/** @brief Partition of the full range; the base material fills gaps. */
	DrawGroups() []metadata.DrawRange
	DrawInfo() metadata.BatchDrawInfo

	build(gs *GeometrySystem, objects []metadata.SceneObject) error
}

// batchBase holds what every batch variant shares: the render view arena
// and the draw-range overrides.
type batchBase struct {
	id           string
	geometryType metadata.GeometryType
	material     *metadata.Material
	views        []metadata.RenderView
	elementCount uint32
	ranges       []metadata.DrawRange
}

func newBatchBase(id string, geometryType metadata.GeometryType, material *metadata.Material) batchBase {
	return batchBase{
		id:           id,
		geometryType: geometryType,
		material:     material,
	}
}

func (b *batchBase) ID() string {
	return b.id
}

func (b *batchBase) GeometryType() metadata.GeometryType {
	return b.geometryType
}

func (b *batchBase) Material() *metadata.Material {
	return b.material
}

func (b *batchBase) RenderViews() []metadata.RenderView {
	return b.views
}

func (b *batchBase) GetRenderView(index int) (metadata.RenderView, error) {
	if index < 0 || index >= len(b.views) {
		return metadata.RenderView{}, fmt.Errorf("render view %d of batch %s: %w", index, b.id, core.ErrNotFound)
	}
	return b.views[index], nil
}

func (b *batchBase) ElementCount() uint32 {
	return b.elementCount
}

// appendView assigns the next element range of the batch to an object.
func (b *batchBase) appendView(obj metadata.SceneObject, count uint32) {
	b.views = append(b.views, metadata.RenderView{
		ObjectID:     obj.ID,
		BatchID:      b.id,
		Index:        len(b.views),
		Start:        b.elementCount,
		Count:        count,
		MaterialKey:  obj.Material.Hash(),
		GeometryType: b.geometryType,
	})
	b.elementCount += count
}

// checkElementCount guards against a merge that disagrees with the views.
func (b *batchBase) checkElementCount(encoded int) error {
	if uint32(encoded) != b.elementCount {
		return fmt.Errorf("batch %s encoded %d elements, render views cover %d: %w", b.id, encoded, b.elementCount, core.ErrMalformedGeometry)
	}
	return nil
}

func (b *batchBase) ResetDrawRanges() {
	b.ranges = []metadata.DrawRange{{Offset: 0, Count: b.elementCount, Material: b.material}}
}

func (b *batchBase) SetDrawRanges(ranges ...metadata.DrawRange) error {
	b.ResetDrawRanges()
	if len(ranges) == 0 {
		return nil
	}

	clipped := make([]metadata.DrawRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Offset >= b.elementCount || r.Count == 0 {
			continue
		}
		if r.Count > b.elementCount-r.Offset {
			r.Count = b.elementCount - r.Offset
		}
		clipped = append(clipped, r)
	}
	slices.SortStableFunc(clipped, func(a, c metadata.DrawRange) int {
		switch {
		case a.Offset < c.Offset:
			return -1
		case a.Offset > c.Offset:
			return 1
		}
		return 0
	})
	for i := 1; i < len(clipped); i++ {
		if clipped[i].Offset < clipped[i-1].End() {
			return fmt.Errorf("batch %s: [%d, %d) and [%d, %d): %w", b.id,
				clipped[i-1].Offset, clipped[i-1].End(), clipped[i].Offset, clipped[i].End(), core.ErrOverlappingRanges)
		}
	}
	if len(clipped) > 0 {
		b.ranges = clipped
	}
	return nil
}

func (b *batchBase) DrawRanges() []metadata.DrawRange {
	if b.ranges == nil {
		b.ResetDrawRanges()
	}
	return b.ranges
}

func (b *batchBase) DrawGroups() []metadata.DrawRange {
	groups := make([]metadata.DrawRange, 0, len(b.ranges)*2+1)
	push := func(r metadata.DrawRange) {
		if r.Count == 0 {
			return
		}
		if n := len(groups); n > 0 && groups[n-1].Material == r.Material && groups[n-1].End() == r.Offset {
			groups[n-1].Count += r.Count
			return
		}
		groups = append(groups, r)
	}

	cursor := uint32(0)
	for _, r := range b.DrawRanges() {
		if r.Offset > cursor {
			push(metadata.DrawRange{Offset: cursor, Count: r.Offset - cursor, Material: b.material})
		}
		push(r)
		cursor = r.End()
	}
	if cursor < b.elementCount {
		push(metadata.DrawRange{Offset: cursor, Count: b.elementCount - cursor, Material: b.material})
	}
	return groups
}

func (b *batchBase) DrawInfo() metadata.BatchDrawInfo {
	return metadata.BatchDrawInfo{
		BatchID:      b.id,
		GeometryType: b.geometryType,
		ElementCount: b.elementCount,
		Groups:       b.DrawGroups(),
	}
}

func payloadsOf(objects []metadata.SceneObject) []*metadata.GeometryPayload {
	out := make([]*metadata.GeometryPayload, len(objects))
	for i, obj := range objects {
		out[i] = obj.Payload
	}
	return out
}

/**
 * @brief Creates an empty batch of the given type.
 */
func newBatch(id string, geometryType metadata.GeometryType, material *metadata.Material) (Batch, error) {
	switch geometryType {
	case metadata.GeometryTypeMesh:
		return &MeshBatch{batchBase: newBatchBase(id, geometryType, material)}, nil
	case metadata.GeometryTypeLine:
		return &LineBatch{batchBase: newBatchBase(id, geometryType, material)}, nil
	case metadata.GeometryTypePoint, metadata.GeometryTypePointCloud:
		return &PointBatch{batchBase: newBatchBase(id, geometryType, material)}, nil
	default:
		return nil, fmt.Errorf("%w: %d", core.ErrUnknownGeometryType, geometryType)
	}
}
