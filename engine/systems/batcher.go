package systems

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/renderer"
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

/**
 * @brief Supplies render-eligible objects to the batcher, in scene order.
 */
type ObjectSource interface {
	ObjectsOfKind(kinds ...metadata.ObjectKind) []metadata.SceneObject
}

// SkippedObject names an object left out of batching and the reason.
type SkippedObject struct {
	ObjectID string
	Err      error
}

// BatchReport summarizes one MakeBatches call.
type BatchReport struct {
	BatchIDs    []string
	RenderViews int
	Skipped     []SkippedObject
}

type keyedObject struct {
	key uint64
	obj metadata.SceneObject
}

/**
 * @brief Groups objects by material into batches and manages the draw-range
 * overrides of those batches. The only writer of overrides.
 */
type Batcher struct {
	source         ObjectSource
	geometrySystem *GeometrySystem
	materialSystem *MaterialSystem
	index          *RenderViewIndex
	renderer       *renderer.Renderer
	metrics        *core.Metrics

	batches map[string]Batch
	// batch ids in creation order
	order []string
}

/**
 * @brief Creates a batcher. r and metrics are optional; without a renderer
 * batches are built but never uploaded.
 */
func NewBatcher(source ObjectSource, gs *GeometrySystem, ms *MaterialSystem, index *RenderViewIndex, r *renderer.Renderer, metrics *core.Metrics) (*Batcher, error) {
	if source == nil || gs == nil || ms == nil || index == nil {
		err := fmt.Errorf("func NewBatcher - object source, geometry system, material system and render view index are required")
		core.LogWarn(err.Error())
		return nil, err
	}
	return &Batcher{
		source:         source,
		geometrySystem: gs,
		materialSystem: ms,
		index:          index,
		renderer:       r,
		metrics:        metrics,
		batches:        make(map[string]Batch),
	}, nil
}

/**
 * @brief Builds batches of one geometry type from every object of the given
 * kinds that is not batched yet for that type.
 *
 * Objects are stable-sorted by material key (key 0 first) and each run of
 * equal keys becomes one batch. Malformed objects are skipped and reported.
 * Building consumes the payloads of batched objects.
 */
func (b *Batcher) MakeBatches(kind metadata.GeometryType, objectKinds ...metadata.ObjectKind) (BatchReport, error) {
	var report BatchReport
	if _, err := newBatch("", kind, nil); err != nil {
		return report, err
	}

	clock := core.NewClock()
	clock.Start()

	objects := b.source.ObjectsOfKind(objectKinds...)
	keyed := make([]keyedObject, 0, len(objects))
	for _, obj := range objects {
		if b.isBatched(obj.ID, kind) {
			continue
		}
		if err := b.geometrySystem.Validate(kind, obj.Payload); err != nil {
			core.LogWarn("skipping object %s: %s", obj.ID, err.Error())
			report.Skipped = append(report.Skipped, SkippedObject{ObjectID: obj.ID, Err: err})
			continue
		}
		keyed = append(keyed, keyedObject{key: obj.Material.Hash(), obj: obj})
	}

	slices.SortStableFunc(keyed, func(a, c keyedObject) int {
		switch {
		case a.key < c.key:
			return -1
		case a.key > c.key:
			return 1
		}
		return 0
	})

	for start := 0; start < len(keyed); {
		end := start + 1
		for end < len(keyed) && keyed[end].key == keyed[start].key {
			end++
		}
		run := make([]metadata.SceneObject, end-start)
		for i := range run {
			run[i] = keyed[start+i].obj
		}

		batch, err := b.makeBatch(kind, keyed[start].key, run)
		if err != nil {
			core.LogError("failed to build %s batch for material key %016x: %s", kind, keyed[start].key, err.Error())
			for _, obj := range run {
				report.Skipped = append(report.Skipped, SkippedObject{ObjectID: obj.ID, Err: err})
			}
		} else {
			report.BatchIDs = append(report.BatchIDs, batch.ID())
			report.RenderViews += len(batch.RenderViews())
		}
		start = end
	}

	clock.Update()
	if b.metrics != nil {
		b.metrics.RecordBuild(clock.Elapsed(), len(report.BatchIDs), report.RenderViews, len(report.Skipped))
		b.metrics.SetDrawGroups(b.DrawGroupCount())
	}
	core.LogInfo("built %d %s batches with %d render views in %s (%d skipped)",
		len(report.BatchIDs), kind, report.RenderViews, clock.Elapsed(), len(report.Skipped))
	return report, nil
}

func (b *Batcher) makeBatch(kind metadata.GeometryType, key uint64, run []metadata.SceneObject) (Batch, error) {
	material := b.materialSystem.UpdateMaterialMap(key, run[0].Material, kind)
	batch, err := newBatch(core.IdentifierAcquireNewID(), kind, material)
	if err != nil {
		return nil, err
	}
	if err := batch.build(b.geometrySystem, run); err != nil {
		return nil, err
	}
	if b.renderer != nil {
		if err := b.renderer.UploadBatch(batch.Buffers()); err != nil {
			return nil, err
		}
	}

	b.batches[batch.ID()] = batch
	b.order = append(b.order, batch.ID())
	b.index.Add(batch.RenderViews()...)
	return batch, nil
}

func (b *Batcher) isBatched(objectID string, kind metadata.GeometryType) bool {
	refs, ok := b.index.Get(objectID)
	if !ok {
		return false
	}
	for _, ref := range refs {
		if batch, ok := b.batches[ref.BatchID]; ok && batch.GeometryType() == kind {
			return true
		}
	}
	return false
}

// resolve maps object ids to the deduplicated view indices of each batch.
func (b *Batcher) resolve(objectIDs []string) map[string][]int {
	refs := b.index.Lookup(objectIDs)
	seen := make(map[metadata.RenderViewRef]struct{}, len(refs))
	grouped := make(map[string][]int)
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		if _, ok := b.batches[ref.BatchID]; !ok {
			continue
		}
		grouped[ref.BatchID] = append(grouped[ref.BatchID], ref.Index)
	}
	return grouped
}

/**
 * @brief Resets every batch, then draws the ranges of the given objects with
 * the style's material. Unknown ids are ignored; repeating a call with the
 * same arguments yields the same state. An empty id list is a reset.
 */
func (b *Batcher) SetDrawRanges(objectIDs []string, style metadata.DrawStyle) error {
	b.resetAll()

	var errs []error
	grouped := b.resolve(objectIDs)
	for _, batchID := range b.order {
		indices, ok := grouped[batchID]
		if !ok {
			continue
		}
		batch := b.batches[batchID]
		ranges := make([]metadata.DrawRange, 0, len(indices))
		for _, i := range indices {
			rv, err := batch.GetRenderView(i)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			ranges = append(ranges, metadata.DrawRange{
				Offset:   rv.Start,
				Count:    rv.Count,
				Material: b.materialSystem.StyleMaterial(rv, style),
			})
		}
		if err := batch.SetDrawRanges(ranges...); err != nil {
			errs = append(errs, err)
		}
	}

	b.syncDrawGroups()
	return errors.Join(errs...)
}

/**
 * @brief Resets every batch, then applies style to everything outside the
 * given objects, including batches holding none of them. An empty id list
 * is a reset.
 */
func (b *Batcher) IsolateObjects(objectIDs []string, style metadata.DrawStyle) error {
	b.resetAll()
	if len(objectIDs) == 0 {
		b.syncDrawGroups()
		return nil
	}

	var errs []error
	grouped := b.resolve(objectIDs)
	for _, batchID := range b.order {
		batch := b.batches[batchID]
		selected := make([]metadata.RenderView, 0, len(grouped[batchID]))
		for _, i := range grouped[batchID] {
			if rv, err := batch.GetRenderView(i); err == nil {
				selected = append(selected, rv)
			}
		}
		slices.SortFunc(selected, func(a, c metadata.RenderView) int {
			return a.Index - c.Index
		})

		material := b.materialSystem.StyleMaterial(metadata.RenderView{BatchID: batchID, GeometryType: batch.GeometryType()}, style)
		var ranges []metadata.DrawRange
		cursor := uint32(0)
		for _, rv := range selected {
			if rv.Start > cursor {
				ranges = append(ranges, metadata.DrawRange{Offset: cursor, Count: rv.Start - cursor, Material: material})
			}
			cursor = rv.End()
		}
		if cursor < batch.ElementCount() {
			ranges = append(ranges, metadata.DrawRange{Offset: cursor, Count: batch.ElementCount() - cursor, Material: material})
		}
		if err := batch.SetDrawRanges(ranges...); err != nil {
			errs = append(errs, err)
		}
	}

	b.syncDrawGroups()
	return errors.Join(errs...)
}

/**
 * @brief Clears every override so each batch draws with its base material.
 */
func (b *Batcher) ResetBatchesDrawRanges() {
	b.resetAll()
	b.syncDrawGroups()
}

func (b *Batcher) resetAll() {
	for _, id := range b.order {
		b.batches[id].ResetDrawRanges()
	}
}

// syncDrawGroups hands the current draw groups of every batch to the renderer.
func (b *Batcher) syncDrawGroups() {
	total := 0
	for _, id := range b.order {
		groups := b.batches[id].DrawGroups()
		total += len(groups)
		if b.renderer == nil {
			continue
		}
		if err := b.renderer.UpdateDrawGroups(id, groups); err != nil {
			core.LogError("failed to update draw groups of batch %s: %s", id, err.Error())
		}
	}
	if b.metrics != nil {
		b.metrics.RecordRangeUpdate(total)
	}
}

func (b *Batcher) GetRenderView(batchID string, index int) (metadata.RenderView, error) {
	batch, ok := b.batches[batchID]
	if !ok {
		return metadata.RenderView{}, fmt.Errorf("batch %s: %w", batchID, core.ErrNotFound)
	}
	return batch.GetRenderView(index)
}

/**
 * @brief Returns every render view of an object across batches.
 */
func (b *Batcher) RenderViewsOf(objectID string) ([]metadata.RenderView, error) {
	refs, ok := b.index.Get(objectID)
	if !ok {
		return nil, fmt.Errorf("object %s: %w", objectID, core.ErrNotFound)
	}
	out := make([]metadata.RenderView, 0, len(refs))
	for _, ref := range refs {
		rv, err := b.GetRenderView(ref.BatchID, ref.Index)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, nil
}

func (b *Batcher) Batch(batchID string) (Batch, error) {
	batch, ok := b.batches[batchID]
	if !ok {
		return nil, fmt.Errorf("batch %s: %w", batchID, core.ErrNotFound)
	}
	return batch, nil
}

// Batches returns all batches in creation order.
func (b *Batcher) Batches() []Batch {
	out := make([]Batch, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.batches[id])
	}
	return out
}

/**
 * @brief Returns what the renderer draws this frame, in batch creation order.
 */
func (b *Batcher) DrawList() []metadata.BatchDrawInfo {
	out := make([]metadata.BatchDrawInfo, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.batches[id].DrawInfo())
	}
	return out
}

func (b *Batcher) DrawGroupCount() int {
	total := 0
	for _, id := range b.order {
		total += len(b.batches[id].DrawGroups())
	}
	return total
}

/**
 * @brief Drops every batch, the render view index, keyed materials and the
 * world extent.
 */
func (b *Batcher) Clear() {
	if b.renderer != nil {
		for _, id := range b.order {
			b.renderer.DestroyBatch(id)
		}
	}
	b.batches = make(map[string]Batch)
	b.order = nil
	b.index.Clear()
	b.materialSystem.Clear()
	b.geometrySystem.world.Reset()
	if b.metrics != nil {
		b.metrics.Reset()
	}
}
