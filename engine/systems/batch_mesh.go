package systems

import (
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

type MeshBatch struct {
	batchBase
	geometry *metadata.MeshGeometry
}

func (mb *MeshBatch) Geometry() *metadata.MeshGeometry {
	return mb.geometry
}

func (mb *MeshBatch) Buffers() *metadata.BatchBuffers {
	return &metadata.BatchBuffers{BatchID: mb.id, GeometryType: mb.geometryType, Mesh: mb.geometry}
}

// Indexed batches count indices per view, non-indexed batches count vertices.
func (mb *MeshBatch) build(gs *GeometrySystem, objects []metadata.SceneObject) error {
	indexed := false
	for _, obj := range objects {
		if obj.Payload.IsIndexed() {
			indexed = true
			break
		}
	}
	for _, obj := range objects {
		count := obj.Payload.VertexCount()
		if indexed && obj.Payload.IsIndexed() {
			count = len(obj.Payload.Index)
		}
		mb.appendView(obj, uint32(count))
	}

	merged, err := gs.MergeAll(payloadsOf(objects))
	if err != nil {
		return err
	}
	g, err := gs.BuildMesh(merged)
	if err != nil {
		return err
	}
	if err := mb.checkElementCount(g.ElementCount()); err != nil {
		return err
	}
	mb.geometry = g
	mb.ResetDrawRanges()
	return nil
}
