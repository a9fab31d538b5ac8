package systems

import (
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

type PointBatch struct {
	batchBase
	geometry *metadata.PointGeometry
}

func (pb *PointBatch) Geometry() *metadata.PointGeometry {
	return pb.geometry
}

func (pb *PointBatch) Buffers() *metadata.BatchBuffers {
	return &metadata.BatchBuffers{BatchID: pb.id, GeometryType: pb.geometryType, Point: pb.geometry}
}

func (pb *PointBatch) build(gs *GeometrySystem, objects []metadata.SceneObject) error {
	for _, obj := range objects {
		pb.appendView(obj, uint32(obj.Payload.VertexCount()))
	}

	merged, err := gs.MergeAll(payloadsOf(objects))
	if err != nil {
		return err
	}
	g, err := gs.BuildPoints(merged)
	if err != nil {
		return err
	}
	if err := pb.checkElementCount(g.ElementCount()); err != nil {
		return err
	}
	pb.geometry = g
	pb.ResetDrawRanges()
	return nil
}
