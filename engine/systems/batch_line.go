package systems

import (
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

type LineBatch struct {
	batchBase
	geometry *metadata.LineGeometry
}

func (lb *LineBatch) Geometry() *metadata.LineGeometry {
	return lb.geometry
}

func (lb *LineBatch) Buffers() *metadata.BatchBuffers {
	return &metadata.BatchBuffers{BatchID: lb.id, GeometryType: lb.geometryType, Line: lb.geometry}
}

// Polylines are split into segments before merging so that two objects
// never get joined by a bridging segment.
func (lb *LineBatch) build(gs *GeometrySystem, objects []metadata.SceneObject) error {
	thick := gs.Config().ThickLines
	segments := make([]*metadata.GeometryPayload, 0, len(objects))
	for _, obj := range objects {
		seg, err := gs.LineSegments(obj.Payload)
		if err != nil {
			return err
		}
		count := seg.VertexCount() / 2
		if !thick {
			count *= 2
		}
		lb.appendView(obj, uint32(count))
		segments = append(segments, seg)
		obj.Payload.Clear()
	}

	merged, err := gs.MergeAll(segments)
	if err != nil {
		return err
	}
	g, err := gs.BuildLineSegments(merged)
	if err != nil {
		return err
	}
	if err := lb.checkElementCount(g.ElementCount()); err != nil {
		return err
	}
	lb.geometry = g
	lb.ResetDrawRanges()
	return nil
}
