package metadata

/** @brief The kind tag of an object in the scene tree. */
type ObjectKind string

const (
	ObjectKindMesh       ObjectKind = "Mesh"
	ObjectKindBrep       ObjectKind = "Brep"
	ObjectKindLine       ObjectKind = "Line"
	ObjectKindPolyline   ObjectKind = "Polyline"
	ObjectKindCurve      ObjectKind = "Curve"
	ObjectKindPoint      ObjectKind = "Point"
	ObjectKindPointCloud ObjectKind = "Pointcloud"
)

/**
 * @brief A render-eligible object handed to the batcher.
 */
type SceneObject struct {
	ID       string
	Kind     ObjectKind
	Payload  *GeometryPayload
	Material *MaterialDescriptor
}
