package math

// Vec3 represents a 3D vector in world space. Components are kept in double
// precision so large real-world coordinates survive until they are encoded.
type Vec3 struct {
	X, Y, Z float64
}

// Vec4 represents a 4D vector, used for RGBA colours.
type Vec4 struct {
	X, Y, Z, W float32
}

/**
 * @brief a 4x4 matrix, typically used to represent object transformations.
 * Elements are stored column-major: the translation lives in Data[12..14].
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float64
}

/**
 * @brief Represents the extents of a 3d object.
 * The zero value is not empty; use NewExtents3DEmpty for an accumulator.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

/**
 * @brief A bounding sphere.
 */
type Sphere struct {
	Center Vec3
	Radius float64
}
