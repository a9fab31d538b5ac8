package math

import (
	m "math"

	"github.com/chewxy/math32"
)

const (
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
	/** @brief Double precision counterpart of K_FLOAT_EPSILON. */
	K_DOUBLE_EPSILON float64 = 2.220446049250313e-16
	/** @brief A huge number that should be larger than any valid number used. */
	K_INFINITY float64 = 1e300
)

// ------------------------------------------
// Vector 3
// ------------------------------------------

/**
 * @brief Creates and returns a new 3-element vector using the supplied values.
 */
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

/**
 * @brief Reads the vector stored at element offset `offset` of a flat xyz slice.
 */
func NewVec3FromSlice(s []float64, offset int) Vec3 {
	return Vec3{s[offset], s[offset+1], s[offset+2]}
}

func NewVec3Zero() Vec3 {
	return Vec3{}
}

func NewVec3One() Vec3 {
	return Vec3{1.0, 1.0, 1.0}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		v.X + other.X,
		v.Y + other.Y,
		v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		v.X - other.X,
		v.Y - other.Y,
		v.Z - other.Z}
}

func (v Vec3) MulScalar(scalar float64) Vec3 {
	return Vec3{
		v.X * scalar,
		v.Y * scalar,
		v.Z * scalar}
}

func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float64 {
	return m.Sqrt(v.LengthSquared())
}

/**
 * @brief Returns a normalized copy of the supplied vector. A zero vector
 * is returned unchanged.
 */
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return Vec3{
		v.X / length,
		v.Y / length,
		v.Z / length}
}

/**
 * @brief Calculates and returns the cross product of the supplied vectors.
 * The cross product is a new vector which is orthoganal to both provided vectors.
 */
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X}
}

// Min returns the component-wise minimum of v and other.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{Min(v.X, other.X), Min(v.Y, other.Y), Min(v.Z, other.Z)}
}

// Max returns the component-wise maximum of v and other.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{Max(v.X, other.X), Max(v.Y, other.Y), Max(v.Z, other.Z)}
}

func (v Vec3) Distance(other Vec3) float64 {
	return v.Sub(other).Length()
}

/**
 * @brief Compares all elements of v and other and ensures the difference
 * is less than tolerance.
 */
func (v Vec3) Compare(other Vec3, tolerance float64) bool {
	return m.Abs(v.X-other.X) <= tolerance &&
		m.Abs(v.Y-other.Y) <= tolerance &&
		m.Abs(v.Z-other.Z) <= tolerance
}

/**
 * @brief Transform v by mt as a point, applying the perspective divide
 * by the resulting w component.
 */
func (v Vec3) Transform(mt Mat4) Vec3 {
	e := mt.Data
	w := 1.0 / (e[3]*v.X + e[7]*v.Y + e[11]*v.Z + e[15])
	return Vec3{
		(e[0]*v.X + e[4]*v.Y + e[8]*v.Z + e[12]) * w,
		(e[1]*v.X + e[5]*v.Y + e[9]*v.Z + e[13]) * w,
		(e[2]*v.X + e[6]*v.Y + e[10]*v.Z + e[14]) * w,
	}
}

// ------------------------------------------
// Vector 4
// ------------------------------------------

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

/**
 * @brief Builds an RGBA colour from a packed 0xRRGGBB integer and an alpha value.
 */
func NewVec4FromRGB(rgb uint32, alpha float32) Vec4 {
	return Vec4{
		X: float32((rgb>>16)&0xff) / 255.0,
		Y: float32((rgb>>8)&0xff) / 255.0,
		Z: float32(rgb&0xff) / 255.0,
		W: alpha,
	}
}

func (v Vec4) Compare(other Vec4, tolerance float32) bool {
	return math32.Abs(v.X-other.X) <= tolerance &&
		math32.Abs(v.Y-other.Y) <= tolerance &&
		math32.Abs(v.Z-other.Z) <= tolerance &&
		math32.Abs(v.W-other.W) <= tolerance
}

// ------------------------------------------
// Matrix 4
// ------------------------------------------

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 */
func NewMat4Identity() Mat4 {
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0
	out_matrix.Data[5] = 1.0
	out_matrix.Data[10] = 1.0
	out_matrix.Data[15] = 1.0
	return out_matrix
}

/**
 * @brief Returns mt * other. Applying the result to a point equals applying
 * other first and mt second.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	out_matrix := Mat4{}
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			sum := 0.0
			for i := 0; i < 4; i++ {
				sum += mt.Data[i*4+row] * other.Data[col*4+i]
			}
			out_matrix.Data[col*4+row] = sum
		}
	}
	return out_matrix
}

func NewMat4Translation(position Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[12] = position.X
	out_matrix.Data[13] = position.Y
	out_matrix.Data[14] = position.Z
	return out_matrix
}

func NewMat4Scale(scale Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = scale.X
	out_matrix.Data[5] = scale.Y
	out_matrix.Data[10] = scale.Z
	return out_matrix
}

// IsIdentity reports whether mt is exactly the identity matrix.
func (mt Mat4) IsIdentity() bool {
	return mt == NewMat4Identity()
}

// ------------------------------------------
// Extents 3D
// ------------------------------------------

/**
 * @brief Returns an inverted box that any ExpandByPoint call will initialize.
 */
func NewExtents3DEmpty() Extents3D {
	return Extents3D{
		Min: Vec3{K_INFINITY, K_INFINITY, K_INFINITY},
		Max: Vec3{-K_INFINITY, -K_INFINITY, -K_INFINITY},
	}
}

// IsEmpty reports whether the box contains no point.
func (e Extents3D) IsEmpty() bool {
	return e.Max.X < e.Min.X || e.Max.Y < e.Min.Y || e.Max.Z < e.Min.Z
}

func (e Extents3D) ExpandByPoint(p Vec3) Extents3D {
	return Extents3D{Min: e.Min.Min(p), Max: e.Max.Max(p)}
}

// Union returns the smallest box holding both e and other. Empty boxes are ignored.
func (e Extents3D) Union(other Extents3D) Extents3D {
	if other.IsEmpty() {
		return e
	}
	if e.IsEmpty() {
		return other
	}
	return Extents3D{Min: e.Min.Min(other.Min), Max: e.Max.Max(other.Max)}
}

func (e Extents3D) Center() Vec3 {
	if e.IsEmpty() {
		return Vec3{}
	}
	return e.Min.Add(e.Max).MulScalar(0.5)
}

func (e Extents3D) HalfExtents() Vec3 {
	if e.IsEmpty() {
		return Vec3{}
	}
	return e.Max.Sub(e.Min).MulScalar(0.5)
}

func (e Extents3D) ContainsPoint(p Vec3) bool {
	return p.X >= e.Min.X && p.X <= e.Max.X &&
		p.Y >= e.Min.Y && p.Y <= e.Max.Y &&
		p.Z >= e.Min.Z && p.Z <= e.Max.Z
}

/**
 * @brief Computes the axis-aligned box of a flat xyz position slice.
 */
func NewExtents3DFromPositions(positions []float64) Extents3D {
	out := NewExtents3DEmpty()
	for i := 0; i+2 < len(positions); i += 3 {
		out = out.ExpandByPoint(NewVec3FromSlice(positions, i))
	}
	return out
}

/**
 * @brief Computes a bounding sphere centered on the box center of the
 * positions, with the radius reaching the farthest point.
 */
func NewSphereFromPositions(positions []float64, box Extents3D) Sphere {
	if box.IsEmpty() {
		return Sphere{Radius: -1}
	}
	center := box.Center()
	maxSq := 0.0
	for i := 0; i+2 < len(positions); i += 3 {
		maxSq = Max(maxSq, center.Sub(NewVec3FromSlice(positions, i)).LengthSquared())
	}
	return Sphere{Center: center, Radius: m.Sqrt(maxSq)}
}
