package math

import (
	m "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleToHighLowRoundTrip(t *testing.T) {
	values := []float64{
		0, 1, -1, 0.1, -0.1, 1e-10, -1e-10,
		6378137.123456789, -6378137.123456789,
		4512345.678901, -987654.3210987,
		123456789.987654321, 3.14159265358979,
	}
	for _, v := range values {
		high, low := DoubleToHighLow(v)
		assert.Equal(t, float32(v), high, "high of %v", v)

		rebuilt := float64(high) + float64(low)
		tol := 1e-7*m.Abs(v) + 1e-30
		assert.InDelta(t, v, rebuilt, tol, "rebuilt %v", v)
	}
}

func TestDoubleToHighLowSign(t *testing.T) {
	hp, lp := DoubleToHighLow(1234567.89)
	hn, ln := DoubleToHighLow(-1234567.89)
	assert.Equal(t, hp, -hn)
	assert.Equal(t, lp, -ln)
	assert.Less(t, m.Abs(float64(lp)), 0.125)
}

func TestDoubleToHighLowBuffer(t *testing.T) {
	in := []float64{10000000.25, -20000000.5, 0.75}
	low := make([]float32, len(in))
	high := make([]float32, len(in))
	DoubleToHighLowBuffer(in, low, high)
	for i, v := range in {
		h, l := DoubleToHighLow(v)
		assert.Equal(t, h, high[i])
		assert.Equal(t, l, low[i])
	}
}

func TestComputeVertexNormalsSoupIsFlat(t *testing.T) {
	// Two coplanar triangles sharing an edge but not sharing vertices.
	positions := []float64{
		0, 0, 0, 1, 0, 0, 0, 1, 0,
		1, 0, 0, 1, 1, 0, 0, 1, 0,
	}
	normals := ComputeVertexNormals(positions, nil)
	require.Len(t, normals, len(positions))
	for v := 0; v < 6; v++ {
		assert.Equal(t, []float32{0, 0, 1}, normals[v*3:v*3+3], "vertex %d", v)
	}
}

func TestComputeVertexNormalsSoupDoesNotSmooth(t *testing.T) {
	// A folded pair: first triangle faces +Z, second faces +Y.
	positions := []float64{
		0, 0, 0, 1, 0, 0, 0, 1, 0,
		0, 0, 0, 0, 0, 1, 1, 0, 0,
	}
	normals := ComputeVertexNormals(positions, nil)
	for v := 0; v < 3; v++ {
		assert.Equal(t, []float32{0, 0, 1}, normals[v*3:v*3+3])
	}
	for v := 3; v < 6; v++ {
		assert.Equal(t, []float32{0, 1, 0}, normals[v*3:v*3+3])
	}
}

func TestComputeVertexNormalsIndexedAccumulates(t *testing.T) {
	positions := []float64{
		0, 0, 0, // 0 shared
		1, 0, 0, // 1 shared
		0, 1, 0, // 2
		0, 0, 1, // 3
	}
	indices := []uint32{0, 1, 2, 0, 3, 1}
	normals := ComputeVertexNormals(positions, indices)

	s := float32(m.Sqrt(0.5))
	assert.InDeltaSlice(t, []float32{0, s, s}, normals[0:3], 1e-6)
	assert.InDeltaSlice(t, []float32{0, s, s}, normals[3:6], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 0, 1}, normals[6:9], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, normals[9:12], 1e-6)
}

func TestNormalizeNormalsKeepsZero(t *testing.T) {
	n := []float32{0, 0, 0, 3, 0, 4}
	NormalizeNormals(n)
	assert.Equal(t, []float32{0, 0, 0, 0.6, 0, 0.8}, n)
}

func TestTransformPositions(t *testing.T) {
	positions := []float64{1, 2, 3}
	mt := NewMat4Translation(NewVec3(10, 20, 30)).Mul(NewMat4Scale(NewVec3(2, 2, 2)))
	TransformPositions(positions, mt)
	assert.Equal(t, []float64{12, 24, 36}, positions)
}

func TestTransformPerspectiveDivide(t *testing.T) {
	mt := NewMat4Identity()
	mt.Data[15] = 2
	p := NewVec3(2, 4, 6).Transform(mt)
	assert.Equal(t, NewVec3(1, 2, 3), p)
}

func TestExtents(t *testing.T) {
	e := NewExtents3DEmpty()
	assert.True(t, e.IsEmpty())
	assert.Equal(t, Vec3{}, e.Center())

	e = NewExtents3DFromPositions([]float64{-1, 0, 2, 3, 4, 6})
	assert.False(t, e.IsEmpty())
	assert.Equal(t, NewVec3(1, 2, 4), e.Center())
	assert.Equal(t, NewVec3(2, 2, 2), e.HalfExtents())

	u := e.Union(Extents3D{Min: NewVec3(10, 10, 10), Max: NewVec3(11, 11, 11)})
	assert.Equal(t, NewVec3(-1, 0, 2), u.Min)
	assert.Equal(t, NewVec3(11, 11, 11), u.Max)
	assert.Equal(t, e, e.Union(NewExtents3DEmpty()))
	assert.True(t, u.ContainsPoint(NewVec3(5, 5, 5)))
}

func TestSphereFromPositions(t *testing.T) {
	positions := []float64{-1, 0, 0, 1, 0, 0}
	s := NewSphereFromPositions(positions, NewExtents3DFromPositions(positions))
	assert.Equal(t, NewVec3(0, 0, 0), s.Center)
	assert.Equal(t, 1.0, s.Radius)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(7, 0, 5))
	assert.Equal(t, 0.0, Clamp(-1.0, 0, 5))
	assert.Equal(t, uint32(3), Clamp(uint32(3), 0, 5))
}

func TestNewVec4FromRGB(t *testing.T) {
	c := NewVec4FromRGB(0xff8000, 1)
	assert.True(t, c.Compare(NewVec4(1, 128.0/255.0, 0, 1), K_FLOAT_EPSILON))
}
