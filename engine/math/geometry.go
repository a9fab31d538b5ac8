package math

import "github.com/chewxy/math32"

/**
 * @brief Computes per-vertex normals for a triangle list.
 *
 * Indexed geometry accumulates the (unnormalized) face normal of every triangle
 * into each of its three vertices, so shared vertices get an area-weighted sum.
 * Non-indexed geometry (triangle soup) assigns each triangle's face normal to
 * its own three vertices with no smoothing across faces.
 * The result is unit-normalized in a final pass.
 *
 * @param positions Flat xyz positions.
 * @param indices Triangle indices, or nil for triangle soup.
 * @return Flat xyz normals, one per vertex.
 */
func ComputeVertexNormals(positions []float64, indices []uint32) []float32 {
	acc := make([]float64, len(positions))

	faceNormal := func(a, b, c int) Vec3 {
		pA := NewVec3FromSlice(positions, a*3)
		pB := NewVec3FromSlice(positions, b*3)
		pC := NewVec3FromSlice(positions, c*3)
		cb := pC.Sub(pB)
		ab := pA.Sub(pB)
		return cb.Cross(ab)
	}

	if indices != nil {
		for i := 0; i+2 < len(indices); i += 3 {
			vA, vB, vC := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			n := faceNormal(vA, vB, vC)
			for _, v := range [3]int{vA, vB, vC} {
				acc[v*3+0] += n.X
				acc[v*3+1] += n.Y
				acc[v*3+2] += n.Z
			}
		}
	} else {
		vertexCount := len(positions) / 3
		for i := 0; i+2 < vertexCount; i += 3 {
			n := faceNormal(i, i+1, i+2)
			for v := i; v < i+3; v++ {
				acc[v*3+0] = n.X
				acc[v*3+1] = n.Y
				acc[v*3+2] = n.Z
			}
		}
	}

	out := make([]float32, len(acc))
	for i, a := range acc {
		out[i] = float32(a)
	}
	NormalizeNormals(out)
	return out
}

/**
 * @brief Normalizes every xyz triple of the buffer in place. Zero-length
 * normals are left untouched.
 */
func NormalizeNormals(normals []float32) {
	for i := 0; i+2 < len(normals); i += 3 {
		x, y, z := normals[i], normals[i+1], normals[i+2]
		length := math32.Sqrt(x*x + y*y + z*z)
		if length == 0 {
			continue
		}
		normals[i] = x / length
		normals[i+1] = y / length
		normals[i+2] = z / length
	}
}

/**
 * @brief Bakes a transform into a flat xyz position slice in place.
 */
func TransformPositions(positions []float64, mt Mat4) {
	for k := 0; k+2 < len(positions); k += 3 {
		p := NewVec3FromSlice(positions, k).Transform(mt)
		positions[k] = p.X
		positions[k+1] = p.Y
		positions[k+2] = p.Z
	}
}
