package math

/**
 * @brief Splits a double into a high part exactly representable as a float32
 * and a low part carrying the remainder.
 *
 * The split is sign-aware: the magnitude is rounded to float32 and the sign is
 * applied afterwards, so high + low reconstructs v in double precision up to the
 * float32 rounding of low.
 */
func DoubleToHighLow(v float64) (high, low float32) {
	if v >= 0.0 {
		h := float32(v)
		return h, float32(v - float64(h))
	}
	h := float32(-v)
	return -h, float32(v + float64(h))
}

/**
 * @brief Applies DoubleToHighLow to every component of input. low and high
 * must be at least as long as input.
 */
func DoubleToHighLowBuffer(input []float64, low, high []float32) {
	for k, v := range input {
		high[k], low[k] = DoubleToHighLow(v)
	}
}

/**
 * @brief Splits every component of v, used for camera-relative eye positions.
 */
func DoubleToHighLowVector(v Vec3) (high, low [3]float32) {
	high[0], low[0] = DoubleToHighLow(v.X)
	high[1], low[1] = DoubleToHighLow(v.Y)
	high[2], low[2] = DoubleToHighLow(v.Z)
	return high, low
}
