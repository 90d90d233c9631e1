// scalar.go - clamping, linear interpolation and flat-index helpers

package dwmmesh

import "github.com/chewxy/math32"

// lerp performs unclamped linear interpolation: a*(1-f) + b*f.
func lerp(a, b, f float32) float32 {
	return a*(1-f) + b*f
}

// clampf limits v to the closed interval [lo, hi]. lo must be <= hi.
func clampf(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}

// clampi limits v to the closed integer interval [lo, hi].
func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// flatIndex computes the linearized junction index inside the pressure
// volume: x-fastest, then y, then z, per spec.md §3/§4.1.
func flatIndex(x, y, z, sizeXJ, sizeYJ int) int {
	return (z*sizeYJ+y)*sizeXJ + x
}
