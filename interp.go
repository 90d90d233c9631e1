// interp.go - trilinear splat/sample between metric coordinates and the
// discrete junction lattice, per spec.md §4.4.

package dwmmesh

import "github.com/chewxy/math32"

// interpParams holds the precomputed flat indices and fractional weights
// for one metric position, reused across an entire processing block since
// spec.md §4.6 requires sources/mic positions to stay fixed within a block.
type interpParams struct {
	// indices[xi][yi][zi] is the flat index of that corner, xi/yi/zi in {0,1}.
	indices [2][2][2]int
	fx, fy, fz float32
}

// computeInterp converts a metric position (plus an optional metric
// offset, e.g. a microphone's offset from the array centre) into the 8
// corner indices and 3 fractional weights described in spec.md §4.4.
// Coordinates outside the mesh are silently clamped.
func computeInterp(cfg Config, posM [3]float32, offsetM [3]float32) interpParams {
	spacing := cfg.JunctionSpacingM()

	cjx := clampf(metricToJunction(posM[0]+offsetM[0], spacing), 0, float32(cfg.SizeXJ-1))
	cjy := clampf(metricToJunction(posM[1]+offsetM[1], spacing), 0, float32(cfg.SizeYJ-1))
	cjz := clampf(metricToJunction(posM[2]+offsetM[2], spacing), 0, float32(cfg.SizeZJ-1))

	x0, x1 := int(math32.Floor(cjx)), int(math32.Ceil(cjx))
	y0, y1 := int(math32.Floor(cjy)), int(math32.Ceil(cjy))
	z0, z1 := int(math32.Floor(cjz)), int(math32.Ceil(cjz))

	var p interpParams
	p.indices[0][0][0] = flatIndex(x0, y0, z0, cfg.SizeXJ, cfg.SizeYJ)
	p.indices[1][0][0] = flatIndex(x1, y0, z0, cfg.SizeXJ, cfg.SizeYJ)
	p.indices[0][1][0] = flatIndex(x0, y1, z0, cfg.SizeXJ, cfg.SizeYJ)
	p.indices[1][1][0] = flatIndex(x1, y1, z0, cfg.SizeXJ, cfg.SizeYJ)
	p.indices[0][0][1] = flatIndex(x0, y0, z1, cfg.SizeXJ, cfg.SizeYJ)
	p.indices[1][0][1] = flatIndex(x1, y0, z1, cfg.SizeXJ, cfg.SizeYJ)
	p.indices[0][1][1] = flatIndex(x0, y1, z1, cfg.SizeXJ, cfg.SizeYJ)
	p.indices[1][1][1] = flatIndex(x1, y1, z1, cfg.SizeXJ, cfg.SizeYJ)

	p.fx = cjx - math32.Floor(cjx)
	p.fy = cjy - math32.Floor(cjy)
	p.fz = cjz - math32.Floor(cjz)
	return p
}

// splat writes value into vol at p's 8 corners via lerp (not additive
// accumulation), per spec.md §4.4/§9 and original_source/dwm_ma.c's
// write_value_interp_params: two overlapping splats within a block
// therefore interact non-commutatively, which is the original's behaviour
// and is preserved here.
func splat(vol Volume, value float32, p interpParams) {
	fx, fy, fz := p.fx, p.fy, p.fz
	weight := func(xi, yi, zi int) float32 {
		wx := fx
		if xi == 0 {
			wx = 1 - fx
		}
		wy := fy
		if yi == 0 {
			wy = 1 - fy
		}
		wz := fz
		if zi == 0 {
			wz = 1 - fz
		}
		return wx * wy * wz
	}
	for xi := 0; xi < 2; xi++ {
		for yi := 0; yi < 2; yi++ {
			for zi := 0; zi < 2; zi++ {
				idx := p.indices[xi][yi][zi]
				vol[idx] = lerp(vol[idx], value, weight(xi, yi, zi))
			}
		}
	}
}

// sample reads a trilinearly-interpolated value out of vol at p: three
// 1-D lerps along x, then y, then z, per spec.md §4.4.
func sample(vol Volume, p interpParams) float32 {
	i := p.indices
	x00 := lerp(vol[i[0][0][0]], vol[i[1][0][0]], p.fx)
	x10 := lerp(vol[i[0][1][0]], vol[i[1][1][0]], p.fx)
	x01 := lerp(vol[i[0][0][1]], vol[i[1][0][1]], p.fx)
	x11 := lerp(vol[i[0][1][1]], vol[i[1][1][1]], p.fx)
	y0 := lerp(x00, x10, p.fy)
	y1 := lerp(x01, x11, p.fy)
	return lerp(y0, y1, p.fz)
}
