// mesh.go - the DWM engine: lifecycle, mesh iteration, and block processing
//
// Ported from original_source/dwm_ma.c's dwm_ma_create/_destroy/_init and
// process_iteration/dwm_ma_process_m, generalised from fixed compile-time
// macros to a runtime Config per spec.md §3/§4.5-§4.7.

package dwmmesh

import (
	"fmt"
	"log"
)

// Volume is a dense pressure volume: one float32 per junction, flat,
// x-fastest/y/z-slowest, per spec.md §3.
type Volume []float32

// Engine owns the two pressure volumes, the six boundary-state planes and
// the six boundary coefficient pairs of one DWM simulation, per spec.md
// §3's "Engine instance". An Engine is not safe for concurrent use; the
// caller owns it exclusively (spec.md §5).
type Engine struct {
	cfg Config
	log *log.Logger

	p, pAux Volume

	// boundary planes, one per face, in [z-, y-, x-, x+, y+, z+] order.
	planes [faceCount][]boundaryState
	coeffs [faceCount][2]float32
}

// New allocates a new Engine for cfg. The returned Engine's state is
// undefined until Init is called, per spec.md §4.7. New returns an error
// if cfg is invalid; it does not panic on caller-supplied data.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dwmmesh.New: %w", err)
	}

	n := cfg.junctionCount()
	e := &Engine{
		cfg: cfg,
		log: log.New(log.Writer(), "dwmmesh: ", log.LstdFlags),
		p:   make(Volume, n),
		pAux: make(Volume, n),
	}
	e.planes[FaceXNeg] = make([]boundaryState, cfg.SizeYJ*cfg.SizeZJ)
	e.planes[FaceXPos] = make([]boundaryState, cfg.SizeYJ*cfg.SizeZJ)
	e.planes[FaceYNeg] = make([]boundaryState, cfg.SizeXJ*cfg.SizeZJ)
	e.planes[FaceYPos] = make([]boundaryState, cfg.SizeXJ*cfg.SizeZJ)
	e.planes[FaceZNeg] = make([]boundaryState, cfg.SizeXJ*cfg.SizeYJ)
	e.planes[FaceZPos] = make([]boundaryState, cfg.SizeXJ*cfg.SizeYJ)
	e.log.Printf("create: %dx%dx%d junctions, buffer_size=%d", cfg.SizeXJ, cfg.SizeYJ, cfg.SizeZJ, cfg.BufferSize)
	return e, nil
}

// Config returns a copy of the Engine's compile-time parameters.
func (e *Engine) Config() Config { return e.cfg }

// Init zeros the pressure volumes and all six boundary planes, and
// installs the boundary coefficients, per spec.md §4.7. params is indexed
// [z-, y-, x-, x+, y+, z+]; normalized selects which parameterisation
// params carries, per spec.md §4.2/§6. The coefficients are not checked
// for stability; the caller is responsible for providing stable ones.
func (e *Engine) Init(params [6][2]float32, normalized bool) {
	for i := range e.p {
		e.p[i] = 0
	}
	for i := range e.pAux {
		e.pAux[i] = 0
	}
	for f := Face(0); f < faceCount; f++ {
		plane := e.planes[f]
		for i := range plane {
			plane[i] = boundaryState{}
		}
	}

	if normalized {
		for f := Face(0); f < faceCount; f++ {
			r1, r2 := normalizedToRaw(params[f][0], params[f][1])
			e.coeffs[f] = [2]float32{r1, r2}
		}
	} else {
		e.coeffs = params
	}
	e.log.Printf("init: boundary coefficients installed (normalized=%v)", normalized)
}

// Close releases the Engine's storage. After Close, the Engine must not be
// used; Go has no explicit free, so Close instead nils out every slice,
// leaving the instance in a zero, unusable state. Close is safe to call
// more than once, per spec.md §4.7's destroy contract.
func (e *Engine) Close() {
	e.log.Printf("destroy: releasing %d junctions", len(e.p))
	e.p = nil
	e.pAux = nil
	for f := range e.planes {
		e.planes[f] = nil
	}
}

// xPlaneIndex/yPlaneIndex/zPlaneIndex map a boundary junction's in-plane
// coordinates to its flat index within that face's plane, matching the
// visitation order process_iteration's macro-generated counters produce
// in original_source/dwm_ma.c: x faces vary y fastest then z, y faces vary
// x fastest then z, z faces vary x fastest then y.
func xPlaneIndex(y, z, sizeYJ int) int { return z*sizeYJ + y }
func yPlaneIndex(x, z, sizeXJ int) int { return z*sizeXJ + x }
func zPlaneIndex(x, y, sizeXJ int) int { return y*sizeXJ + x }

// iterate advances the simulation by one mesh step: every junction is
// updated exactly once, reading from p and writing into pAux via
//
//	pAux[j] = (Nzn+Nyn+Nxn+Nxp+Nyp+Nzp)/3 - pAux[j]
//
// per spec.md §4.5. Boundary neighbours are produced by processBoundary,
// which advances that wall cell's filter state by one step; interior
// neighbours read directly from p. The caller swaps p/pAux after iterate
// returns.
func (e *Engine) iterate() {
	sx, sy, sz := e.cfg.SizeXJ, e.cfg.SizeYJ, e.cfg.SizeZJ
	p, pAux := e.p, e.pAux

	for z := 0; z < sz; z++ {
		for y := 0; y < sy; y++ {
			for x := 0; x < sx; x++ {
				idx := flatIndex(x, y, z, sx, sy)
				centre := p[idx]

				var nxn, nxp, nyn, nyp, nzn, nzp float32
				if x == 0 {
					pi := xPlaneIndex(y, z, sy)
					nxn = processBoundary(&e.planes[FaceXNeg][pi], centre, e.coeffs[FaceXNeg])
				} else {
					nxn = p[idx-1]
				}
				if x == sx-1 {
					pi := xPlaneIndex(y, z, sy)
					nxp = processBoundary(&e.planes[FaceXPos][pi], centre, e.coeffs[FaceXPos])
				} else {
					nxp = p[idx+1]
				}
				if y == 0 {
					pi := yPlaneIndex(x, z, sx)
					nyn = processBoundary(&e.planes[FaceYNeg][pi], centre, e.coeffs[FaceYNeg])
				} else {
					nyn = p[idx-sx]
				}
				if y == sy-1 {
					pi := yPlaneIndex(x, z, sx)
					nyp = processBoundary(&e.planes[FaceYPos][pi], centre, e.coeffs[FaceYPos])
				} else {
					nyp = p[idx+sx]
				}
				if z == 0 {
					pi := zPlaneIndex(x, y, sx)
					nzn = processBoundary(&e.planes[FaceZNeg][pi], centre, e.coeffs[FaceZNeg])
				} else {
					nzn = p[idx-sx*sy]
				}
				if z == sz-1 {
					pi := zPlaneIndex(x, y, sx)
					nzp = processBoundary(&e.planes[FaceZPos][pi], centre, e.coeffs[FaceZPos])
				} else {
					nzp = p[idx+sx*sy]
				}

				pAux[idx] = (nxn+nxp+nyn+nyp+nzn+nzp)/3 - pAux[idx]
			}
		}
	}
}

// splatGroup collects the source indices that share one metric position
// within a block, so their sample values can be summed into a single
// splat call rather than splatted one after another (see Process).
type splatGroup struct {
	params  interpParams
	members []int
}

// Process runs one block of cfg.BufferSize samples, per spec.md §4.6.
//
// in and inPos together describe up to cfg.MaxInputCount point sources:
// in[i] is a buffer of cfg.BufferSize samples for source i, inPos[i] its
// fixed metric position for the whole block. layoutTag selects the
// microphone array (unrecognised tags resolve to mono); micScale scales
// the array's junction-unit offsets and radius. centreM is the array's
// requested centre position; out[c] receives channel c's samples and
// must have layout.Channels entries of length cfg.BufferSize each.
//
// Illegal inputs are clamped or ignored, never rejected with an error,
// per spec.md §4.6/§7.
func (e *Engine) Process(in [][]float32, inPos [][3]float32, layoutTag string, micScale float32, centreM [3]float32, out [][]float32) {
	cfg := e.cfg
	n := clampi(len(in), 0, cfg.MaxInputCount)
	if len(in) > cfg.MaxInputCount {
		e.log.Printf("in_count %d exceeds max_input_count %d, ignoring the rest", len(in), cfg.MaxInputCount)
	}
	if len(inPos) < n {
		n = len(inPos)
	}

	layout := LayoutFor(layoutTag)
	if layout.Tag != layoutTag {
		e.log.Printf("unrecognised layout tag %q, defaulting to mono", layoutTag)
	}

	// Sources that land on the exact same metric position within this
	// block are grouped and splatted as one physically-superposed write
	// (their sample values summed, then a single lerp splat of the sum).
	// This keeps the original's lerp splat (spec.md §4.4/§9) for distinct
	// positions whose corners happen to overlap, while making coincident
	// opposite-sign sources cancel exactly, per spec.md §8 scenario S5 —
	// see DESIGN.md's resolution of this point.
	groups := make(map[[3]float32]*splatGroup)
	var groupOrder []*splatGroup
	for i := 0; i < n; i++ {
		g, ok := groups[inPos[i]]
		if !ok {
			g = &splatGroup{params: computeInterp(cfg, inPos[i], [3]float32{0, 0, 0})}
			groups[inPos[i]] = g
			groupOrder = append(groupOrder, g)
		}
		g.members = append(g.members, i)
	}

	spacing := cfg.JunctionSpacingM()
	radiusM := layout.RadiusJ * spacing * micScale
	restrictedCentre := [3]float32{
		clampf(centreM[0], radiusM, cfg.SizeXM()-radiusM),
		clampf(centreM[1], radiusM, cfg.SizeYM()-radiusM),
		clampf(centreM[2], radiusM, cfg.SizeZM()-radiusM),
	}

	channels := layout.Channels
	if channels > len(out) {
		channels = len(out)
	}
	outParams := make([]interpParams, channels)
	for c := 0; c < channels; c++ {
		off := layout.Offsets[c]
		offM := [3]float32{
			float32(off.X) * spacing * micScale,
			float32(off.Y) * spacing * micScale,
			float32(off.Z) * spacing * micScale,
		}
		outParams[c] = computeInterp(cfg, restrictedCentre, offM)
	}

	for s := 0; s < cfg.BufferSize; s++ {
		for _, g := range groupOrder {
			var sum float32
			for _, m := range g.members {
				if s < len(in[m]) {
					sum += in[m][s]
				}
			}
			splat(e.p, sum, g.params)
		}

		e.iterate()

		for c := 0; c < channels; c++ {
			if s < len(out[c]) {
				out[c][s] = sample(e.pAux, outParams[c])
			}
		}

		e.p, e.pAux = e.pAux, e.p
	}
}
