// layout.go - microphone-array layout catalogue
//
// Unit convention: every offset in the catalogue is expressed in integer
// junction units, scaled by junctionSpacing * micScale at sample time (see
// Engine.Process). This resolves spec.md §4.3/§9's "pick one convention":
// the mandated spherical layouts (6/8/12/24/30/48 channels) are exact
// integer lattice points of a given square radius, so junction units are
// the natural representation; metric-unit offsets would need to bake in
// a particular junctionSpacing and stop being reusable across Configs.

package dwmmesh

import (
	"fmt"

	"github.com/chewxy/math32"
)

// offset is a microphone position relative to the array centre, in
// integer junction units.
type offset struct {
	X, Y, Z int
}

// Layout is the immutable record described in spec.md §3: a radius (in
// junction units; scaled to metres by the caller's Config and mic_scale),
// a channel count, and the per-channel offsets. Layouts are package-level
// static data, built once in init() and never mutated.
type Layout struct {
	Tag      string
	RadiusJ  float32
	Channels int
	Offsets  []offset
}

// maxLayoutChannels is the channel count of the largest catalogue entry
// (the 48-point spherical layout), and the floor spec.md §3 imposes on
// max_output_count for a Config that wants to use the full catalogue.
const maxLayoutChannels = 48

// TagMono and friends name the catalogue's fixed tags.
const (
	TagMono        = "mono"
	TagStereo      = "stereo"
	TagSix1J       = "six_1j"
	TagSix3J       = "six_3j"
	TagEight       = "eight"
	TagTwelve      = "twelve"
	TagTwentyFour  = "twenty_four"
	TagThirty      = "thirty"
	TagFortyEight  = "forty_eight"
)

var catalogue map[string]*Layout
var catalogueOrder []string

func init() {
	catalogue = make(map[string]*Layout)
	register(&Layout{
		Tag:      TagMono,
		RadiusJ:  0,
		Channels: 1,
		Offsets:  []offset{{0, 0, 0}},
	})
	register(&Layout{
		Tag:      TagStereo,
		RadiusJ:  1,
		Channels: 2,
		Offsets:  []offset{{-1, 0, 0}, {1, 0, 0}},
	})
	register(sixPointLayout(TagSix1J, 1))
	register(sixPointLayout(TagSix3J, 3))
	register(sphereLayout(TagEight, 3, 8))
	register(sphereLayout(TagTwelve, 2, 12))
	register(sphereLayout(TagTwentyFour, 5, 24))
	register(sphereLayout(TagThirty, 9, 30))
	register(sphereLayout(TagFortyEight, 14, 48))
}

func register(l *Layout) {
	catalogue[l.Tag] = l
	catalogueOrder = append(catalogueOrder, l.Tag)
}

// sixPointLayout builds the 6-point layout at the given junction distance,
// sorted lexicographically as [Z-, Y-, X-, X+, Y+, Z+], per
// original_source/ma_config.h's documented remark on MA_CONFIG_6_POINTS_1J
// and MA_CONFIG_6_POINTS_3J.
func sixPointLayout(tag string, d int) *Layout {
	return &Layout{
		Tag:      tag,
		RadiusJ:  float32(d),
		Channels: 6,
		Offsets: []offset{
			{0, 0, -d}, {0, -d, 0}, {-d, 0, 0},
			{d, 0, 0}, {0, d, 0}, {0, 0, d},
		},
	}
}

// sphereLayout enumerates every integer lattice point (x,y,z) whose
// squared distance from the origin equals squareRadius, per spec.md §4.3's
// "offsets lie on a sphere of integer-coordinate radius". want is the
// expected channel count; a mismatch indicates a wrong squareRadius choice
// and is a programming error caught once at package init.
func sphereLayout(tag string, squareRadius, want int) *Layout {
	bound := int(math32.Sqrt(float32(squareRadius))) + 1
	var offsets []offset
	for x := -bound; x <= bound; x++ {
		for y := -bound; y <= bound; y++ {
			for z := -bound; z <= bound; z++ {
				if x*x+y*y+z*z == squareRadius {
					offsets = append(offsets, offset{x, y, z})
				}
			}
		}
	}
	if len(offsets) != want {
		panic(fmt.Sprintf("dwmmesh: layout %q expected %d points at square radius %d, got %d",
			tag, want, squareRadius, len(offsets)))
	}
	return &Layout{
		Tag:      tag,
		RadiusJ:  math32.Sqrt(float32(squareRadius)),
		Channels: want,
		Offsets:  offsets,
	}
}

// LayoutFor returns the immutable layout record for tag. Any unrecognised
// tag resolves to mono, a defensive default rather than an error, per
// spec.md §4.3 and original_source/ma_config.c's switch-default behaviour.
func LayoutFor(tag string) *Layout {
	if l, ok := catalogue[tag]; ok {
		return l
	}
	return catalogue[TagMono]
}
