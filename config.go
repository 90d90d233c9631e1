// config.go - compile-time mesh parameters and their derived metric sizes

package dwmmesh

import (
	"fmt"
)

// sqrt3 is the Courant stability factor for the rectilinear DWM scheme:
// junction spacing is sqrt(3) * propagationSpeed / sampleRate.
const sqrt3 = 1.7320508075688772

// Config is the compile-time parameter record described in spec.md §3.
// It is validated once, in New or DefaultConfig's callers via Validate,
// and never mutated by the engine afterward.
type Config struct {
	SampleRate int
	BufferSize int
	SizeXJ     int
	SizeYJ     int
	SizeZJ     int
	MaxInputCount  int
	MaxOutputCount int
	// PropagationSpeed is the speed of sound in metres/second.
	PropagationSpeed float32
}

// DefaultConfig returns the defaults recognised by spec.md §6, except
// MaxOutputCount, which is maxLayoutChannels (48) so that the default
// Config passes Validate and can drive every catalogue layout.
func DefaultConfig() Config {
	return Config{
		SampleRate:        16000,
		BufferSize:        128,
		SizeXJ:            32,
		SizeYJ:            32,
		SizeZJ:            32,
		PropagationSpeed:  343.0,
		MaxInputCount:     16,
		MaxOutputCount:    maxLayoutChannels,
	}
}

// Validate reports the first configuration error found, per spec.md §7's
// "invalid compile-time configuration" taxonomy. A Go build cannot refuse
// to compile on a bad runtime value the way the original's static_assert
// does, so this is checked once at construction instead.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("dwmmesh: sample rate must be positive, got %d", c.SampleRate)
	case c.BufferSize <= 0:
		return fmt.Errorf("dwmmesh: buffer size must be positive, got %d", c.BufferSize)
	case c.SizeXJ < 3:
		return fmt.Errorf("dwmmesh: size_x_j must be >= 3, got %d", c.SizeXJ)
	case c.SizeYJ < 3:
		return fmt.Errorf("dwmmesh: size_y_j must be >= 3, got %d", c.SizeYJ)
	case c.SizeZJ < 3:
		return fmt.Errorf("dwmmesh: size_z_j must be >= 3, got %d", c.SizeZJ)
	case c.PropagationSpeed <= 0:
		return fmt.Errorf("dwmmesh: propagation speed must be positive, got %v", c.PropagationSpeed)
	case c.MaxInputCount <= 0:
		return fmt.Errorf("dwmmesh: max input count must be positive, got %d", c.MaxInputCount)
	case c.MaxOutputCount < maxLayoutChannels:
		return fmt.Errorf("dwmmesh: max output count must be >= %d, got %d", maxLayoutChannels, c.MaxOutputCount)
	}
	return nil
}

// JunctionSpacingM is the metric distance between adjacent junctions,
// fixed by the Courant stability condition.
func (c Config) JunctionSpacingM() float32 {
	return float32(sqrt3) * c.PropagationSpeed / float32(c.SampleRate)
}

// SizeXM is the metric extent of the mesh along X.
func (c Config) SizeXM() float32 { return float32(c.SizeXJ) * c.JunctionSpacingM() }

// SizeYM is the metric extent of the mesh along Y.
func (c Config) SizeYM() float32 { return float32(c.SizeYJ) * c.JunctionSpacingM() }

// SizeZM is the metric extent of the mesh along Z.
func (c Config) SizeZM() float32 { return float32(c.SizeZJ) * c.JunctionSpacingM() }

// junctionCount is the total number of junctions in the pressure volume.
func (c Config) junctionCount() int { return c.SizeXJ * c.SizeYJ * c.SizeZJ }

// metricToJunction converts a metric coordinate to a fractional junction
// coordinate along one axis: p / spacing - 0.5, matching
// original_source/dwm_ma.c's _DWM_MA_METRIC_2_JUNCTION usage.
func metricToJunction(posM, spacing float32) float32 {
	return posM/spacing - 0.5
}
