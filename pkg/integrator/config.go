package integrator

import (
	"fmt"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// RouletteMode selects the Russian roulette termination test
type RouletteMode int

const (
	// RouletteThroughput terminates when a uniform draw exceeds the survival
	// probability
	RouletteThroughput RouletteMode = iota
	// RouletteDepthScaled divides the draw by depth+1 before comparing, which
	// keeps shallow paths alive more often than deep ones
	RouletteDepthScaled
	// RouletteOff never terminates paths early
	RouletteOff
)

func (m RouletteMode) String() string {
	switch m {
	case RouletteThroughput:
		return "throughput"
	case RouletteDepthScaled:
		return "depth"
	case RouletteOff:
		return "off"
	default:
		return fmt.Sprintf("RouletteMode(%d)", int(m))
	}
}

// ParseRouletteMode converts a CLI name into a RouletteMode
func ParseRouletteMode(name string) (RouletteMode, error) {
	for _, m := range []RouletteMode{RouletteThroughput, RouletteDepthScaled, RouletteOff} {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("integrator: unknown roulette mode %q", name)
}

// Config holds the path tracer parameters
type Config struct {
	MaxDepth   int     // Paths deeper than this contribute nothing
	GISamples  int     // Secondary rays per diffuse bounce
	AOSamples  int     // Occlusion rays per hit (0 disables ambient occlusion)
	AODistance float64 // Occluders further than this are ignored
	AOStrength float64 // Darkening of a fully occluded point, 0 to 1
	Roulette   RouletteMode
	MinDelta   float64 // Smallest accepted hit distance, guards against self-intersection
}

// DefaultConfig returns the settings used by the CLI when no flags are given
func DefaultConfig() Config {
	return Config{
		MaxDepth:   8,
		GISamples:  1,
		AOSamples:  0,
		AODistance: 1,
		AOStrength: 0.5,
		Roulette:   RouletteThroughput,
		MinDelta:   core.Epsilon,
	}
}

// Settings returns the part of the config visible to materials
func (c Config) Settings() core.TraceSettings {
	return core.TraceSettings{
		GISamples:  c.GISamples,
		AOSamples:  c.AOSamples,
		AODistance: c.AODistance,
		AOStrength: c.AOStrength,
	}
}
