package bloom

import (
	"fmt"
	"sort"
)

// A ProbeGenerator maps a key to the k bit positions it occupies in a filter
// of m bits.
//
// Probes must be deterministic: the same (k, m, key) yields the same sequence
// on any machine, so that positions set by Add in one process are found by
// Test in another. Implementations are stateless and safe for concurrent use.
type ProbeGenerator interface {
	// Name identifies the generator on the wire.
	Name() string
	// Probes returns k positions in [0, m). k and m must be positive.
	Probes(k, m uint, key []byte) []uint
}

var probeGenerators = map[string]func() ProbeGenerator{
	MurmurName:   func() ProbeGenerator { return MurmurProbeGenerator{} },
	MersenneName: func() ProbeGenerator { return MersenneProbeGenerator{} },
	RandomName:   func() ProbeGenerator { return RandomProbeGenerator{} },
}

// LookupProbeGenerator returns the generator registered under name.
func LookupProbeGenerator(name string) (ProbeGenerator, error) {
	newGen, ok := probeGenerators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGenerator, name)
	}
	return newGen(), nil
}

// ProbeGeneratorNames lists the registered generator names in sorted order.
func ProbeGeneratorNames() []string {
	names := make([]string, 0, len(probeGenerators))
	for name := range probeGenerators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
