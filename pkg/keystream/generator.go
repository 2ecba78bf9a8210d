package keystream

import "math"

// Generator produces the keystream of one link direction.
// The zero value is not seeded and refuses to produce words.
type Generator struct {
	config Config
	mapA   ChaoticMap
	mapB   ChaoticMap
	mixer  MSWS
	words  uint64
	seeded bool
}

// Snapshot is a copy of the generator state for diagnostics.
type Snapshot struct {
	Config Config
	MapA   ChaoticMap
	MapB   ChaoticMap
	Mixer  MSWS
	Words  uint64
	Seeded bool
}

// NewGenerator validates and normalizes the config, warms up both maps
// and seeds the mixer. Normalization warnings are dropped; use Setup to
// collect them.
func NewGenerator(config Config) (*Generator, error) {
	g, _, err := Setup(config)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Setup normalizes the config and seeds a fresh generator from it.
func Setup(config Config) (Generator, []string, error) {
	if err := config.Validate(); err != nil {
		return Generator{}, nil, err
	}
	config, warnings := config.Normalize()
	var g Generator
	if err := g.setup(config); err != nil {
		return Generator{}, warnings, err
	}
	return g, warnings, nil
}

func (g *Generator) setup(config Config) error {
	mapA, mapB := config.MapA, config.MapB
	mapA.WarmUp(config.Kind)
	mapB.WarmUp(config.Kind)
	if !mapA.IsFinite() || !mapB.IsFinite() {
		return ErrDiverged
	}
	seed := math.Float64bits(mapB.Y)
	*g = Generator{
		config: config,
		mapA:   mapA,
		mapB:   mapB,
		mixer:  MSWS{X: seed, S: seed},
		seeded: true,
	}
	return nil
}

// IsSeeded indicates setup has completed.
func (g *Generator) IsSeeded() bool {
	return g.seeded
}

// NextWord advances map A once and returns the next mixed keystream word.
func (g *Generator) NextWord() (uint32, error) {
	if !g.seeded {
		return 0, ErrNotSeeded
	}
	g.mapA.Iterate(g.config.Kind)
	if !g.mapA.IsFinite() {
		return 0, ErrDiverged
	}
	g.mixer.W = math.Float64bits(g.mapA.Y)
	if g.config.Kind == Logistic {
		g.mixer.W ^= math.Float64bits(g.mapA.X)
	}
	g.words++
	return g.mixer.Next(), nil
}

// State returns a copy of the current state.
func (g *Generator) State() Snapshot {
	return Snapshot{
		Config: g.config,
		MapA:   g.mapA,
		MapB:   g.mapB,
		Mixer:  g.mixer,
		Words:  g.words,
		Seeded: g.seeded,
	}
}
