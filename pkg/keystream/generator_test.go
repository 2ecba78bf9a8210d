package keystream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func duffingConfig() Config {
	return Config{
		Kind: Duffing,
		MapA: ChaoticMap{X: 0.1, Y: 1.1, Iterations: 10000},
		MapB: ChaoticMap{X: 0.5, Y: 0.89, Iterations: 10000},
	}
}

func nextWords(t *testing.T, g *Generator, n int) []uint32 {
	words := make([]uint32, n)
	for i := range words {
		w, err := g.NextWord()
		require.NoError(t, err)
		words[i] = w
	}
	return words
}

func TestGeneratorKnownSequences(t *testing.T) {
	testCases := []struct {
		name   string
		config Config
		expect []uint32
	}{
		{
			name:   "duffing",
			config: duffingConfig(),
			expect: []uint32{0xBF989136, 0x96539581, 0x7AFDF796, 0x62A6FF05},
		},
		{
			name: "logistic",
			config: Config{
				Kind: Logistic,
				MapA: ChaoticMap{X: 0.3, Y: 0.7, Iterations: 500},
				MapB: ChaoticMap{X: 0.6, Y: 0.2, Iterations: 500},
			},
			expect: []uint32{0xC883D7F9, 0x8BEB75CD, 0x8853D1A5, 0x9E1854CC},
		},
		{
			name: "2d logistic",
			config: Config{
				Kind: TwoDLogistic,
				MapA: ChaoticMap{X: 0.2, Y: 0.5, Iterations: 1000},
				MapB: ChaoticMap{X: 0.3, Y: 0.3, Iterations: 1000},
			},
			expect: []uint32{0x41BF4FD9, 0xB4C230FB, 0x1344C9C5, 0xFFFD2756},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewGenerator(tc.config)
			require.NoError(t, err)
			require.Equal(t, tc.expect, nextWords(t, g, len(tc.expect)))
			require.Equal(t, uint64(len(tc.expect)), g.State().Words)
		})
	}
}

func TestTwoDLogisticUsesPreviousState(t *testing.T) {
	m := ChaoticMap{X: 0.2, Y: 0.4}
	m.Iterate(TwoDLogistic)
	require.Equal(t, 0.41888, m.X)
	require.Equal(t, 0.45696000000000003, m.Y)
}

func TestTwoDLogisticDiverged(t *testing.T) {
	_, err := NewGenerator(Config{
		Kind: TwoDLogistic,
		MapA: ChaoticMap{X: 0.2, Y: 0.4, Iterations: 1000},
		MapB: ChaoticMap{X: 0.3, Y: 0.3, Iterations: 1000},
	})
	require.Equal(t, ErrDiverged, err)
}

func TestGeneratorDeterminism(t *testing.T) {
	g1, err := NewGenerator(duffingConfig())
	require.NoError(t, err)
	g2, err := NewGenerator(duffingConfig())
	require.NoError(t, err)
	require.Equal(t, nextWords(t, g1, 64), nextWords(t, g2, 64))
}

func TestGeneratorRoundTrip(t *testing.T) {
	tx, err := NewGenerator(duffingConfig())
	require.NoError(t, err)
	rx, err := NewGenerator(duffingConfig())
	require.NoError(t, err)

	plain := uint32('H') | uint32('I')<<8
	k0, err := tx.NextWord()
	require.NoError(t, err)
	cipher := plain ^ k0
	require.Equal(t, uint32(0xBF98D87E), cipher)

	k0, err = rx.NextWord()
	require.NoError(t, err)
	require.Equal(t, plain, cipher^k0)
}

func TestGeneratorLogisticAxesMixed(t *testing.T) {
	config := Config{
		Kind: Logistic,
		MapA: ChaoticMap{X: 0.3, Y: 0.3, Iterations: 500},
		MapB: ChaoticMap{X: 0.6, Y: 0.2, Iterations: 500},
	}
	g1, err := NewGenerator(config)
	require.NoError(t, err)
	config.MapA.X = 0.4
	g2, err := NewGenerator(config)
	require.NoError(t, err)

	words1, words2 := nextWords(t, g1, 8), nextWords(t, g2, 8)
	for i := range words1 {
		require.NotEqual(t, words1[i], words2[i], "word %d", i)
	}
}

func TestGeneratorNotSeeded(t *testing.T) {
	var g Generator
	require.False(t, g.IsSeeded())
	_, err := g.NextWord()
	require.Equal(t, ErrNotSeeded, err)
}

func TestGeneratorDiverged(t *testing.T) {
	_, err := NewGenerator(Config{
		Kind: Duffing,
		MapA: ChaoticMap{X: -1.2, Y: 1.2, Iterations: 1000},
		MapB: ChaoticMap{X: 0.5, Y: 0.89, Iterations: 1000},
	})
	require.Equal(t, ErrDiverged, err)
}

func TestGeneratorSeedsMixerFromMapB(t *testing.T) {
	g, err := NewGenerator(duffingConfig())
	require.NoError(t, err)
	state := g.State()
	require.True(t, state.Seeded)
	require.NotZero(t, state.Mixer.S)
	require.Equal(t, state.Mixer.S, state.Mixer.X)
	require.Zero(t, state.Mixer.W)
}

func TestSetupClampsIterations(t *testing.T) {
	config := duffingConfig()
	config.MapA.Iterations = 10
	config.MapB.Iterations = 10
	clamped, warnings, err := Setup(config)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	require.Equal(t, MinIterations, clamped.State().Config.MapA.Iterations)

	config.MapA.Iterations = 200
	config.MapB.Iterations = 200
	exact, warnings, err := Setup(config)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, nextWords(t, &exact, 4), nextWords(t, &clamped, 4))
}
