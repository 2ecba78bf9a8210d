package keystream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMapKind(t *testing.T) {
	for in, expect := range map[string]MapKind{
		"duffing":     Duffing,
		"D":           Duffing,
		"logistic":    Logistic,
		"l":           Logistic,
		"mccm":        TwoDLogistic,
		"2D-Logistic": TwoDLogistic,
	} {
		kind, err := ParseMapKind(in)
		require.NoError(t, err, in)
		require.Equal(t, expect, kind, in)
	}
	_, err := ParseMapKind("henon")
	require.Equal(t, ErrUnknownMapKind, err)
	require.Equal(t, "Unknown", MapKind(7).String())
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name   string
		config Config
		field  string
	}{
		{"duffing in range", Config{Kind: Duffing, MapA: ChaoticMap{X: -1.2, Y: 1.2}, MapB: ChaoticMap{X: 0, Y: 0.5}}, ""},
		{"duffing x out of range", Config{Kind: Duffing, MapA: ChaoticMap{X: -1.3, Y: 0}}, "Map 1 x"},
		{"logistic negative", Config{Kind: Logistic, MapA: ChaoticMap{X: 0.5, Y: 0.5}, MapB: ChaoticMap{X: 0.5, Y: -0.1}}, "Map 2 y"},
		{"2d logistic above one", Config{Kind: TwoDLogistic, MapA: ChaoticMap{X: 0.5, Y: 1.01}}, "Map 1 y"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.field == "" {
				require.NoError(t, err)
				return
			}
			require.IsType(t, &DomainError{}, err)
			require.Equal(t, tc.field, err.(*DomainError).Field)
		})
	}
	require.Equal(t, ErrUnknownMapKind, Config{Kind: MapKind(-1)}.Validate())
}

func TestConfigNormalize(t *testing.T) {
	config := Config{
		Kind: Logistic,
		MapA: ChaoticMap{X: 0.25, Y: 0.25, Iterations: 5000000},
		MapB: ChaoticMap{X: 0.5, Y: 0.6, Iterations: 1000},
	}
	normalized, warnings := config.Normalize()
	require.Len(t, warnings, 2)
	require.Equal(t, MaxIterations, normalized.MapA.Iterations)
	require.Equal(t, uint32(1000), normalized.MapB.Iterations)
	require.Equal(t, uint32(5000000), config.MapA.Iterations)
}

func TestConfigureFailureKeepsState(t *testing.T) {
	ks := NewKeyState("rx")
	require.False(t, ks.IsConfigured())
	select {
	case <-ks.Ready():
		t.Fatal("ready before configure")
	default:
	}

	_, err := ks.Configure(Config{Kind: Duffing, MapA: ChaoticMap{X: 2}})
	require.Error(t, err)
	require.False(t, ks.IsConfigured())
	_, err = ks.NextWord()
	require.Equal(t, ErrNotSeeded, err)

	_, err = ks.Configure(duffingConfig())
	require.NoError(t, err)
	<-ks.Ready()
	require.True(t, ks.IsConfigured())
	w, err := ks.NextWord()
	require.NoError(t, err)
	require.Equal(t, uint32(0xBF989136), w)

	_, err = ks.Configure(Config{Kind: Logistic, MapA: ChaoticMap{X: 2}})
	require.Error(t, err)
	w, err = ks.NextWord()
	require.NoError(t, err)
	require.Equal(t, uint32(0x96539581), w)

	// reconfiguring restarts the keystream
	_, err = ks.Configure(duffingConfig())
	require.NoError(t, err)
	w, err = ks.NextWord()
	require.NoError(t, err)
	require.Equal(t, uint32(0xBF989136), w)
	require.Equal(t, uint64(1), ks.Snapshot().Words)
}
