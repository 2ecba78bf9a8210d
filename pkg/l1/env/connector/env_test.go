package connector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/vlc.go/pkg/l1"
)

func TestNewConnector(t *testing.T) {
	testCases := []struct {
		url string
		ok  bool
	}{
		{"mqtt://localhost:1883/vlc/", true},
		{"mqtts://broker:8883/", true},
		{"ws://node:8080", true},
		{"wss://node:8443", true},
		{"http://node", false},
		{"::", false},
	}
	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			conf := NewConfig()
			conf.RegistryURL = tc.url
			_, err := conf.NewConnector()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestRefFlag(t *testing.T) {
	var ref l1.NodeRef
	f := refFlag{&ref}
	require.NoError(t, f.Set("vlc/bench"))
	require.Equal(t, l1.NodeRef{Type: "vlc", ID: "bench"}, ref)
	require.Equal(t, "vlc/bench", f.String())
	require.Equal(t, l1.ErrInvalidNodeRef, f.Set("vlc"))
	require.Equal(t, "", refFlag{}.String())
}
