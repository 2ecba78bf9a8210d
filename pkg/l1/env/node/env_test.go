package node

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/vlc.go/pkg/l1"
)

func TestNewEnv(t *testing.T) {
	conf := &Config{
		Info:       l1.NodeInfo{Ref: l1.NodeRef{Type: "vlc", ID: "bench"}},
		ListenAddr: "127.0.0.1:0",
	}
	env, err := conf.NewEnv()
	require.NoError(t, err)
	require.Equal(t, 1, env.Registrar.Len())
	require.Equal(t, []string{"ws://127.0.0.1:0"}, env.RegistryURLs)

	conf.ListenAddr = ""
	_, err = conf.NewEnv()
	require.Error(t, err)

	conf = &Config{ListenAddr: "127.0.0.1:0"}
	_, err = conf.NewEnv()
	require.Error(t, err)
}
