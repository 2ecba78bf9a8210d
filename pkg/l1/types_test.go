package l1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNodeRef(t *testing.T) {
	ref, err := ParseNodeRef("vlc/n1")
	require.NoError(t, err)
	require.Equal(t, NodeRef{Type: "vlc", ID: "n1"}, ref)
	require.Equal(t, "vlc/n1", ref.String())

	for _, s := range []string{"", "vlc", "vlc/", "/n1", "vlc/n1/meta"} {
		_, err := ParseNodeRef(s)
		require.Equal(t, ErrInvalidNodeRef, err, s)
	}
}
