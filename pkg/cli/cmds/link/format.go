package link

import (
	"bytes"
	"fmt"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1/msgs"
)

// FormatKeyInfo formats the keystream state of one direction.
func FormatKeyInfo(mode string, info *msgs.LinkKeyInfo) string {
	if info == nil || !info.Configured {
		return fmt.Sprintf("%s encryption variables not set", mode)
	}
	var w bytes.Buffer
	fmt.Fprintf(&w, "Current %s encryption variables:\n", mode)
	fmt.Fprintf(&w, "Current Map: %s\n", info.Kind)
	for n, m := range []*msgs.LinkMapParams{info.MapA, info.MapB} {
		if m != nil {
			fmt.Fprintf(&w, "Map %d: x=%.6f, y=%.6f, iterations=%d\n", n+1, m.X, m.Y, m.Iterations)
		}
	}
	fmt.Fprintf(&w, "MSWS32: x=%d, w=%d, s=%d", info.MswsX, info.MswsW, info.MswsS)
	return w.String()
}

// FormatReceived formats a LinkReceived event.
func FormatReceived(msg fx.Message) (string, bool) {
	ev, ok := msg.(*msgs.LinkReceived)
	if !ok {
		return "", false
	}
	text := "Received (HEX): " + ev.Hex
	if ev.Printable {
		text += "\nReceived (ASCII): " + ev.Ascii
	} else {
		text += "\nReceived data is not printable ASCII"
	}
	return text, true
}

// FormatStats formats link counters.
func FormatStats(s *msgs.LinkStats) string {
	return fmt.Sprintf("TX: %d frames, %d words, %d dropped, %d pending\nRX: %d frames, %d dropped, %d stalls, %d pending",
		s.TxFrames, s.TxWords, s.TxDropped, s.TxPending,
		s.RxFrames, s.RxDropped, s.RxStalls, s.RxPending)
}
