package link

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/robotalks/vlc.go/pkg/l0/ring"
	"github.com/robotalks/vlc.go/pkg/l1/msgs"
)

// MaxDataLength is the longest text transmit accepts, one less than the
// bytes the transmit buffer holds.
const MaxDataLength = ring.Capacity*4 - 1

// ParseDirection extracts the -TX or -RX switch from args and returns the
// remaining arguments. Without a switch both directions are selected.
// Anything else, such as -T or -1.2, is left as an argument.
func ParseDirection(args []string) (msgs.LinkDirection, []string, error) {
	dir, rest := msgs.LinkBoth, make([]string, 0, len(args))
	for _, arg := range args {
		var d msgs.LinkDirection
		switch strings.ToUpper(arg) {
		case "-TX":
			d = msgs.LinkTx
		case "-RX":
			d = msgs.LinkRx
		default:
			rest = append(rest, arg)
			continue
		}
		if dir != msgs.LinkBoth && dir != d {
			return dir, nil, fmt.Errorf("specify either -TX or -RX, but not both")
		}
		dir = d
	}
	return dir, rest, nil
}

// ParseKeySet parses "[-TX|-RX] <map> <x1> <y1> <iterations1> <x2> <y2> <iterations2>".
func ParseKeySet(args []string) (*msgs.LinkKeySet, error) {
	dir, args, err := ParseDirection(args)
	if err != nil {
		return nil, err
	}
	if len(args) != 7 {
		return nil, fmt.Errorf("expect <map> <x1> <y1> <iterations1> <x2> <y2> <iterations2>")
	}
	msg := &msgs.LinkKeySet{Direction: dir, Kind: args[0]}
	if msg.MapA, err = parseMap(args[1:4], 1); err != nil {
		return nil, err
	}
	if msg.MapB, err = parseMap(args[4:7], 2); err != nil {
		return nil, err
	}
	return msg, nil
}

func parseMap(args []string, index int) (*msgs.LinkMapParams, error) {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid Map %d x: %v", index, err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid Map %d y: %v", index, err)
	}
	n, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid Map %d iterations: %v", index, err)
	}
	// out of range counts are clamped by the node
	switch {
	case n < 0:
		n = 0
	case n > math.MaxUint32:
		n = math.MaxUint32
	}
	return &msgs.LinkMapParams{X: x, Y: y, Iterations: uint32(n)}, nil
}

// JoinData joins args with spaces and truncates to MaxDataLength.
// It returns true if the text was truncated.
func JoinData(args []string) ([]byte, bool) {
	data := []byte(strings.Join(args, " "))
	if len(data) > MaxDataLength {
		return data[:MaxDataLength], true
	}
	return data, false
}
