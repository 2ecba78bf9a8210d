package vlc

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/vlc.go/pkg/l0/line"
	"github.com/robotalks/vlc.go/pkg/l0/line/gpio"
	"github.com/robotalks/vlc.go/pkg/l0/line/sim"
	"github.com/robotalks/vlc.go/pkg/l0/link"
	"github.com/robotalks/vlc.go/pkg/l1"
)

// LoopbackBitPeriod is the bit period used in loopback mode unless one is
// given explicitly. Go timers cannot hold the default 20µs.
const LoopbackBitPeriod = time.Millisecond

// Config defines the configurations for a link node.
type Config struct {
	TxPin        int
	RxPin        int
	Loopback     bool
	BitPeriod    time.Duration
	PollInterval time.Duration
}

var defaultConfig = Config{
	TxPin:        17,
	RxPin:        27,
	BitPeriod:    link.DefaultBitPeriod,
	PollInterval: 10 * time.Millisecond,
}

func init() {
	if val, err := strconv.Atoi(os.Getenv("VLC_TX_PIN")); err == nil {
		defaultConfig.TxPin = val
	}
	if val, err := strconv.Atoi(os.Getenv("VLC_RX_PIN")); err == nil {
		defaultConfig.RxPin = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.TxPin, "tx-pin", defaultConfig.TxPin, "GPIO pin driving the LED.")
	flag.IntVar(&defaultConfig.RxPin, "rx-pin", defaultConfig.RxPin, "GPIO pin reading the photodiode.")
	flag.BoolVar(&defaultConfig.Loopback, "loopback", defaultConfig.Loopback, "Connect TX to RX in memory instead of GPIO.")
	flag.DurationVar(&defaultConfig.BitPeriod, "bit-period", defaultConfig.BitPeriod, "Bit period of both directions.")
	flag.DurationVar(&defaultConfig.PollInterval, "poll-interval", defaultConfig.PollInterval, "Interval of the transmit/receive task.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Timing derives the link timing from the bit period.
func (c *Config) Timing() (link.Timing, error) {
	timing := link.NewTiming(c.BitPeriod)
	return timing, timing.Validate()
}

// NewNode opens the lines and creates a Node using the config.
func (c *Config) NewNode(reg l1.Registrar) (*Node, error) {
	timing, err := c.Timing()
	if err != nil {
		return nil, err
	}
	lines := Lines{Clock: line.RealClock{}}
	if c.Loopback {
		wire := sim.NewWire()
		lines.Out, lines.In = wire, wire
	} else {
		out, err := gpio.OpenOutput(c.TxPin)
		if err != nil {
			return nil, fmt.Errorf("open TX pin %d error: %v", c.TxPin, err)
		}
		in, err := gpio.OpenInput(c.RxPin)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("open RX pin %d error: %v", c.RxPin, err)
		}
		lines.Out, lines.In = out, in
		lines.Closers = []io.Closer{out, in}
	}
	node := NewNode(reg, lines, timing)
	node.Loopback = c.Loopback
	node.PollInterval = c.PollInterval
	return node, nil
}
