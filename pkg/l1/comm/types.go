package comm

import "errors"

// MaxPacketSize bounds a single encoded message. The largest link message
// is a transmit of a full buffer, far below this.
const MaxPacketSize = 64 * 1024

var (
	// ErrPacketTooLarge is returned when a packet exceeds MaxPacketSize.
	ErrPacketTooLarge = errors.New("packet too large")
	// ErrWrongKind is returned when sending an event as a command reply or
	// the other way around.
	ErrWrongKind = errors.New("wrong message kind")
)

// PacketReader reads one whole packet at a time.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes one whole packet at a time.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter is the transport under a Pipe.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
