// Package stream frames packets over a byte stream, e.g. a TCP connection
// or net.Pipe in tests.
package stream

import (
	"encoding/binary"
	"io"

	"github.com/robotalks/vlc.go/pkg/l1/comm"
)

const headerSize = 4

// ReadWriter prefixes every packet with its length, 4 bytes little-endian.
type ReadWriter struct {
	io.ReadWriter
}

// New wraps s.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{s}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(p.ReadWriter, hdr[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(hdr[:])
	if size > comm.MaxPacketSize {
		return nil, comm.ErrPacketTooLarge
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(p.ReadWriter, pkt); err != nil {
		return nil, err
	}
	return pkt, nil
}

// WritePacket implements PacketWriter. Header and payload go out in a
// single Write.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if len(pkt) > comm.MaxPacketSize {
		return comm.ErrPacketTooLarge
	}
	buf := make([]byte, headerSize+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	copy(buf[headerSize:], pkt)
	_, err := p.Write(buf)
	return err
}

// Close closes the stream if it can be closed.
func (p *ReadWriter) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
