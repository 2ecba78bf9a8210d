package websocket

import (
	"golang.org/x/net/websocket"

	"github.com/robotalks/vlc.go/pkg/l1/comm"
)

// ReadWriter sends one packet per binary websocket frame.
type ReadWriter websocket.Conn

// New wraps conn, limiting incoming frames to comm.MaxPacketSize.
func New(conn *websocket.Conn) *ReadWriter {
	conn.MaxPayloadBytes = comm.MaxPacketSize
	conn.PayloadType = websocket.BinaryFrame
	return (*ReadWriter)(conn)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	if err == websocket.ErrFrameTooLarge {
		err = comm.ErrPacketTooLarge
	}
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}
