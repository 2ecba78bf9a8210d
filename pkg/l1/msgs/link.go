package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/vlc.go/pkg/framework"
)

// LinkDirection selects which side of the link a key applies to.
type LinkDirection int32

// Link directions.
const (
	LinkBoth LinkDirection = 0
	LinkTx   LinkDirection = 1
	LinkRx   LinkDirection = 2
)

// String implements fmt.Stringer.
func (d LinkDirection) String() string {
	switch d {
	case LinkBoth:
		return "TX+RX"
	case LinkTx:
		return "TX"
	case LinkRx:
		return "RX"
	}
	return "unknown"
}

// LinkMapParams is the state of one chaotic map.
type LinkMapParams struct {
	X          float64 `protobuf:"fixed64,1,opt,name=x,proto3" json:"x"`
	Y          float64 `protobuf:"fixed64,2,opt,name=y,proto3" json:"y"`
	Iterations uint32  `protobuf:"varint,3,opt,name=iterations,proto3" json:"iterations,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *LinkMapParams) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkMapParams) Reset() { *m = LinkMapParams{} }

// String implements proto.Message.
func (m *LinkMapParams) String() string { return proto.CompactTextString(m) }

// LinkKeySet configures the keystream of one or both directions.
type LinkKeySet struct {
	Direction LinkDirection  `protobuf:"varint,1,opt,name=direction,proto3" json:"direction,omitempty"`
	Kind      string         `protobuf:"bytes,2,opt,name=kind,proto3" json:"kind,omitempty"`
	MapA      *LinkMapParams `protobuf:"bytes,3,opt,name=map_a,json=mapA,proto3" json:"map_a,omitempty"`
	MapB      *LinkMapParams `protobuf:"bytes,4,opt,name=map_b,json=mapB,proto3" json:"map_b,omitempty"`
}

// NewMessage implements Message.
func (m *LinkKeySet) NewMessage() fx.Message { return &LinkKeySet{} }

// TypeID implements SerializableMessage.
func (m *LinkKeySet) TypeID() uint32 { return LinkKeySetTypeID }

// Serializable implements SerializableMessage.
func (m *LinkKeySet) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkKeySet) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkKeySet) Reset() { *m = LinkKeySet{} }

// String implements proto.Message.
func (m *LinkKeySet) String() string { return proto.CompactTextString(m) }

// LinkKeySetReply carries the adjustments applied to the key config.
type LinkKeySetReply struct {
	Warnings []string `protobuf:"bytes,1,rep,name=warnings,proto3" json:"warnings,omitempty"`
}

// NewMessage implements Message.
func (m *LinkKeySetReply) NewMessage() fx.Message { return &LinkKeySetReply{} }

// TypeID implements SerializableMessage.
func (m *LinkKeySetReply) TypeID() uint32 { return LinkKeySetReplyTypeID }

// Serializable implements SerializableMessage.
func (m *LinkKeySetReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkKeySetReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkKeySetReply) Reset() { *m = LinkKeySetReply{} }

// String implements proto.Message.
func (m *LinkKeySetReply) String() string { return proto.CompactTextString(m) }

// LinkKeyQuery queries the keystream state of both directions.
type LinkKeyQuery struct {
}

// NewMessage implements Message.
func (m *LinkKeyQuery) NewMessage() fx.Message { return &LinkKeyQuery{} }

// TypeID implements SerializableMessage.
func (m *LinkKeyQuery) TypeID() uint32 { return LinkKeyQueryTypeID }

// Serializable implements SerializableMessage.
func (m *LinkKeyQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkKeyQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkKeyQuery) Reset() { *m = LinkKeyQuery{} }

// String implements proto.Message.
func (m *LinkKeyQuery) String() string { return proto.CompactTextString(m) }

// LinkKeyInfo is the keystream state of one direction.
type LinkKeyInfo struct {
	Configured bool           `protobuf:"varint,1,opt,name=configured,proto3" json:"configured"`
	Kind       string         `protobuf:"bytes,2,opt,name=kind,proto3" json:"kind,omitempty"`
	MapA       *LinkMapParams `protobuf:"bytes,3,opt,name=map_a,json=mapA,proto3" json:"map_a,omitempty"`
	MapB       *LinkMapParams `protobuf:"bytes,4,opt,name=map_b,json=mapB,proto3" json:"map_b,omitempty"`
	MswsX      uint64         `protobuf:"fixed64,5,opt,name=msws_x,json=mswsX,proto3" json:"msws_x,omitempty"`
	MswsW      uint64         `protobuf:"fixed64,6,opt,name=msws_w,json=mswsW,proto3" json:"msws_w,omitempty"`
	MswsS      uint64         `protobuf:"fixed64,7,opt,name=msws_s,json=mswsS,proto3" json:"msws_s,omitempty"`
	Words      uint64         `protobuf:"varint,8,opt,name=words,proto3" json:"words,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *LinkKeyInfo) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkKeyInfo) Reset() { *m = LinkKeyInfo{} }

// String implements proto.Message.
func (m *LinkKeyInfo) String() string { return proto.CompactTextString(m) }

// LinkKeyStatus is the reply of LinkKeyQuery.
type LinkKeyStatus struct {
	Tx *LinkKeyInfo `protobuf:"bytes,1,opt,name=tx,proto3" json:"tx,omitempty"`
	Rx *LinkKeyInfo `protobuf:"bytes,2,opt,name=rx,proto3" json:"rx,omitempty"`
}

// NewMessage implements Message.
func (m *LinkKeyStatus) NewMessage() fx.Message { return &LinkKeyStatus{} }

// TypeID implements SerializableMessage.
func (m *LinkKeyStatus) TypeID() uint32 { return LinkKeyStatusTypeID }

// Serializable implements SerializableMessage.
func (m *LinkKeyStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkKeyStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkKeyStatus) Reset() { *m = LinkKeyStatus{} }

// String implements proto.Message.
func (m *LinkKeyStatus) String() string { return proto.CompactTextString(m) }

// LinkTransmit encrypts and sends data.
type LinkTransmit struct {
	Data []byte `protobuf:"bytes,1,opt,name=data,proto3" json:"data,omitempty"`
}

// NewMessage implements Message.
func (m *LinkTransmit) NewMessage() fx.Message { return &LinkTransmit{} }

// TypeID implements SerializableMessage.
func (m *LinkTransmit) TypeID() uint32 { return LinkTransmitTypeID }

// Serializable implements SerializableMessage.
func (m *LinkTransmit) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkTransmit) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkTransmit) Reset() { *m = LinkTransmit{} }

// String implements proto.Message.
func (m *LinkTransmit) String() string { return proto.CompactTextString(m) }

// LinkTransmitReply reports how much data was queued.
type LinkTransmitReply struct {
	Words   uint32 `protobuf:"varint,1,opt,name=words,proto3" json:"words"`
	Bytes   uint32 `protobuf:"varint,2,opt,name=bytes,proto3" json:"bytes"`
	Dropped uint32 `protobuf:"varint,3,opt,name=dropped,proto3" json:"dropped"`
}

// NewMessage implements Message.
func (m *LinkTransmitReply) NewMessage() fx.Message { return &LinkTransmitReply{} }

// TypeID implements SerializableMessage.
func (m *LinkTransmitReply) TypeID() uint32 { return LinkTransmitReplyTypeID }

// Serializable implements SerializableMessage.
func (m *LinkTransmitReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkTransmitReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkTransmitReply) Reset() { *m = LinkTransmitReply{} }

// String implements proto.Message.
func (m *LinkTransmitReply) String() string { return proto.CompactTextString(m) }

// LinkInfoQuery queries the link timing.
type LinkInfoQuery struct {
}

// NewMessage implements Message.
func (m *LinkInfoQuery) NewMessage() fx.Message { return &LinkInfoQuery{} }

// TypeID implements SerializableMessage.
func (m *LinkInfoQuery) TypeID() uint32 { return LinkInfoQueryTypeID }

// Serializable implements SerializableMessage.
func (m *LinkInfoQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkInfoQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkInfoQuery) Reset() { *m = LinkInfoQuery{} }

// String implements proto.Message.
func (m *LinkInfoQuery) String() string { return proto.CompactTextString(m) }

// LinkInfo is the reply of LinkInfoQuery.
type LinkInfo struct {
	BitPeriodNs  uint64  `protobuf:"varint,1,opt,name=bit_period_ns,json=bitPeriodNs,proto3" json:"bit_period_ns"`
	FrequencyHz  float64 `protobuf:"fixed64,2,opt,name=frequency_hz,json=frequencyHz,proto3" json:"frequency_hz"`
	Capacity     uint32  `protobuf:"varint,3,opt,name=capacity,proto3" json:"capacity"`
	Loopback     bool    `protobuf:"varint,4,opt,name=loopback,proto3" json:"loopback,omitempty"`
	TxConfigured bool    `protobuf:"varint,5,opt,name=tx_configured,json=txConfigured,proto3" json:"tx_configured"`
	RxConfigured bool    `protobuf:"varint,6,opt,name=rx_configured,json=rxConfigured,proto3" json:"rx_configured"`
	RxArmed      bool    `protobuf:"varint,7,opt,name=rx_armed,json=rxArmed,proto3" json:"rx_armed"`
}

// NewMessage implements Message.
func (m *LinkInfo) NewMessage() fx.Message { return &LinkInfo{} }

// TypeID implements SerializableMessage.
func (m *LinkInfo) TypeID() uint32 { return LinkInfoTypeID }

// Serializable implements SerializableMessage.
func (m *LinkInfo) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkInfo) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkInfo) Reset() { *m = LinkInfo{} }

// String implements proto.Message.
func (m *LinkInfo) String() string { return proto.CompactTextString(m) }

// LinkStatsQuery queries the link counters.
type LinkStatsQuery struct {
}

// NewMessage implements Message.
func (m *LinkStatsQuery) NewMessage() fx.Message { return &LinkStatsQuery{} }

// TypeID implements SerializableMessage.
func (m *LinkStatsQuery) TypeID() uint32 { return LinkStatsQueryTypeID }

// Serializable implements SerializableMessage.
func (m *LinkStatsQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkStatsQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkStatsQuery) Reset() { *m = LinkStatsQuery{} }

// String implements proto.Message.
func (m *LinkStatsQuery) String() string { return proto.CompactTextString(m) }

// LinkStats is the reply of LinkStatsQuery.
type LinkStats struct {
	TxFrames  uint64 `protobuf:"varint,1,opt,name=tx_frames,json=txFrames,proto3" json:"tx_frames"`
	TxWords   uint64 `protobuf:"varint,2,opt,name=tx_words,json=txWords,proto3" json:"tx_words"`
	TxDropped uint64 `protobuf:"varint,3,opt,name=tx_dropped,json=txDropped,proto3" json:"tx_dropped"`
	TxPending uint32 `protobuf:"varint,4,opt,name=tx_pending,json=txPending,proto3" json:"tx_pending"`
	RxFrames  uint64 `protobuf:"varint,5,opt,name=rx_frames,json=rxFrames,proto3" json:"rx_frames"`
	RxDropped uint64 `protobuf:"varint,6,opt,name=rx_dropped,json=rxDropped,proto3" json:"rx_dropped"`
	RxStalls  uint64 `protobuf:"varint,7,opt,name=rx_stalls,json=rxStalls,proto3" json:"rx_stalls"`
	RxPending uint32 `protobuf:"varint,8,opt,name=rx_pending,json=rxPending,proto3" json:"rx_pending"`
}

// NewMessage implements Message.
func (m *LinkStats) NewMessage() fx.Message { return &LinkStats{} }

// TypeID implements SerializableMessage.
func (m *LinkStats) TypeID() uint32 { return LinkStatsTypeID }

// Serializable implements SerializableMessage.
func (m *LinkStats) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkStats) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkStats) Reset() { *m = LinkStats{} }

// String implements proto.Message.
func (m *LinkStats) String() string { return proto.CompactTextString(m) }

// LinkReceived is the event of a decrypted batch.
type LinkReceived struct {
	BatchId   string `protobuf:"bytes,1,opt,name=batch_id,json=batchId,proto3" json:"batch_id,omitempty"`
	Data      []byte `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
	Hex       string `protobuf:"bytes,3,opt,name=hex,proto3" json:"hex,omitempty"`
	Ascii     string `protobuf:"bytes,4,opt,name=ascii,proto3" json:"ascii,omitempty"`
	Printable bool   `protobuf:"varint,5,opt,name=printable,proto3" json:"printable"`
	Words     uint32 `protobuf:"varint,6,opt,name=words,proto3" json:"words"`
}

// NewMessage implements Message.
func (m *LinkReceived) NewMessage() fx.Message { return &LinkReceived{} }

// TypeID implements SerializableMessage.
func (m *LinkReceived) TypeID() uint32 { return LinkReceivedTypeID }

// Serializable implements SerializableMessage.
func (m *LinkReceived) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkReceived) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkReceived) Reset() { *m = LinkReceived{} }

// String implements proto.Message.
func (m *LinkReceived) String() string { return proto.CompactTextString(m) }

// TypeIDs
const (
	LinkKeySetTypeID        uint32 = GroupLink | 0x0000
	LinkKeySetReplyTypeID   uint32 = LinkKeySetTypeID | TypeIDMaskReply
	LinkKeyQueryTypeID      uint32 = GroupLink | 0x0001
	LinkKeyStatusTypeID     uint32 = LinkKeyQueryTypeID | TypeIDMaskReply
	LinkTransmitTypeID      uint32 = GroupLink | 0x0002
	LinkTransmitReplyTypeID uint32 = LinkTransmitTypeID | TypeIDMaskReply
	LinkInfoQueryTypeID     uint32 = GroupLink | 0x0003
	LinkInfoTypeID          uint32 = LinkInfoQueryTypeID | TypeIDMaskReply
	LinkStatsQueryTypeID    uint32 = GroupLink | 0x0004
	LinkStatsTypeID         uint32 = LinkStatsQueryTypeID | TypeIDMaskReply
	LinkReceivedTypeID      uint32 = GroupLink | TypeIDKindEvent | 0x0000
)

func init() {
	RegisterTypes(
		(*LinkKeySet)(nil),
		(*LinkKeySetReply)(nil),
		(*LinkKeyQuery)(nil),
		(*LinkKeyStatus)(nil),
		(*LinkTransmit)(nil),
		(*LinkTransmitReply)(nil),
		(*LinkInfoQuery)(nil),
		(*LinkInfo)(nil),
		(*LinkStatsQuery)(nil),
		(*LinkStats)(nil),
		(*LinkReceived)(nil),
	)
}
