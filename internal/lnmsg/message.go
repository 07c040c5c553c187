// Package lnmsg implements the BOLT #1/#7 peer-protocol message codec: a
// tagged union of message variants dispatched by a 2-byte type field, each
// composed from a fixed sequence of calls into the wire package.
package lnmsg

import (
	"github.com/JeremiahR/lightning-mini-peer/internal/wire"
)

// Type is the 2-byte big-endian message type tag.
type Type uint16

const (
	TypeInit                   Type = 16
	TypePing                   Type = 18
	TypePong                   Type = 19
	TypeChannelAnnouncement    Type = 256
	TypeNodeAnnouncement       Type = 257
	TypeChannelUpdate          Type = 258
	TypeQueryChannelRange      Type = 263
	TypeReplyChannelRange      Type = 264
	TypeGossipTimestampFilter  Type = 265
)

// Message is any decodable peer-protocol message. Every in-scope variant,
// plus Unknown for anything outside the core's type set, implements it.
type Message interface {
	MsgType() Type
	Encode() []byte
}

// Init is the first message each side must send after the handshake
// completes.
type Init struct {
	GlobalFeatures []byte
	LocalFeatures  []byte
	TLV            []byte
}

func (m *Init) MsgType() Type { return TypeInit }

func (m *Init) Encode() []byte {
	out := wire.EncodeU16(uint16(TypeInit))
	out = append(out, wire.EncodeSizedBytes(m.GlobalFeatures)...)
	out = append(out, wire.EncodeSizedBytes(m.LocalFeatures)...)
	out = append(out, wire.EncodeRemainder(m.TLV)...)
	return out
}

// Ping requests a Pong carrying num_pong_bytes of zero padding.
type Ping struct {
	NumPongBytes uint16
	Ignored      []byte
}

func (m *Ping) MsgType() Type { return TypePing }

func (m *Ping) Encode() []byte {
	out := wire.EncodeU16(uint16(TypePing))
	out = append(out, wire.EncodeU16(m.NumPongBytes)...)
	out = append(out, wire.EncodeSizedBytes(m.Ignored)...)
	return out
}

// Pong answers a Ping.
type Pong struct {
	Ignored []byte
}

func (m *Pong) MsgType() Type { return TypePong }

func (m *Pong) Encode() []byte {
	out := wire.EncodeU16(uint16(TypePong))
	out = append(out, wire.EncodeSizedBytes(m.Ignored)...)
	return out
}

// ChannelAnnouncement announces the existence of a channel between two
// nodes. Signature verification is intentionally out of scope; the field
// values are carried through unvalidated.
type ChannelAnnouncement struct {
	NodeSignature1    [64]byte
	NodeSignature2    [64]byte
	BitcoinSignature1 [64]byte
	BitcoinSignature2 [64]byte
	Features          []byte
	ChainHash         [32]byte
	ShortChannelID    wire.ShortChannelID
	NodeID1           [33]byte
	NodeID2           [33]byte
	BitcoinKey1       [33]byte
	BitcoinKey2       [33]byte
}

func (m *ChannelAnnouncement) MsgType() Type { return TypeChannelAnnouncement }

func (m *ChannelAnnouncement) Encode() []byte {
	out := wire.EncodeU16(uint16(TypeChannelAnnouncement))
	out = append(out, wire.EncodeBytes64(m.NodeSignature1)...)
	out = append(out, wire.EncodeBytes64(m.NodeSignature2)...)
	out = append(out, wire.EncodeBytes64(m.BitcoinSignature1)...)
	out = append(out, wire.EncodeBytes64(m.BitcoinSignature2)...)
	out = append(out, wire.EncodeSizedBytes(m.Features)...)
	out = append(out, wire.EncodeBytes32(m.ChainHash)...)
	out = append(out, m.ShortChannelID.Encode()...)
	out = append(out, wire.EncodeBytes33(m.NodeID1)...)
	out = append(out, wire.EncodeBytes33(m.NodeID2)...)
	out = append(out, wire.EncodeBytes33(m.BitcoinKey1)...)
	out = append(out, wire.EncodeBytes33(m.BitcoinKey2)...)
	return out
}

// NodeAnnouncement advertises a node's identity, capabilities and
// reachable addresses.
type NodeAnnouncement struct {
	Signature [64]byte
	Features  []byte
	Timestamp uint32
	NodeID    [33]byte
	RGBColor  [3]byte
	Alias     [32]byte
	Addresses []wire.NodeAddress
}

func (m *NodeAnnouncement) MsgType() Type { return TypeNodeAnnouncement }

func (m *NodeAnnouncement) Encode() []byte {
	out := wire.EncodeU16(uint16(TypeNodeAnnouncement))
	out = append(out, wire.EncodeBytes64(m.Signature)...)
	out = append(out, wire.EncodeSizedBytes(m.Features)...)
	out = append(out, wire.EncodeU32(m.Timestamp)...)
	out = append(out, wire.EncodeBytes33(m.NodeID)...)
	out = append(out, wire.EncodeBytes3(m.RGBColor)...)
	out = append(out, wire.EncodeBytes32(m.Alias)...)
	out = append(out, wire.EncodeNodeAddresses(m.Addresses)...)
	return out
}

// ChannelUpdate advertises a node's forwarding policy for one direction of
// a channel.
type ChannelUpdate struct {
	Signature                [64]byte
	ChainHash                [32]byte
	ShortChannelID            wire.ShortChannelID
	Timestamp                 uint32
	MessageFlags               uint8
	ChannelFlags               uint8
	CLTVExpiryDelta            uint16
	HTLCMinimumMsat            uint64
	FeeBaseMsat                uint32
	FeeProportionalMillionths  uint32
	HTLCMaximumMsat            uint64
}

func (m *ChannelUpdate) MsgType() Type { return TypeChannelUpdate }

func (m *ChannelUpdate) Encode() []byte {
	out := wire.EncodeU16(uint16(TypeChannelUpdate))
	out = append(out, wire.EncodeBytes64(m.Signature)...)
	out = append(out, wire.EncodeBytes32(m.ChainHash)...)
	out = append(out, m.ShortChannelID.Encode()...)
	out = append(out, wire.EncodeU32(m.Timestamp)...)
	out = append(out, wire.EncodeU8(m.MessageFlags)...)
	out = append(out, wire.EncodeU8(m.ChannelFlags)...)
	out = append(out, wire.EncodeU16(m.CLTVExpiryDelta)...)
	out = append(out, wire.EncodeU64(m.HTLCMinimumMsat)...)
	out = append(out, wire.EncodeU32(m.FeeBaseMsat)...)
	out = append(out, wire.EncodeU32(m.FeeProportionalMillionths)...)
	out = append(out, wire.EncodeU64(m.HTLCMaximumMsat)...)
	return out
}

// QueryChannelRange requests channel announcements confirmed within a
// block range.
type QueryChannelRange struct {
	ChainHash      [32]byte
	FirstBlocknum  uint32
	NumberOfBlocks uint32
	TLVs           []byte
}

func (m *QueryChannelRange) MsgType() Type { return TypeQueryChannelRange }

func (m *QueryChannelRange) Encode() []byte {
	out := wire.EncodeU16(uint16(TypeQueryChannelRange))
	out = append(out, wire.EncodeBytes32(m.ChainHash)...)
	out = append(out, wire.EncodeU32(m.FirstBlocknum)...)
	out = append(out, wire.EncodeU32(m.NumberOfBlocks)...)
	out = append(out, wire.EncodeRemainder(m.TLVs)...)
	return out
}

// ReplyChannelRange answers a QueryChannelRange with the encoded set of
// short channel ids known within the requested range.
type ReplyChannelRange struct {
	ChainHash        [32]byte
	FirstBlocknum    uint32
	NumberOfBlocks   uint32
	SyncComplete     uint8
	EncodedShortIDs  []byte
	TLVs             []byte
}

func (m *ReplyChannelRange) MsgType() Type { return TypeReplyChannelRange }

func (m *ReplyChannelRange) Encode() []byte {
	out := wire.EncodeU16(uint16(TypeReplyChannelRange))
	out = append(out, wire.EncodeBytes32(m.ChainHash)...)
	out = append(out, wire.EncodeU32(m.FirstBlocknum)...)
	out = append(out, wire.EncodeU32(m.NumberOfBlocks)...)
	out = append(out, wire.EncodeU8(m.SyncComplete)...)
	out = append(out, wire.EncodeSizedBytes(m.EncodedShortIDs)...)
	out = append(out, wire.EncodeRemainder(m.TLVs)...)
	return out
}

// GossipTimestampFilter restricts a peer's gossip stream to announcements
// whose timestamp falls in [first_timestamp, first_timestamp+timestamp_range).
type GossipTimestampFilter struct {
	ChainHash      [32]byte
	FirstTimestamp uint32
	TimestampRange uint32
}

func (m *GossipTimestampFilter) MsgType() Type { return TypeGossipTimestampFilter }

func (m *GossipTimestampFilter) Encode() []byte {
	out := wire.EncodeU16(uint16(TypeGossipTimestampFilter))
	out = append(out, wire.EncodeBytes32(m.ChainHash)...)
	out = append(out, wire.EncodeU32(m.FirstTimestamp)...)
	out = append(out, wire.EncodeU32(m.TimestampRange)...)
	return out
}

// Unknown carries any message type outside the core's decoded set
// verbatim, so the caller can still forward or log it.
type Unknown struct {
	TypeID Type
	Data   []byte
}

func (m *Unknown) MsgType() Type { return m.TypeID }

func (m *Unknown) Encode() []byte {
	out := wire.EncodeU16(uint16(m.TypeID))
	out = append(out, wire.EncodeRemainder(m.Data)...)
	return out
}
