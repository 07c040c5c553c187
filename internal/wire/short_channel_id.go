package wire

import "fmt"

// ShortChannelID identifies a channel's funding output by its location in
// the chain: the block it confirmed in, its transaction index within that
// block, and the output index within that transaction.
type ShortChannelID struct {
	BlockHeight uint32 // 24 bits on the wire
	TxIndex     uint32 // 24 bits on the wire
	OutputIndex uint16
}

// DecodeShortChannelID reads the 3-byte block height, 3-byte tx index and
// 2-byte output index (8 bytes total).
func DecodeShortChannelID(b []byte) (ShortChannelID, []byte, error) {
	var scid ShortChannelID
	if len(b) < 8 {
		return scid, nil, tooFew(8, len(b))
	}
	scid.BlockHeight = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	scid.TxIndex = uint32(b[3])<<16 | uint32(b[4])<<8 | uint32(b[5])
	scid.OutputIndex = uint16(b[6])<<8 | uint16(b[7])
	return scid, b[8:], nil
}

// Encode serializes the short channel ID back to its 8-byte wire form.
func (s ShortChannelID) Encode() []byte {
	out := make([]byte, 8)
	out[0] = byte(s.BlockHeight >> 16)
	out[1] = byte(s.BlockHeight >> 8)
	out[2] = byte(s.BlockHeight)
	out[3] = byte(s.TxIndex >> 16)
	out[4] = byte(s.TxIndex >> 8)
	out[5] = byte(s.TxIndex)
	out[6] = byte(s.OutputIndex >> 8)
	out[7] = byte(s.OutputIndex)
	return out
}

// Uint64 packs the short channel ID into the single 64-bit integer form
// used as a map key.
func (s ShortChannelID) Uint64() uint64 {
	return uint64(s.BlockHeight)<<40 | uint64(s.TxIndex)<<16 | uint64(s.OutputIndex)
}

// String renders the conventional "block x tx x output" form.
func (s ShortChannelID) String() string {
	return fmt.Sprintf("%dx%dx%d", s.BlockHeight, s.TxIndex, s.OutputIndex)
}
