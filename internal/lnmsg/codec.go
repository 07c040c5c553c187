package lnmsg

import (
	"fmt"

	"github.com/JeremiahR/lightning-mini-peer/internal/wire"
)

// Decode reads the 2-byte type tag and dispatches to the matching
// variant's field-by-field decoder. An unrecognized type is never a
// decode error: it produces an Unknown message carrying the type id and
// the trailing bytes verbatim.
func Decode(b []byte) (Message, []byte, error) {
	typeVal, rest, err := wire.DecodeU16(b)
	if err != nil {
		return nil, nil, fmt.Errorf("lnmsg: reading type tag: %w", err)
	}
	t := Type(typeVal)

	switch t {
	case TypeInit:
		return decodeInit(rest)
	case TypePing:
		return decodePing(rest)
	case TypePong:
		return decodePong(rest)
	case TypeChannelAnnouncement:
		return decodeChannelAnnouncement(rest)
	case TypeNodeAnnouncement:
		return decodeNodeAnnouncement(rest)
	case TypeChannelUpdate:
		return decodeChannelUpdate(rest)
	case TypeQueryChannelRange:
		return decodeQueryChannelRange(rest)
	case TypeReplyChannelRange:
		return decodeReplyChannelRange(rest)
	case TypeGossipTimestampFilter:
		return decodeGossipTimestampFilter(rest)
	default:
		data, rem := wire.DecodeRemainder(rest)
		return &Unknown{TypeID: t, Data: data}, rem, nil
	}
}

func decodeInit(b []byte) (Message, []byte, error) {
	global, b, err := wire.DecodeSizedBytes(b)
	if err != nil {
		return nil, nil, fmt.Errorf("lnmsg: init.global_features: %w", err)
	}
	local, b, err := wire.DecodeSizedBytes(b)
	if err != nil {
		return nil, nil, fmt.Errorf("lnmsg: init.local_features: %w", err)
	}
	tlv, rem := wire.DecodeRemainder(b)
	return &Init{GlobalFeatures: global, LocalFeatures: local, TLV: tlv}, rem, nil
}

func decodePing(b []byte) (Message, []byte, error) {
	n, b, err := wire.DecodeU16(b)
	if err != nil {
		return nil, nil, fmt.Errorf("lnmsg: ping.num_pong_bytes: %w", err)
	}
	ignored, rem, err := wire.DecodeSizedBytes(b)
	if err != nil {
		return nil, nil, fmt.Errorf("lnmsg: ping.ignored: %w", err)
	}
	return &Ping{NumPongBytes: n, Ignored: ignored}, rem, nil
}

func decodePong(b []byte) (Message, []byte, error) {
	ignored, rem, err := wire.DecodeSizedBytes(b)
	if err != nil {
		return nil, nil, fmt.Errorf("lnmsg: pong.ignored: %w", err)
	}
	return &Pong{Ignored: ignored}, rem, nil
}

func decodeChannelAnnouncement(b []byte) (Message, []byte, error) {
	m := &ChannelAnnouncement{}
	var err error

	if m.NodeSignature1, b, err = wire.DecodeBytes64(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_announcement.node_signature_1: %w", err)
	}
	if m.NodeSignature2, b, err = wire.DecodeBytes64(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_announcement.node_signature_2: %w", err)
	}
	if m.BitcoinSignature1, b, err = wire.DecodeBytes64(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_announcement.bitcoin_signature_1: %w", err)
	}
	if m.BitcoinSignature2, b, err = wire.DecodeBytes64(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_announcement.bitcoin_signature_2: %w", err)
	}
	if m.Features, b, err = wire.DecodeSizedBytes(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_announcement.features: %w", err)
	}
	if m.ChainHash, b, err = wire.DecodeBytes32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_announcement.chain_hash: %w", err)
	}
	if m.ShortChannelID, b, err = wire.DecodeShortChannelID(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_announcement.short_channel_id: %w", err)
	}
	if m.NodeID1, b, err = wire.DecodeBytes33(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_announcement.node_id_1: %w", err)
	}
	if m.NodeID2, b, err = wire.DecodeBytes33(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_announcement.node_id_2: %w", err)
	}
	if m.BitcoinKey1, b, err = wire.DecodeBytes33(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_announcement.bitcoin_key_1: %w", err)
	}
	if m.BitcoinKey2, b, err = wire.DecodeBytes33(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_announcement.bitcoin_key_2: %w", err)
	}
	return m, b, nil
}

func decodeNodeAnnouncement(b []byte) (Message, []byte, error) {
	m := &NodeAnnouncement{}
	var err error

	if m.Signature, b, err = wire.DecodeBytes64(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: node_announcement.signature: %w", err)
	}
	if m.Features, b, err = wire.DecodeSizedBytes(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: node_announcement.features: %w", err)
	}
	if m.Timestamp, b, err = wire.DecodeU32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: node_announcement.timestamp: %w", err)
	}
	if m.NodeID, b, err = wire.DecodeBytes33(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: node_announcement.node_id: %w", err)
	}
	if m.RGBColor, b, err = wire.DecodeBytes3(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: node_announcement.rgb_color: %w", err)
	}
	if m.Alias, b, err = wire.DecodeBytes32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: node_announcement.alias: %w", err)
	}
	if m.Addresses, b, err = wire.DecodeNodeAddresses(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: node_announcement.addresses: %w", err)
	}
	return m, b, nil
}

func decodeChannelUpdate(b []byte) (Message, []byte, error) {
	m := &ChannelUpdate{}
	var err error

	if m.Signature, b, err = wire.DecodeBytes64(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_update.signature: %w", err)
	}
	if m.ChainHash, b, err = wire.DecodeBytes32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_update.chain_hash: %w", err)
	}
	if m.ShortChannelID, b, err = wire.DecodeShortChannelID(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_update.short_channel_id: %w", err)
	}
	if m.Timestamp, b, err = wire.DecodeU32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_update.timestamp: %w", err)
	}
	if m.MessageFlags, b, err = wire.DecodeU8(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_update.message_flags: %w", err)
	}
	if m.ChannelFlags, b, err = wire.DecodeU8(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_update.channel_flags: %w", err)
	}
	if m.CLTVExpiryDelta, b, err = wire.DecodeU16(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_update.cltv_expiry_delta: %w", err)
	}
	if m.HTLCMinimumMsat, b, err = wire.DecodeU64(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_update.htlc_minimum_msat: %w", err)
	}
	if m.FeeBaseMsat, b, err = wire.DecodeU32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_update.fee_base_msat: %w", err)
	}
	if m.FeeProportionalMillionths, b, err = wire.DecodeU32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_update.fee_proportional_millionths: %w", err)
	}
	if m.HTLCMaximumMsat, b, err = wire.DecodeU64(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: channel_update.htlc_maximum_msat: %w", err)
	}
	return m, b, nil
}

func decodeQueryChannelRange(b []byte) (Message, []byte, error) {
	m := &QueryChannelRange{}
	var err error

	if m.ChainHash, b, err = wire.DecodeBytes32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: query_channel_range.chain_hash: %w", err)
	}
	if m.FirstBlocknum, b, err = wire.DecodeU32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: query_channel_range.first_blocknum: %w", err)
	}
	if m.NumberOfBlocks, b, err = wire.DecodeU32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: query_channel_range.number_of_blocks: %w", err)
	}
	m.TLVs, b = wire.DecodeRemainder(b)
	return m, b, nil
}

func decodeReplyChannelRange(b []byte) (Message, []byte, error) {
	m := &ReplyChannelRange{}
	var err error

	if m.ChainHash, b, err = wire.DecodeBytes32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: reply_channel_range.chain_hash: %w", err)
	}
	if m.FirstBlocknum, b, err = wire.DecodeU32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: reply_channel_range.first_blocknum: %w", err)
	}
	if m.NumberOfBlocks, b, err = wire.DecodeU32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: reply_channel_range.number_of_blocks: %w", err)
	}
	if m.SyncComplete, b, err = wire.DecodeU8(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: reply_channel_range.sync_complete: %w", err)
	}
	if m.EncodedShortIDs, b, err = wire.DecodeSizedBytes(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: reply_channel_range.encoded_short_ids: %w", err)
	}
	m.TLVs, b = wire.DecodeRemainder(b)
	return m, b, nil
}

func decodeGossipTimestampFilter(b []byte) (Message, []byte, error) {
	m := &GossipTimestampFilter{}
	var err error

	if m.ChainHash, b, err = wire.DecodeBytes32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: gossip_timestamp_filter.chain_hash: %w", err)
	}
	if m.FirstTimestamp, b, err = wire.DecodeU32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: gossip_timestamp_filter.first_timestamp: %w", err)
	}
	if m.TimestampRange, b, err = wire.DecodeU32(b); err != nil {
		return nil, nil, fmt.Errorf("lnmsg: gossip_timestamp_filter.timestamp_range: %w", err)
	}
	return m, b, nil
}
