package peer

import (
	"log/slog"
	"testing"

	"github.com/JeremiahR/lightning-mini-peer/internal/lnmsg"
	"github.com/JeremiahR/lightning-mini-peer/internal/wire"
)

func newTestPeer() *Peer {
	return New(nil, []byte{0x01}, false, slog.Default())
}

func nodeIDOf(b byte) [33]byte {
	var id [33]byte
	id[0] = 0x02
	id[32] = b
	return id
}

func TestDispatchPingRepliesWithPong(t *testing.T) {
	p := newTestPeer()
	conn := &fakeConnection{remote: nodeIDOf(1)}

	p.dispatch(&lnmsg.Ping{NumPongBytes: 4}, conn.remote, conn)

	if len(conn.outbox) != 1 {
		t.Fatalf("outbox = %d messages, want 1", len(conn.outbox))
	}
	pong, ok := conn.outbox[0].(*lnmsg.Pong)
	if !ok {
		t.Fatalf("outbox[0] = %T, want *lnmsg.Pong", conn.outbox[0])
	}
	if len(pong.Ignored) != 4 {
		t.Errorf("pong.Ignored len = %d, want 4", len(pong.Ignored))
	}
}

func TestDispatchPongClearsPendingPing(t *testing.T) {
	p := newTestPeer()
	conn := &fakeConnection{remote: nodeIDOf(1), pendingPing: true}

	p.dispatch(&lnmsg.Pong{}, conn.remote, conn)

	if conn.pendingPing {
		t.Error("pendingPing still set after Pong dispatch")
	}
}

func TestDispatchChannelAnnouncementInsertedOnce(t *testing.T) {
	p := newTestPeer()
	conn := &fakeConnection{remote: nodeIDOf(1)}
	ann := &lnmsg.ChannelAnnouncement{ShortChannelID: wire.ShortChannelID{BlockHeight: 1, TxIndex: 2, OutputIndex: 0}}

	p.dispatch(ann, conn.remote, conn)
	if len(p.KnownChannels()) != 1 {
		t.Fatalf("KnownChannels = %d, want 1", len(p.KnownChannels()))
	}

	second := &lnmsg.ChannelAnnouncement{ShortChannelID: ann.ShortChannelID}
	p.dispatch(second, conn.remote, conn)
	chans := p.KnownChannels()
	if len(chans) != 1 {
		t.Fatalf("KnownChannels after duplicate = %d, want 1", len(chans))
	}
	if chans[0] != ann {
		t.Error("duplicate channel_announcement overwrote the first entry, want original retained")
	}
}

func TestDispatchNodeAnnouncementInsertedOnceAndNoAutoConnectByDefault(t *testing.T) {
	p := newTestPeer() // connectToNewNodes = false
	conn := &fakeConnection{remote: nodeIDOf(1)}
	nodeID := nodeIDOf(9)
	ann := &lnmsg.NodeAnnouncement{
		NodeID: nodeID,
		Addresses: []wire.NodeAddress{
			wire.IPv4Address{IP: [4]byte{10, 0, 0, 1}, Port: 9735},
		},
	}

	p.dispatch(ann, conn.remote, conn)
	if len(p.KnownNodes()) != 1 {
		t.Fatalf("KnownNodes = %d, want 1", len(p.KnownNodes()))
	}
	if p.IsConnected(nodeID) {
		t.Error("IsConnected = true, want false: connectToNewNodes is disabled")
	}

	p.dispatch(&lnmsg.NodeAnnouncement{NodeID: nodeID}, conn.remote, conn)
	if len(p.KnownNodes()) != 1 {
		t.Fatalf("KnownNodes after duplicate = %d, want 1", len(p.KnownNodes()))
	}
}

func TestDispatchGossipTimestampFilterMirroredWithZeroedFirstTimestamp(t *testing.T) {
	p := newTestPeer()
	conn := &fakeConnection{remote: nodeIDOf(1)}
	in := &lnmsg.GossipTimestampFilter{
		ChainHash:      [32]byte{0xaa},
		FirstTimestamp: 123456,
		TimestampRange: 999,
	}

	p.dispatch(in, conn.remote, conn)

	if len(conn.outbox) != 1 {
		t.Fatalf("outbox = %d messages, want 1", len(conn.outbox))
	}
	out, ok := conn.outbox[0].(*lnmsg.GossipTimestampFilter)
	if !ok {
		t.Fatalf("outbox[0] = %T, want *lnmsg.GossipTimestampFilter", conn.outbox[0])
	}
	if out.FirstTimestamp != 0 {
		t.Errorf("mirrored FirstTimestamp = %d, want 0", out.FirstTimestamp)
	}
	if out.ChainHash != in.ChainHash || out.TimestampRange != in.TimestampRange {
		t.Errorf("mirrored message = %+v, want chain_hash/timestamp_range to match request", out)
	}
}

func TestDispatchUnknownAndUninterestingTypesProduceNoReaction(t *testing.T) {
	p := newTestPeer()
	conn := &fakeConnection{remote: nodeIDOf(1)}

	p.dispatch(&lnmsg.Unknown{TypeID: 9999, Data: []byte{1, 2, 3}}, conn.remote, conn)
	p.dispatch(&lnmsg.ChannelUpdate{}, conn.remote, conn)
	p.dispatch(&lnmsg.QueryChannelRange{}, conn.remote, conn)
	p.dispatch(&lnmsg.ReplyChannelRange{}, conn.remote, conn)
	p.dispatch(&lnmsg.Init{LocalFeatures: []byte{0x01}}, conn.remote, conn)

	if len(conn.outbox) != 0 {
		t.Errorf("outbox = %d messages, want 0", len(conn.outbox))
	}
}

func TestServePassDispatchesAndSkipsTimeout(t *testing.T) {
	p := newTestPeer()
	nodeID := nodeIDOf(2)
	conn := &fakeConnection{remote: nodeID, inbox: []lnmsg.Message{&lnmsg.Ping{NumPongBytes: 2}}}
	p.connections[nodeID] = conn

	p.servePass()
	if len(conn.outbox) != 1 {
		t.Fatalf("after first pass outbox = %d, want 1 (pong reply)", len(conn.outbox))
	}
	if !p.IsConnected(nodeID) {
		t.Error("connection removed after message dispatch, want still connected")
	}

	p.servePass() // inbox now empty: should see timeout and stay connected
	if !p.IsConnected(nodeID) {
		t.Error("connection removed after timeout-only pass, want still connected")
	}
}

func TestServePassRemovesConnectionOnReadError(t *testing.T) {
	p := newTestPeer()
	nodeID := nodeIDOf(3)
	conn := &fakeConnection{remote: nodeID, inboxErr: errReadFailed}
	p.connections[nodeID] = conn

	p.servePass()

	if p.IsConnected(nodeID) {
		t.Error("IsConnected = true after fatal read error, want false")
	}
	if !conn.closed {
		t.Error("connection not closed after fatal read error")
	}
}

func TestServePassRemovesStaleConnection(t *testing.T) {
	p := newTestPeer()
	nodeID := nodeIDOf(4)
	conn := &fakeConnection{remote: nodeID, stale: true}
	p.connections[nodeID] = conn

	p.servePass()

	if p.IsConnected(nodeID) {
		t.Error("IsConnected = true for a stale connection, want false")
	}
}

func TestAnnouncementHookFiresOnlyForNewEntries(t *testing.T) {
	p := newTestPeer()
	conn := &fakeConnection{remote: nodeIDOf(1)}

	var events []AnnouncementEvent
	p.SetAnnouncementHook(func(e AnnouncementEvent) { events = append(events, e) })

	ann := &lnmsg.ChannelAnnouncement{ShortChannelID: wire.ShortChannelID{BlockHeight: 5, TxIndex: 1, OutputIndex: 0}}
	p.dispatch(ann, conn.remote, conn)
	p.dispatch(&lnmsg.ChannelAnnouncement{ShortChannelID: ann.ShortChannelID}, conn.remote, conn) // duplicate

	node := &lnmsg.NodeAnnouncement{NodeID: nodeIDOf(8)}
	p.dispatch(node, conn.remote, conn)
	p.dispatch(&lnmsg.NodeAnnouncement{NodeID: node.NodeID}, conn.remote, conn) // duplicate

	if len(events) != 2 {
		t.Fatalf("hook fired %d times, want 2 (one per first-seen announcement)", len(events))
	}
	if events[0].Kind != AnnouncementChannel || events[0].Channel != ann {
		t.Errorf("events[0] = %+v, want channel announcement", events[0])
	}
	if events[1].Kind != AnnouncementNode || events[1].Node != node {
		t.Errorf("events[1] = %+v, want node announcement", events[1])
	}
}

func TestServePassSendsPingWhenReady(t *testing.T) {
	p := newTestPeer()
	nodeID := nodeIDOf(5)
	conn := &fakeConnection{remote: nodeID, readyPing: true}
	p.connections[nodeID] = conn

	p.servePass()

	if !p.IsConnected(nodeID) {
		t.Fatal("connection removed, want still connected")
	}
	if len(conn.outbox) != 1 {
		t.Fatalf("outbox = %d messages, want 1 (ping)", len(conn.outbox))
	}
	if !conn.pendingPing {
		t.Error("pendingPing not set after SendPing")
	}
}
