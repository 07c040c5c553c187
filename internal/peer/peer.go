// Package peer manages the set of live connections to remote Lightning
// nodes, the tables of channels and nodes learned from gossip, and the
// single-threaded cooperative event loop that drives them all.
package peer

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/JeremiahR/lightning-mini-peer/internal/brontide"
	"github.com/JeremiahR/lightning-mini-peer/internal/lnmsg"
	"github.com/JeremiahR/lightning-mini-peer/internal/nodeaddr"
	"github.com/JeremiahR/lightning-mini-peer/internal/wire"
)

// pollInterval is how long each connection's read is allowed to block
// per event-loop pass before yielding to the next connection; it is the
// Go substitute for an explicit socket-readable primitive.
const pollInterval = 50 * time.Millisecond

// passInterval is the delay between successive event-loop passes once
// every connection has been served once.
const passInterval = 200 * time.Millisecond

// Connection is the subset of *brontide.Connection the event loop and
// dispatch policy depend on. *brontide.Connection satisfies it directly;
// tests substitute a fake to exercise dispatch and the event loop without
// a real socket.
type Connection interface {
	RemoteStaticKey() [33]byte
	SetPollDeadline(d time.Duration) error
	ReadNextMessage() (lnmsg.Message, error)
	Send(msg lnmsg.Message) error
	ReadyForPing() bool
	SendPing() error
	ClearPendingPing()
	Stale() bool
	Close() error
}

// Peer owns every connection this process maintains to remote nodes,
// plus the gossip tables those connections populate. The known-channels
// and known-nodes maps, and the connection map itself, are mutated only
// from the event loop or under mu — Go has no single-task runtime
// guarantee, so every access from outside the event loop goes through
// the mutex instead.
type Peer struct {
	mu          sync.Mutex
	connections map[[33]byte]Connection

	knownChannels map[uint64]*lnmsg.ChannelAnnouncement
	knownNodes    map[[33]byte]*lnmsg.NodeAnnouncement

	localStatic       *btcec.PrivateKey
	localFeatures     []byte
	connectToNewNodes bool

	announceHook func(AnnouncementEvent)

	log *slog.Logger
}

// AnnouncementKind distinguishes the two gossip message types that can
// trigger an announcement hook call.
type AnnouncementKind int

const (
	AnnouncementChannel AnnouncementKind = iota
	AnnouncementNode
)

// AnnouncementEvent describes a newly learned (not previously known)
// channel_announcement or node_announcement.
type AnnouncementEvent struct {
	Kind    AnnouncementKind
	Channel *lnmsg.ChannelAnnouncement
	Node    *lnmsg.NodeAnnouncement
}

// SetAnnouncementHook registers fn to be called synchronously from the
// event-loop goroutine whenever dispatch learns a channel or node
// announcement it did not already have in its tables. fn must return
// quickly and must not call back into the Peer.
func (p *Peer) SetAnnouncementHook(fn func(AnnouncementEvent)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.announceHook = fn
}

// New constructs an empty Peer. localStatic is this process's long-lived
// Lightning identity key; localFeatures is advertised verbatim in the
// init message each new connection sends.
func New(localStatic *btcec.PrivateKey, localFeatures []byte, connectToNewNodes bool, log *slog.Logger) *Peer {
	if log == nil {
		log = slog.Default()
	}
	return &Peer{
		connections:       make(map[[33]byte]Connection),
		knownChannels:     make(map[uint64]*lnmsg.ChannelAnnouncement),
		knownNodes:        make(map[[33]byte]*lnmsg.NodeAnnouncement),
		localStatic:       localStatic,
		localFeatures:     localFeatures,
		connectToNewNodes: connectToNewNodes,
		log:               log,
	}
}

// OpenConnection dials node, completes the Noise_XK handshake, sends our
// init message, and inserts the connection into the peer map. A failure
// at any step never inserts into the map.
func (p *Peer) OpenConnection(ctx context.Context, node nodeaddr.Node) error {
	conn, err := brontide.Open(ctx, node, p.localStatic, p.log)
	if err != nil {
		return err
	}

	init := &lnmsg.Init{
		GlobalFeatures: nil,
		LocalFeatures:  p.localFeatures,
		TLV:            nil,
	}
	if err := conn.Send(init); err != nil {
		conn.Close()
		return fmt.Errorf("peer: sending init to %s: %w", node.String(), err)
	}

	p.mu.Lock()
	p.connections[conn.RemoteStaticKey()] = conn
	p.mu.Unlock()

	p.log.Info("connected", "remote", node.String())
	return nil
}

// IsConnected reports whether a connection to the given node id is
// currently open.
func (p *Peer) IsConnected(nodeID [33]byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.connections[nodeID]
	return ok
}

// ConnectedNodeIDs returns the public keys of every currently connected
// node.
func (p *Peer) ConnectedNodeIDs() [][33]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][33]byte, 0, len(p.connections))
	for id := range p.connections {
		out = append(out, id)
	}
	return out
}

// ConnectionCount reports the number of live connections.
func (p *Peer) ConnectionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.connections)
}

// KnownChannels returns a snapshot of the known-channels table.
func (p *Peer) KnownChannels() []*lnmsg.ChannelAnnouncement {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*lnmsg.ChannelAnnouncement, 0, len(p.knownChannels))
	for _, ann := range p.knownChannels {
		out = append(out, ann)
	}
	return out
}

// KnownNodes returns a snapshot of the known-nodes table.
func (p *Peer) KnownNodes() []*lnmsg.NodeAnnouncement {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*lnmsg.NodeAnnouncement, 0, len(p.knownNodes))
	for _, ann := range p.knownNodes {
		out = append(out, ann)
	}
	return out
}

func (p *Peer) removeConnection(nodeID [33]byte, reason error) {
	p.mu.Lock()
	conn, ok := p.connections[nodeID]
	if ok {
		delete(p.connections, nodeID)
	}
	p.mu.Unlock()
	if !ok {
		return
	}
	conn.Close()
	p.log.Info("disconnected", "remote", hex.EncodeToString(nodeID[:]), "reason", reason)
}

// EventLoop is the single-threaded cooperative loop: each pass, for
// every connection it non-blockingly drains at most one available
// message and dispatches it, disconnects connections whose read failed
// or have gone stale, and issues pings on idle connections. It runs
// until ctx is cancelled.
func (p *Peer) EventLoop(ctx context.Context) {
	ticker := time.NewTicker(passInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.servePass()
		}
	}
}

func (p *Peer) servePass() {
	p.mu.Lock()
	conns := make(map[[33]byte]Connection, len(p.connections))
	for k, v := range p.connections {
		conns[k] = v
	}
	p.mu.Unlock()

	for nodeID, conn := range conns {
		if err := conn.SetPollDeadline(pollInterval); err != nil {
			p.removeConnection(nodeID, err)
			continue
		}

		msg, err := conn.ReadNextMessage()
		switch {
		case err == nil:
			p.dispatch(msg, nodeID, conn)
		case brontide.IsTimeout(err):
			// nothing available this pass; fall through to ping/stale checks.
		default:
			p.removeConnection(nodeID, err)
			continue
		}

		if conn.Stale() {
			p.removeConnection(nodeID, fmt.Errorf("no message received within timeout"))
			continue
		}
		if conn.ReadyForPing() {
			if err := conn.SendPing(); err != nil {
				p.removeConnection(nodeID, err)
			}
		}
	}
}

// firstIPv4Address returns the host:port of the first IPv4 entry in addrs,
// if any.
func firstIPv4Address(addrs []wire.NodeAddress) (host string, port uint16, ok bool) {
	for _, a := range addrs {
		if v4, match := a.(wire.IPv4Address); match {
			return fmt.Sprintf("%d.%d.%d.%d", v4.IP[0], v4.IP[1], v4.IP[2], v4.IP[3]), v4.Port, true
		}
	}
	return "", 0, false
}
