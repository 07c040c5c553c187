package peer

import (
	"context"

	"github.com/JeremiahR/lightning-mini-peer/internal/lnmsg"
	"github.com/JeremiahR/lightning-mini-peer/internal/nodeaddr"
)

// dispatch implements the inbound handling policy: every message
// variant's reaction is decided here and nowhere else.
func (p *Peer) dispatch(msg lnmsg.Message, from [33]byte, conn Connection) {
	switch m := msg.(type) {

	case *lnmsg.Ping:
		pong := &lnmsg.Pong{Ignored: make([]byte, m.NumPongBytes)}
		if err := conn.Send(pong); err != nil {
			p.log.Debug("sending pong failed", "err", err)
		}

	case *lnmsg.Pong:
		conn.ClearPendingPing()

	case *lnmsg.Init:
		p.log.Debug("received init", "local_features", m.LocalFeatures, "global_features", m.GlobalFeatures)

	case *lnmsg.ChannelAnnouncement:
		p.mu.Lock()
		key := m.ShortChannelID.Uint64()
		_, exists := p.knownChannels[key]
		if !exists {
			p.knownChannels[key] = m
		}
		hook := p.announceHook
		p.mu.Unlock()
		if !exists && hook != nil {
			hook(AnnouncementEvent{Kind: AnnouncementChannel, Channel: m})
		}

	case *lnmsg.NodeAnnouncement:
		p.handleNodeAnnouncement(m)

	case *lnmsg.GossipTimestampFilter:
		mirror := &lnmsg.GossipTimestampFilter{
			ChainHash:      m.ChainHash,
			FirstTimestamp: 0,
			TimestampRange: m.TimestampRange,
		}
		if err := conn.Send(mirror); err != nil {
			p.log.Debug("mirroring gossip filter failed", "err", err)
		}

	case *lnmsg.ChannelUpdate, *lnmsg.QueryChannelRange, *lnmsg.ReplyChannelRange, *lnmsg.Unknown:
		// no reaction.
	}
}

func (p *Peer) handleNodeAnnouncement(m *lnmsg.NodeAnnouncement) {
	p.mu.Lock()
	_, alreadyKnown := p.knownNodes[m.NodeID]
	if !alreadyKnown {
		p.knownNodes[m.NodeID] = m
	}
	alreadyConnected := false
	if _, ok := p.connections[m.NodeID]; ok {
		alreadyConnected = true
	}
	connectToNewNodes := p.connectToNewNodes
	hook := p.announceHook
	p.mu.Unlock()

	if !alreadyKnown && hook != nil {
		hook(AnnouncementEvent{Kind: AnnouncementNode, Node: m})
	}

	if alreadyKnown || alreadyConnected || !connectToNewNodes {
		return
	}

	host, port, ok := firstIPv4Address(m.Addresses)
	if !ok {
		return
	}

	node := nodeaddr.Node{PublicKey: m.NodeID, Host: host, Port: port}
	// Dialing blocks on TCP connect and a full Noise handshake; run it
	// off the event-loop goroutine so one slow dial never stalls every
	// other connection's pass.
	go func() {
		if err := p.OpenConnection(context.Background(), node); err != nil {
			p.log.Debug("auto-connect failed", "node", node.String(), "err", err)
		}
	}()
}
