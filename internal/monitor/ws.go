package monitor

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JeremiahR/lightning-mini-peer/internal/peer"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsClient is one connected subscriber: writes are serialized through a
// buffered channel so a slow reader can't block the broadcaster.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// hub fans out announcement events to every connected websocket client.
type hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	log     *slog.Logger
}

func newHub(log *slog.Logger) *hub {
	return &hub{
		clients: make(map[*wsClient]struct{}),
		log:     log.With("component", "monitor-ws"),
	}
}

// announcementMessage is the wire shape pushed to websocket subscribers.
type announcementMessage struct {
	Type    string      `json:"type"` // "channel_announcement" or "node_announcement"
	Channel interface{} `json:"channel,omitempty"`
	Node    interface{} `json:"node,omitempty"`
}

// broadcast is registered as the Peer's announcement hook.
func (h *hub) broadcast(e peer.AnnouncementEvent) {
	var msg announcementMessage
	switch e.Kind {
	case peer.AnnouncementChannel:
		msg = announcementMessage{
			Type: "channel_announcement",
			Channel: channelAnnouncementView{
				ShortChannelID: e.Channel.ShortChannelID.String(),
				NodeID1:        hexKey(e.Channel.NodeID1),
				NodeID2:        hexKey(e.Channel.NodeID2),
			},
		}
	case peer.AnnouncementNode:
		msg = announcementMessage{
			Type: "node_announcement",
			Node: nodeAnnouncementView{
				NodeID:    hexKey(e.Node.NodeID),
				Alias:     aliasString(e.Node.Alias),
				Timestamp: e.Node.Timestamp,
			},
		}
	default:
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal announcement", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn("dropping announcement for slow websocket client")
		}
	}
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "err", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 16)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go h.writePump(client)
	h.readPump(client)
}

// readPump discards inbound frames (this feed is push-only) and exits on
// the first read error, which triggers cleanup.
func (h *hub) readPump(c *wsClient) {
	defer h.removeClient(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *hub) writePump(c *wsClient) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (h *hub) removeClient(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}
