package monitor

import (
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JeremiahR/lightning-mini-peer/internal/nodeaddr"
)

func (m *Monitor) setupRoutes() {
	m.router.GET("/status", m.handleStatus)
	m.router.GET("/peers", m.handlePeers)
	m.router.GET("/nodes", m.handleNodes)
	m.router.GET("/channels", m.handleChannels)
	m.router.GET("/ws", m.handleWebsocket)

	admin := m.router.Group("/")
	admin.Use(authMiddleware(m.jwtSecret))
	admin.POST("/connect", m.handleConnect)
}

func (m *Monitor) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connections":    m.peer.ConnectionCount(),
		"known_channels": len(m.peer.KnownChannels()),
		"known_nodes":    len(m.peer.KnownNodes()),
	})
}

func (m *Monitor) handlePeers(c *gin.Context) {
	ids := m.peer.ConnectedNodeIDs()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, hexKey(id))
	}
	c.JSON(http.StatusOK, out)
}

// channelAnnouncementView and nodeAnnouncementView strip signatures out
// of the wire structs before serializing to JSON: they're large, opaque,
// and of no use to a status API's caller.

type channelAnnouncementView struct {
	ShortChannelID string `json:"short_channel_id"`
	ChainHash      string `json:"chain_hash"`
	NodeID1        string `json:"node_id_1"`
	NodeID2        string `json:"node_id_2"`
}

func (m *Monitor) handleChannels(c *gin.Context) {
	anns := m.peer.KnownChannels()
	out := make([]channelAnnouncementView, 0, len(anns))
	for _, a := range anns {
		out = append(out, channelAnnouncementView{
			ShortChannelID: a.ShortChannelID.String(),
			ChainHash:      hex.EncodeToString(a.ChainHash[:]),
			NodeID1:        hexKey(a.NodeID1),
			NodeID2:        hexKey(a.NodeID2),
		})
	}
	c.JSON(http.StatusOK, out)
}

type nodeAnnouncementView struct {
	NodeID    string `json:"node_id"`
	Alias     string `json:"alias"`
	Timestamp uint32 `json:"timestamp"`
}

func (m *Monitor) handleNodes(c *gin.Context) {
	anns := m.peer.KnownNodes()
	out := make([]nodeAnnouncementView, 0, len(anns))
	for _, a := range anns {
		out = append(out, nodeAnnouncementView{
			NodeID:    hexKey(a.NodeID),
			Alias:     aliasString(a.Alias),
			Timestamp: a.Timestamp,
		})
	}
	c.JSON(http.StatusOK, out)
}

// aliasString trims the trailing zero padding of node_announcement's
// fixed 32-byte, NUL-padded alias field.
func aliasString(alias [32]byte) string {
	end := len(alias)
	for end > 0 && alias[end-1] == 0 {
		end--
	}
	return string(alias[:end])
}

type connectRequest struct {
	Node string `json:"node" binding:"required"` // "<pubkey-hex>@host:port"
}

func (m *Monitor) handleConnect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	node, err := nodeaddr.Parse(req.Node)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if m.peer.IsConnected(node.PublicKey) {
		c.JSON(http.StatusOK, gin.H{"already_connected": true})
		return
	}

	if err := m.peer.OpenConnection(c.Request.Context(), node); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"connected": node.String()})
}

func (m *Monitor) handleWebsocket(c *gin.Context) {
	token := c.Query("token")
	if !validAdminToken(token, m.jwtSecret) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token query parameter"})
		return
	}
	m.hub.serveWS(c.Writer, c.Request)
}
