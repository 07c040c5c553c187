// Package monitor exposes a read-mostly HTTP and websocket surface over a
// running Peer: status, the current gossip tables, a JWT-gated admin
// action to open a new connection, and a live feed of newly learned
// announcements. It holds no state of its own beyond what Peer already
// tracks — nothing here survives a restart.
package monitor

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/JeremiahR/lightning-mini-peer/internal/peer"
)

// Monitor is the status/control HTTP server for a Peer.
type Monitor struct {
	peer      *peer.Peer
	router    *gin.Engine
	hub       *hub
	jwtSecret []byte
	listen    string
	log       *slog.Logger
}

// New builds a Monitor for p. jwtSecret authenticates bearer tokens
// accepted by the admin-only routes; listen is the address Run binds.
func New(p *peer.Peer, jwtSecret []byte, listen string, log *slog.Logger) *Monitor {
	if log == nil {
		log = slog.Default()
	}
	m := &Monitor{
		peer:      p,
		hub:       newHub(log),
		jwtSecret: jwtSecret,
		listen:    listen,
		log:       log.With("component", "monitor"),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	m.router = router
	m.setupRoutes()

	p.SetAnnouncementHook(m.hub.broadcast)

	return m
}

// Run starts the HTTP server and blocks until it returns an error.
func (m *Monitor) Run() error {
	m.log.Info("monitor starting", "listen", m.listen)
	return m.router.Run(m.listen)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func hexKey(k [33]byte) string {
	return fmt.Sprintf("%x", k[:])
}
