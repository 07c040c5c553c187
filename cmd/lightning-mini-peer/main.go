package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/JeremiahR/lightning-mini-peer/internal/monitor"
	"github.com/JeremiahR/lightning-mini-peer/internal/nodeaddr"
	"github.com/JeremiahR/lightning-mini-peer/internal/peer"
	"github.com/JeremiahR/lightning-mini-peer/internal/peerconfig"
)

var version = "dev"

func main() {
	var (
		configPath   = flag.String("config", "", "path to YAML config file (optional; flags below override it)")
		identityPath = flag.String("identity", "", "path to identity key file")
		peers        = flag.String("peer", "", "static peer(s): pubkey@host:port,pubkey@host:port")
		connectNew   = flag.Bool("connect-new-nodes", false, "auto-connect to nodes learned via node_announcement")
		logLevel     = flag.String("log-level", "", "log level: debug, info, warn, error")
		monitorAddr  = flag.String("monitor", "", "enable the status/control HTTP API on this address, e.g. 127.0.0.1:9736")
		jwtSecret    = flag.String("monitor-jwt-secret", "", "shared secret for monitor admin bearer tokens")
		showVersion  = flag.Bool("version", false, "show version and exit")
		showPubkey   = flag.Bool("show-pubkey", false, "show the node's public key and exit")
		issueToken   = flag.Bool("issue-token", false, "mint a monitor admin bearer token and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("lightning-mini-peer %s\n", version)
		os.Exit(0)
	}

	cfg := peerconfig.Default()
	if *configPath != "" {
		loaded, err := peerconfig.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *identityPath != "" {
		cfg.IdentityPath = *identityPath
	}
	if *connectNew {
		cfg.ConnectToNewNodes = true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *monitorAddr != "" {
		cfg.Monitor.Enabled = true
		cfg.Monitor.Listen = *monitorAddr
	}
	if *jwtSecret != "" {
		cfg.Monitor.JWTSecret = *jwtSecret
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	localStatic, err := loadOrGenerateIdentity(cfg.IdentityPath)
	if err != nil {
		log.Error("load identity failed", "err", err)
		os.Exit(1)
	}

	if *showPubkey {
		fmt.Printf("%x\n", localStatic.PubKey().SerializeCompressed())
		os.Exit(0)
	}

	if *issueToken {
		if cfg.Monitor.JWTSecret == "" {
			fmt.Fprintln(os.Stderr, "issue-token requires -monitor-jwt-secret or monitor.jwt_secret in config")
			os.Exit(1)
		}
		token, expiresAt, err := monitor.GenerateAdminToken([]byte(cfg.Monitor.JWTSecret), 24*time.Hour)
		if err != nil {
			log.Error("generate token failed", "err", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n(expires %s)\n", token, expiresAt.Format(time.RFC3339))
		os.Exit(0)
	}

	p := peer.New(localStatic, cfg.LocalFeatures, cfg.ConnectToNewNodes, log)

	var staticPeers []nodeaddr.Node
	for _, s := range cfg.StaticPeers {
		if *peers != "" {
			break // CLI -peer overrides the config file's static_peers list entirely.
		}
		n, err := nodeaddr.Parse(s)
		if err != nil {
			log.Error("invalid static peer in config", "peer", s, "err", err)
			os.Exit(1)
		}
		staticPeers = append(staticPeers, n)
	}
	if *peers != "" {
		for _, s := range strings.Split(*peers, ",") {
			n, err := nodeaddr.Parse(s)
			if err != nil {
				log.Error("invalid -peer value", "peer", s, "err", err)
				os.Exit(1)
			}
			staticPeers = append(staticPeers, n)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, n := range staticPeers {
		node := n
		go func() {
			if err := p.OpenConnection(ctx, node); err != nil {
				log.Error("connect to static peer failed", "peer", node.String(), "err", err)
			}
		}()
	}

	if cfg.Monitor.Enabled {
		m := monitor.New(p, []byte(cfg.Monitor.JWTSecret), cfg.Monitor.Listen, log)
		go func() {
			if err := m.Run(); err != nil {
				log.Error("monitor server stopped", "err", err)
			}
		}()
	}

	go p.EventLoop(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("received signal, shutting down", "signal", sig)
	cancel()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
