package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JeremiahR/lightning-mini-peer/internal/lnmsg"
	"github.com/JeremiahR/lightning-mini-peer/internal/peer"
	"github.com/JeremiahR/lightning-mini-peer/internal/wire"
)

func newTestMonitor(t *testing.T) (*Monitor, []byte) {
	t.Helper()
	secret := []byte("test-secret")
	p := peer.New(nil, []byte{0x01}, false, nil)
	return New(p, secret, "127.0.0.1:0", nil), secret
}

func TestStatusReportsCounts(t *testing.T) {
	m, _ := newTestMonitor(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	m.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["connections"] != 0 || body["known_channels"] != 0 || body["known_nodes"] != 0 {
		t.Errorf("status body = %+v, want all zero on a fresh peer", body)
	}
}

func TestConnectRequiresBearerToken(t *testing.T) {
	m, _ := newTestMonitor(t)

	req := httptest.NewRequest(http.MethodPost, "/connect", strings.NewReader(`{"node":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	m.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without a bearer token", rec.Code)
	}
}

func TestConnectRejectsInvalidToken(t *testing.T) {
	m, _ := newTestMonitor(t)

	req := httptest.NewRequest(http.MethodPost, "/connect", strings.NewReader(`{"node":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	m.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for a malformed token", rec.Code)
	}
}

func TestConnectWithValidTokenValidatesNodeFormat(t *testing.T) {
	m, secret := newTestMonitor(t)
	token, _, err := GenerateAdminToken(secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/connect", strings.NewReader(`{"node":"not-a-valid-descriptor"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for an unparseable node descriptor (token itself accepted)", rec.Code)
	}
}

func TestGenerateAdminTokenRoundTrip(t *testing.T) {
	secret := []byte("another-secret")
	token, expiresAt, err := GenerateAdminToken(secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}
	if !validAdminToken(token, secret) {
		t.Error("freshly generated token failed validation")
	}
	if validAdminToken(token, []byte("wrong-secret")) {
		t.Error("token validated against the wrong secret")
	}
	if time.Until(expiresAt) > time.Minute || time.Until(expiresAt) <= 0 {
		t.Errorf("expiresAt = %v, want roughly one minute from now", expiresAt)
	}
}

func TestWebsocketPushesNewAnnouncement(t *testing.T) {
	p := peer.New(nil, []byte{0x01}, false, nil)
	secret := []byte("ws-secret")
	m := New(p, secret, "127.0.0.1:0", nil)

	server := httptest.NewServer(m.router)
	defer server.Close()

	token, _, err := GenerateAdminToken(secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	// give serveWS's registration a moment to land before the event fires.
	time.Sleep(50 * time.Millisecond)

	ann := &lnmsg.ChannelAnnouncement{ShortChannelID: wire.ShortChannelID{BlockHeight: 10, TxIndex: 1, OutputIndex: 0}}
	m.hub.broadcast(peer.AnnouncementEvent{Kind: peer.AnnouncementChannel, Channel: ann})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var msg announcementMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal pushed message: %v", err)
	}
	if msg.Type != "channel_announcement" {
		t.Errorf("msg.Type = %q, want channel_announcement", msg.Type)
	}
}

func TestWebsocketRejectsMissingToken(t *testing.T) {
	m, _ := newTestMonitor(t)
	server := httptest.NewServer(m.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial without token: want error, got nil")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		code := -1
		if resp != nil {
			code = resp.StatusCode
		}
		t.Errorf("status = %d, want 401", code)
	}
}
