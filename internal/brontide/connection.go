// Package brontide owns a TCP stream plus a completed Noise_XK transport
// and exposes the length-framed, authenticated message transport used by
// Peer: handshake, read-next-message, and send.
package brontide

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/JeremiahR/lightning-mini-peer/internal/lnmsg"
	"github.com/JeremiahR/lightning-mini-peer/internal/noise"
	"github.com/JeremiahR/lightning-mini-peer/internal/nodeaddr"
	"github.com/JeremiahR/lightning-mini-peer/internal/wire"
)

const (
	// pingIdleInterval is the suggested cadence at which a connection
	// that has sent nothing recently should emit a liveness ping.
	pingIdleInterval = 60 * time.Second
	// staleTimeout is the suggested cutoff past which a connection that
	// has received nothing should be considered dead.
	staleTimeout = 5 * time.Minute

	headerCiphertextLen = 2 + 16
)

// Connection owns one TCP stream plus its Noise_XK transport state. A
// Connection is created by Open and destroyed by Close; it is not safe
// for concurrent use from more than one goroutine at a time (Peer's
// single-threaded event loop serializes access).
type Connection struct {
	conn         net.Conn
	send         *noise.CipherState
	recv         *noise.CipherState
	remoteStatic [33]byte
	node         nodeaddr.Node
	log          *slog.Logger

	lastSent    time.Time
	lastRecv    time.Time
	pendingPing bool
}

// Open performs a TCP connect to node.Address(), runs the Noise_XK
// initiator handshake against node.PublicKey, and returns a connection
// ready to exchange framed messages. Fails with ErrConnectionFailed on
// TCP error or ErrHandshakeFailed on Noise error; on any failure no
// partially-open socket is left behind.
func Open(ctx context.Context, node nodeaddr.Node, localStatic *btcec.PrivateKey, log *slog.Logger) (*Connection, error) {
	if log == nil {
		log = slog.Default()
	}

	remoteStatic, err := btcec.ParsePubKey(node.PublicKey[:])
	if err != nil {
		return nil, fmt.Errorf("%w: parsing remote static key: %v", ErrHandshakeFailed, err)
	}

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", node.Address())
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrConnectionFailed, node.Address(), err)
	}

	c := &Connection{conn: conn, node: node, log: log, remoteStatic: node.PublicKey}

	if err := c.handshake(localStatic, remoteStatic); err != nil {
		conn.Close()
		return nil, err
	}

	now := time.Now()
	c.lastSent, c.lastRecv = now, now
	log.Debug("brontide handshake complete", "remote", node.String())
	return c, nil
}

func (c *Connection) handshake(localStatic *btcec.PrivateKey, remoteStatic *btcec.PublicKey) error {
	hs, err := noise.NewInitiator(localStatic, remoteStatic)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}

	actOne, err := hs.GenActOne()
	if err != nil {
		return fmt.Errorf("%w: act one: %v", ErrHandshakeFailed, err)
	}
	if _, err := c.conn.Write(actOne); err != nil {
		return fmt.Errorf("%w: writing act one: %v", ErrConnectionFailed, err)
	}

	actTwo := make([]byte, noise.ActTwoLength)
	if _, err := io.ReadFull(c.conn, actTwo); err != nil {
		return fmt.Errorf("%w: reading act two: %v", ErrConnectionFailed, err)
	}
	if err := hs.RecvActTwo(actTwo); err != nil {
		return fmt.Errorf("%w: act two: %v", ErrHandshakeFailed, err)
	}

	actThree, err := hs.GenActThree()
	if err != nil {
		return fmt.Errorf("%w: act three: %v", ErrHandshakeFailed, err)
	}
	if _, err := c.conn.Write(actThree); err != nil {
		return fmt.Errorf("%w: writing act three: %v", ErrConnectionFailed, err)
	}

	if !bytes.Equal(hs.RemoteStaticKey().SerializeCompressed(), c.remoteStatic[:]) {
		return fmt.Errorf("%w: remote static key mismatch", ErrHandshakeFailed)
	}

	c.send = hs.SendCipher()
	c.recv = hs.RecvCipher()
	return nil
}

// RemoteStaticKey returns the 33-byte compressed public key this
// connection authenticated against during the handshake.
func (c *Connection) RemoteStaticKey() [33]byte { return c.remoteStatic }

// SetPollDeadline arms the underlying socket's read deadline so the next
// ReadNextMessage call returns a timeout error instead of blocking
// indefinitely if no data arrives within d. This is the cooperative
// substitute for an explicit socket-readable primitive (see Peer's event
// loop).
func (c *Connection) SetPollDeadline(d time.Duration) error {
	return c.conn.SetReadDeadline(time.Now().Add(d))
}

// IsTimeout reports whether err is the read-deadline timeout produced by
// SetPollDeadline expiring with nothing to read — not a connection
// failure.
func IsTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

// ReadNextMessage reads one 18-byte header ciphertext, decrypts it to a
// 2-byte length, reads length+16 more bytes, decrypts, and decodes one
// message. It may return a timeout error (see IsTimeout) if the armed
// poll deadline expires first; any other error is connection-fatal.
func (c *Connection) ReadNextMessage() (lnmsg.Message, error) {
	header := make([]byte, headerCiphertextLen)
	if _, err := io.ReadFull(c.conn, header); err != nil {
		if IsTimeout(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reading header: %v", ErrConnectionFailed, err)
	}

	lengthPlaintext, err := c.recv.Decrypt(nil, header)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrDecryptionFailed, err)
	}
	length, _, err := wire.DecodeU16(lengthPlaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFraming, err)
	}
	if length == 0 {
		return nil, fmt.Errorf("%w: zero-length message", ErrFraming)
	}

	body := make([]byte, int(length)+16)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrConnectionFailed, err)
	}
	plaintext, err := c.recv.Decrypt(nil, body)
	if err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrDecryptionFailed, err)
	}

	msg, _, err := lnmsg.Decode(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	c.lastRecv = time.Now()
	return msg, nil
}

// Send encodes msg, seals it as two AEAD ciphertexts against the
// outbound transport state, and writes both to the socket.
func (c *Connection) Send(msg lnmsg.Message) error {
	body := msg.Encode()
	if len(body) > 65535 {
		return fmt.Errorf("%w: message of %d bytes exceeds frame limit", ErrFraming, len(body))
	}

	lengthCiphertext, err := c.send.Encrypt(nil, wire.EncodeU16(uint16(len(body))))
	if err != nil {
		return fmt.Errorf("%w: encrypting length: %v", ErrConnectionFailed, err)
	}
	if _, err := c.conn.Write(lengthCiphertext); err != nil {
		return fmt.Errorf("%w: writing length: %v", ErrConnectionFailed, err)
	}

	bodyCiphertext, err := c.send.Encrypt(nil, body)
	if err != nil {
		return fmt.Errorf("%w: encrypting body: %v", ErrConnectionFailed, err)
	}
	if _, err := c.conn.Write(bodyCiphertext); err != nil {
		return fmt.Errorf("%w: writing body: %v", ErrConnectionFailed, err)
	}

	c.lastSent = time.Now()
	return nil
}

// ReadyForPing reports whether this connection has been idle (on the
// send side) long enough to warrant a liveness ping, and does not
// already have one outstanding.
func (c *Connection) ReadyForPing() bool {
	return !c.pendingPing && time.Since(c.lastSent) >= pingIdleInterval
}

// SendPing emits a minimal ping and marks one pong as outstanding.
func (c *Connection) SendPing() error {
	if err := c.Send(&lnmsg.Ping{NumPongBytes: 0, Ignored: nil}); err != nil {
		return err
	}
	c.pendingPing = true
	return nil
}

// ClearPendingPing clears the outstanding-pong flag; called on receipt
// of a Pong.
func (c *Connection) ClearPendingPing() { c.pendingPing = false }

// Stale reports whether this connection has received nothing for longer
// than staleTimeout, and should be disconnected by the caller.
func (c *Connection) Stale() bool {
	return time.Since(c.lastRecv) >= staleTimeout
}

// Close shuts down the underlying socket.
func (c *Connection) Close() error {
	return c.conn.Close()
}
