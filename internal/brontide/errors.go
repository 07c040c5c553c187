package brontide

import "errors"

// ErrConnectionFailed wraps TCP connect/read/write failures. The
// connection owning the failure is disconnected; the rest of the peer
// survives.
var ErrConnectionFailed = errors.New("brontide: connection failed")

// ErrHandshakeFailed wraps a Noise_XK handshake violation: bad version
// byte, AEAD tag mismatch, or a remote static key that does not match the
// node descriptor we dialed.
var ErrHandshakeFailed = errors.New("brontide: handshake failed")

// ErrDecryptionFailed wraps a post-handshake AEAD failure. Fatal for the
// connection.
var ErrDecryptionFailed = errors.New("brontide: decryption failed")

// ErrFraming wraps a header length prefix that yields an impossible read.
var ErrFraming = errors.New("brontide: framing error")

// ErrDecode wraps a message codec rejection of an otherwise well-framed
// plaintext. The connection survives; the caller should drop the message
// and log it.
var ErrDecode = errors.New("brontide: decode error")
