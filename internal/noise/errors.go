package noise

import "errors"

// ErrProtocolViolation is returned when a handshake entry point is called
// out of its required order (e.g. GenActOne called twice).
var ErrProtocolViolation = errors.New("noise: protocol violation")

// ErrUnsupportedVersion is returned when an act's leading version byte is
// not the single version (0) this handshake understands.
var ErrUnsupportedVersion = errors.New("noise: unsupported handshake version")

// ErrHandshakeFailed wraps any AEAD verification failure or malformed act
// encountered during the handshake.
var ErrHandshakeFailed = errors.New("noise: handshake failed")

// ErrDecryptionFailed is returned by a transport CipherState when AEAD
// verification fails on a post-handshake message.
var ErrDecryptionFailed = errors.New("noise: decryption failed")
