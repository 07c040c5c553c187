package noise

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// stage tracks which act of the handshake is next expected. Each of
// GenActOne/RecvActTwo/GenActThree may only run once, in order; calling
// one out of turn is a protocol violation.
type stage int

const (
	stageActOne stage = iota
	stageActTwo
	stageActThree
	stageComplete
)

const (
	ActOneLength   = 50
	ActTwoLength   = 50
	ActThreeLength = 66
)

// HandshakeState drives the initiator side of a Noise_XK handshake. It is
// single-use: construct one per outbound connection attempt.
type HandshakeState struct {
	symmetricState

	stage stage

	localStatic    *btcec.PrivateKey
	localEphemeral *btcec.PrivateKey
	remoteStatic   *btcec.PublicKey
	remoteEphemeral *btcec.PublicKey

	sendCipher *CipherState
	recvCipher *CipherState
}

// NewInitiator builds a handshake state for the outbound initiator role.
// localStatic is this node's long-lived Lightning identity key;
// remoteStatic is the responder's known static public key (the "XK" in
// Noise_XK — the initiator knows it a priori).
func NewInitiator(localStatic *btcec.PrivateKey, remoteStatic *btcec.PublicKey) (*HandshakeState, error) {
	ephemeral, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("noise: generating ephemeral key: %w", err)
	}

	hs := &HandshakeState{
		symmetricState:  newSymmetricState(remoteStatic.SerializeCompressed()),
		stage:           stageActOne,
		localStatic:     localStatic,
		localEphemeral:  ephemeral,
		remoteStatic:    remoteStatic,
	}
	return hs, nil
}

// GenActOne produces the 50-byte Act One message: 0x00 || e.pub || tag.
func (hs *HandshakeState) GenActOne() ([]byte, error) {
	if hs.stage != stageActOne {
		return nil, ErrProtocolViolation
	}

	ePub := hs.localEphemeral.PubKey().SerializeCompressed()
	hs.mixHash(ePub)

	es := ecdh(hs.localEphemeral, hs.remoteStatic)
	hs.mixKey(es[:])

	tag, err := hs.encryptAndHash(nil)
	if err != nil {
		return nil, fmt.Errorf("noise: act one: %w", err)
	}

	out := make([]byte, 0, ActOneLength)
	out = append(out, 0x00)
	out = append(out, ePub...)
	out = append(out, tag...)

	hs.stage = stageActTwo
	return out, nil
}

// RecvActTwo consumes the responder's 50-byte Act Two message.
func (hs *HandshakeState) RecvActTwo(b []byte) error {
	if hs.stage != stageActTwo {
		return ErrProtocolViolation
	}
	if len(b) != ActTwoLength {
		return fmt.Errorf("%w: act two length %d, want %d", ErrHandshakeFailed, len(b), ActTwoLength)
	}
	if b[0] != 0x00 {
		return ErrUnsupportedVersion
	}

	rePubBytes := b[1:34]
	tag := b[34:50]

	rePub, err := btcec.ParsePubKey(rePubBytes)
	if err != nil {
		return fmt.Errorf("%w: parsing remote ephemeral key: %v", ErrHandshakeFailed, err)
	}
	hs.remoteEphemeral = rePub
	hs.mixHash(rePubBytes)

	ee := ecdh(hs.localEphemeral, hs.remoteEphemeral)
	hs.mixKey(ee[:])

	plaintext, err := hs.decryptAndHash(tag)
	if err != nil {
		return fmt.Errorf("%w: act two tag: %v", ErrHandshakeFailed, err)
	}
	if len(plaintext) != 0 {
		return fmt.Errorf("%w: act two payload not empty", ErrHandshakeFailed)
	}

	hs.stage = stageActThree
	return nil
}

// GenActThree produces the 66-byte Act Three message and, on success,
// derives the transport cipher states returned by SendCipher/RecvCipher.
func (hs *HandshakeState) GenActThree() ([]byte, error) {
	if hs.stage != stageActThree {
		return nil, ErrProtocolViolation
	}

	sPub := hs.localStatic.PubKey().SerializeCompressed()
	c1, err := hs.encryptAndHash(sPub)
	if err != nil {
		return nil, fmt.Errorf("noise: act three: encrypting static key: %w", err)
	}

	se := ecdh(hs.localStatic, hs.remoteEphemeral)
	hs.mixKey(se[:])

	c2, err := hs.encryptAndHash(nil)
	if err != nil {
		return nil, fmt.Errorf("noise: act three: closing tag: %w", err)
	}

	out := make([]byte, 0, ActThreeLength)
	out = append(out, 0x00)
	out = append(out, c1...)
	out = append(out, c2...)

	sendKey, recvKey := hkdf2(hs.ck[:], nil)
	hs.sendCipher = newCipherState(sendKey, hs.ck)
	hs.recvCipher = newCipherState(recvKey, hs.ck)

	hs.stage = stageComplete
	return out, nil
}

// SendCipher and RecvCipher return the directional transport cipher
// states once the handshake has completed. They return nil before then.
func (hs *HandshakeState) SendCipher() *CipherState { return hs.sendCipher }
func (hs *HandshakeState) RecvCipher() *CipherState { return hs.recvCipher }

// RemoteStaticKey returns the responder's static public key, as known
// upfront for the XK pattern.
func (hs *HandshakeState) RemoteStaticKey() *btcec.PublicKey { return hs.remoteStatic }
