package noise

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// protocolName and prologue fix the initial hash per BOLT #8.
const (
	protocolName = "Noise_XK_secp256k1_ChaChaPoly_SHA256"
	prologue     = "lightning"
)

// symmetricState carries the handshake's chaining key, current symmetric
// key, rolling hash and nonce, per the Noise protocol's
// SymmetricState with BOLT #8's concrete SHA-256/ChaCha20-Poly1305
// primitives.
type symmetricState struct {
	ck [32]byte
	k  [32]byte
	h  [32]byte
	n  uint64
}

func newSymmetricState(rs []byte) symmetricState {
	s := symmetricState{}
	s.h = sha256.Sum256([]byte(protocolName))
	s.h = sha256.Sum256(append(s.h[:], []byte(prologue)...))
	s.h = sha256.Sum256(append(s.h[:], rs...))
	s.ck = s.h
	return s
}

func (s *symmetricState) mixHash(data []byte) {
	s.h = sha256.Sum256(append(append([]byte{}, s.h[:]...), data...))
}

// mixKey runs the handshake's two-output HKDF step, rotating the chaining
// key and replacing the current symmetric key; the nonce always resets to
// zero on a mixKey (each act uses at most one symmetric key per role).
func (s *symmetricState) mixKey(ikm []byte) {
	t1, t2 := hkdf2(s.ck[:], ikm)
	s.ck = t1
	s.k = t2
	s.n = 0
}

func (s *symmetricState) encryptAndHash(plaintext []byte) ([]byte, error) {
	c, err := aeadEncrypt(s.k, s.n, s.h[:], plaintext)
	if err != nil {
		return nil, err
	}
	s.n++
	s.mixHash(c)
	return c, nil
}

func (s *symmetricState) decryptAndHash(ciphertext []byte) ([]byte, error) {
	p, err := aeadDecrypt(s.k, s.n, s.h[:], ciphertext)
	if err != nil {
		return nil, err
	}
	s.n++
	s.mixHash(ciphertext)
	return p, nil
}

// hkdf2 is HKDF-SHA256 with the given salt and input keying material,
// producing two independent 32-byte outputs as required by every
// key-mixing step in BOLT #8.
func hkdf2(salt, ikm []byte) (t1, t2 [32]byte) {
	r := hkdf.New(sha256.New, ikm, salt, nil)
	if _, err := io.ReadFull(r, t1[:]); err != nil {
		panic(err) // hkdf.Reader over sha256 never runs out for 64 bytes
	}
	if _, err := io.ReadFull(r, t2[:]); err != nil {
		panic(err)
	}
	return t1, t2
}

func nonceBytes(n uint64) [12]byte {
	var nonce [12]byte
	binary.LittleEndian.PutUint64(nonce[4:], n)
	return nonce
}

func aeadEncrypt(key [32]byte, n uint64, ad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	nonce := nonceBytes(n)
	return aead.Seal(nil, nonce[:], plaintext, ad), nil
}

func aeadDecrypt(key [32]byte, n uint64, ad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	nonce := nonceBytes(n)
	pt, err := aead.Open(nil, nonce[:], ciphertext, ad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return pt, nil
}
