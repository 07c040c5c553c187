package noise

// rotationInterval is the number of messages a transport key may encrypt
// or decrypt before BOLT #8 requires rotating to a fresh key.
const rotationInterval = 1000

// CipherState is one direction of the post-handshake transport: an AEAD
// key, its associated chaining key (needed to derive the next key on
// rotation), a monotonic nonce, and a count of messages processed since
// the key was last rotated.
type CipherState struct {
	key         [32]byte
	chainingKey [32]byte
	nonce       uint64
	sinceRotate uint64
}

func newCipherState(key, chainingKey [32]byte) *CipherState {
	return &CipherState{key: key, chainingKey: chainingKey}
}

// Encrypt seals plaintext under the current key and nonce, then advances
// state: nonce increments, and every rotationInterval messages the key
// rotates and the nonce resets to zero.
func (c *CipherState) Encrypt(ad, plaintext []byte) ([]byte, error) {
	out, err := aeadEncrypt(c.key, c.nonce, ad, plaintext)
	if err != nil {
		return nil, err
	}
	c.advance()
	return out, nil
}

// Decrypt opens ciphertext under the current key and nonce, then advances
// state identically to Encrypt.
func (c *CipherState) Decrypt(ad, ciphertext []byte) ([]byte, error) {
	out, err := aeadDecrypt(c.key, c.nonce, ad, ciphertext)
	if err != nil {
		return nil, err
	}
	c.advance()
	return out, nil
}

func (c *CipherState) advance() {
	c.nonce++
	c.sinceRotate++
	if c.sinceRotate == rotationInterval {
		c.rotate()
	}
}

func (c *CipherState) rotate() {
	newCK, newKey := hkdf2(c.chainingKey[:], c.key[:])
	c.chainingKey = newCK
	c.key = newKey
	c.nonce = 0
	c.sinceRotate = 0
}

// Nonce reports the current directional nonce; exposed for tests asserting
// the post-rotation reset to zero.
func (c *CipherState) Nonce() uint64 { return c.nonce }
