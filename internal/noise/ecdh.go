package noise

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
)

// ecdh computes the Noise_XK shared secret for a keypair: the scalar
// multiplication of pub by priv, serialized as a compressed point and
// hashed with SHA-256. This is the same construction lnd's brontide transport uses
// for its secp256k1 ECDH primitive.
func ecdh(priv *btcec.PrivateKey, pub *btcec.PublicKey) [32]byte {
	var pubJacobian btcec.JacobianPoint
	pub.AsJacobian(&pubJacobian)

	var result btcec.JacobianPoint
	btcec.ScalarMultNonConst(&priv.Key, &pubJacobian, &result)
	result.ToAffine()

	sharedPub := btcec.NewPublicKey(&result.X, &result.Y)
	return sha256.Sum256(sharedPub.SerializeCompressed())
}
