package cryptoprim

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// KeySize is the length of a raw secp256k1 scalar.
const KeySize = 32

// PublicKeySize is the length of an uncompressed SEC1 public key
// (0x04 || X || Y).
const PublicKeySize = 65

// GenerateKeyPair produces a fresh secp256k1 private key and its
// uncompressed public key encoding.
func GenerateKeyPair() (priv [KeySize]byte, pub [PublicKeySize]byte, err error) {
	sk, err := btcec.NewPrivateKey()
	if err != nil {
		return priv, pub, fmt.Errorf("cryptoprim: generate secp256k1 key: %w", err)
	}
	copy(priv[:], sk.Serialize())
	copy(pub[:], sk.PubKey().SerializeUncompressed())
	return priv, pub, nil
}

// ECDH computes the X-coordinate of priv*pub, the raw Diffie-Hellman shared
// secret used as HKDF input key material. It is not itself safe to use as a
// key; callers pass the result to Seal/Open (HKDF with an empty info) or to
// DeriveKey, never use it as a key directly.
func ECDH(priv [KeySize]byte, pub [PublicKeySize]byte) ([]byte, error) {
	sk := secpPrivKey(priv)
	pk, err := btcec.ParsePubKey(pub[:])
	if err != nil {
		return nil, fmt.Errorf("cryptoprim: parse public key: %w", err)
	}
	var result btcec.JacobianPoint
	pk.AsJacobian(&result)
	btcec.ScalarMultNonConst(&sk.Key, &result, &result)
	result.ToAffine()
	x := result.X.Bytes()
	return x[:], nil
}

func secpPrivKey(priv [KeySize]byte) *btcec.PrivateKey {
	sk, _ := btcec.PrivKeyFromBytes(priv[:])
	return sk
}

// Sign produces a 64-byte (R || S) ECDSA signature over sha256(message)
// using priv. The message is hashed to a fixed 32-byte digest before
// signing; ecdsa.SignCompact does not hash its input itself, and passing it
// unhashed would silently truncate anything longer than the curve's order
// (32 bytes) rather than error, leaving the tail unauthenticated.
func Sign(priv [KeySize]byte, message []byte) []byte {
	digest := sha256.Sum256(message)
	sk := secpPrivKey(priv)
	sig := ecdsa.SignCompact(sk, digest[:], false)
	// SignCompact prepends a 1-byte recovery header; drop it for the plain
	// (R || S) form used by pre-key signatures.
	return sig[1:]
}

// Verify checks a 64-byte (R || S) signature over sha256(message) against
// pub.
func Verify(pub [PublicKeySize]byte, message, sig []byte) bool {
	if len(sig) != 64 {
		return false
	}
	pk, err := btcec.ParsePubKey(pub[:])
	if err != nil {
		return false
	}
	digest := sha256.Sum256(message)
	r := new(btcec.ModNScalar)
	r.SetByteSlice(sig[:32])
	s := new(btcec.ModNScalar)
	s.SetByteSlice(sig[32:])
	signature := ecdsa.NewSignature(r, s)
	return signature.Verify(digest[:], pk)
}

// RecoverableSignatureSize is the length of a wallet signature: 32-byte R,
// 32-byte S, and a 1-byte recovery id.
const RecoverableSignatureSize = 65

// SignRecoverable produces a 65-byte (R || S || V) signature over
// sha256(message) from which the signer's public key can be recovered
// without it being supplied separately — the shape an external wallet
// signer produces when binding a wallet address to an identity key.
func SignRecoverable(priv [KeySize]byte, message []byte) ([RecoverableSignatureSize]byte, error) {
	digest := sha256.Sum256(message)
	sk := secpPrivKey(priv)
	compact := ecdsa.SignCompact(sk, digest[:], false)
	if len(compact) != RecoverableSignatureSize {
		return [RecoverableSignatureSize]byte{}, fmt.Errorf("cryptoprim: unexpected compact signature length %d", len(compact))
	}
	// SignCompact lays out [recovery-header, R, S]; recovery-header is
	// recoveryID+27 (or +31 for compressed keys, never used here).
	var out [RecoverableSignatureSize]byte
	copy(out[:64], compact[1:])
	out[64] = compact[0] - 27
	return out, nil
}

// RecoverPublicKey recovers the uncompressed public key that produced sig
// over sha256(message).
func RecoverPublicKey(sig [RecoverableSignatureSize]byte, message []byte) ([PublicKeySize]byte, error) {
	var compact [RecoverableSignatureSize]byte
	compact[0] = sig[64] + 27
	copy(compact[1:], sig[:64])

	digest := sha256.Sum256(message)
	pk, _, err := ecdsa.RecoverCompact(compact[:], digest[:])
	if err != nil {
		return [PublicKeySize]byte{}, fmt.Errorf("cryptoprim: recover public key: %w", err)
	}
	var out [PublicKeySize]byte
	copy(out[:], pk.SerializeUncompressed())
	return out, nil
}
