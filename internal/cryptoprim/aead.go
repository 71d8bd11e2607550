// Package cryptoprim collects the low-level cryptographic building blocks
// shared by the message, invitation, and identity packages: key agreement,
// key derivation, and the AEAD construction every sealed payload uses. It
// mirrors the x3dh/ratchet packages' division of labor — small, directly
// testable functions rather than a layered protocol state machine, since the
// session layer here needs no forward-ratcheting state.
package cryptoprim

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	aeadKeySize  = 32
	gcmNonceSize = 12
	hkdfSaltSize = 32
)

// SealedPayload is the HKDF salt, GCM nonce, and ciphertext produced by
// Seal. The caller embeds these into the wire Ciphertext type; cryptoprim
// itself never touches the wire format.
type SealedPayload struct {
	HKDFSalt [hkdfSaltSize]byte
	GCMNonce [gcmNonceSize]byte
	Payload  []byte
}

// Seal derives a fresh per-message key from secret via HKDF-SHA256 under a
// random salt and an empty info, then seals plaintext with AES-256-GCM using
// aad as associated data. A new salt and nonce are generated on every call
// so that reusing secret across many messages never reuses a derived AEAD
// key. info is fixed empty so the derived key matches what any other
// implementation of this wire protocol computes from the same secret and
// salt; domain separation between message kinds comes from aad, not info.
func Seal(secret, aad, plaintext []byte) (SealedPayload, error) {
	var out SealedPayload
	if _, err := rand.Read(out.HKDFSalt[:]); err != nil {
		return SealedPayload{}, fmt.Errorf("cryptoprim: generate hkdf salt: %w", err)
	}
	if _, err := rand.Read(out.GCMNonce[:]); err != nil {
		return SealedPayload{}, fmt.Errorf("cryptoprim: generate gcm nonce: %w", err)
	}

	key, err := DeriveKey(secret, out.HKDFSalt[:], nil, aeadKeySize)
	if err != nil {
		return SealedPayload{}, err
	}
	aead, err := newGCM(key)
	if err != nil {
		return SealedPayload{}, err
	}
	out.Payload = aead.Seal(nil, out.GCMNonce[:], plaintext, aad)
	return out, nil
}

// Open recomputes the per-message key from secret and salt with the same
// fixed empty info Seal uses, then verifies and decrypts payload against
// aad. A mismatched aad, a tampered payload, or a wrong secret all surface
// as the same opaque error: openers cannot distinguish forgery from a wrong
// key.
func Open(secret []byte, salt [hkdfSaltSize]byte, nonce [gcmNonceSize]byte, aad, payload []byte) ([]byte, error) {
	key, err := DeriveKey(secret, salt[:], nil, aeadKeySize)
	if err != nil {
		return nil, err
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, nonce[:], payload, aad)
	if err != nil {
		return nil, fmt.Errorf("cryptoprim: open sealed payload: %w", err)
	}
	return pt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoprim: aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptoprim: gcm mode: %w", err)
	}
	return aead, nil
}

// DeriveKey runs HKDF-SHA256 over secret with the given salt and info,
// returning outLen bytes of output key material.
func DeriveKey(secret, salt, info []byte, outLen int) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, salt, info)
	out := make([]byte, outLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("cryptoprim: hkdf expand: %w", err)
	}
	return out, nil
}
