package cryptoprim_test

import (
	"bytes"
	"testing"

	"xmtpcore/internal/cryptoprim"
)

func TestSealOpenRoundTrip(t *testing.T) {
	secret := []byte("shared secret material from ecdh")
	aad := []byte("header bytes")
	plaintext := []byte("hello from alice")

	sealed, err := cryptoprim.Seal(secret, aad, plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	got, err := cryptoprim.Open(secret, sealed.HKDFSalt, sealed.GCMNonce, aad, sealed.Payload)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("roundtrip mismatch: got %q want %q", got, plaintext)
	}
}

func TestOpenRejectsTamperedPayload(t *testing.T) {
	secret := []byte("shared secret")
	aad := []byte("aad")
	sealed, err := cryptoprim.Seal(secret, aad, []byte("plaintext"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	tampered := append([]byte(nil), sealed.Payload...)
	tampered[0] ^= 0xFF

	if _, err := cryptoprim.Open(secret, sealed.HKDFSalt, sealed.GCMNonce, aad, tampered); err == nil {
		t.Fatal("Open accepted a tampered payload")
	}
}

func TestOpenRejectsMismatchedAAD(t *testing.T) {
	secret := []byte("shared secret")
	sealed, err := cryptoprim.Seal(secret, []byte("correct aad"), []byte("plaintext"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := cryptoprim.Open(secret, sealed.HKDFSalt, sealed.GCMNonce, []byte("wrong aad"), sealed.Payload); err == nil {
		t.Fatal("Open accepted a mismatched AAD")
	}
}

func TestOpenRejectsWrongSecret(t *testing.T) {
	aad := []byte("aad")
	sealed, err := cryptoprim.Seal([]byte("secret a"), aad, []byte("plaintext"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := cryptoprim.Open([]byte("secret b"), sealed.HKDFSalt, sealed.GCMNonce, aad, sealed.Payload); err == nil {
		t.Fatal("Open accepted the wrong secret")
	}
}

func TestSealUsesFreshSaltAndNonceEachCall(t *testing.T) {
	secret := []byte("shared secret")
	aad := []byte("aad")

	a, err := cryptoprim.Seal(secret, aad, []byte("same plaintext"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	b, err := cryptoprim.Seal(secret, aad, []byte("same plaintext"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if a.HKDFSalt == b.HKDFSalt {
		t.Fatal("two seals reused the same HKDF salt")
	}
	if a.GCMNonce == b.GCMNonce {
		t.Fatal("two seals reused the same GCM nonce")
	}
	if bytes.Equal(a.Payload, b.Payload) {
		t.Fatal("two seals of identical plaintext produced identical ciphertext")
	}
}
