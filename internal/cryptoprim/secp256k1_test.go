package cryptoprim_test

import (
	"bytes"
	"testing"

	"xmtpcore/internal/cryptoprim"
)

func TestECDHAgreesBothDirections(t *testing.T) {
	aPriv, aPub, err := cryptoprim.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	bPriv, bPub, err := cryptoprim.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	ab, err := cryptoprim.ECDH(aPriv, bPub)
	if err != nil {
		t.Fatalf("ECDH(a,b): %v", err)
	}
	ba, err := cryptoprim.ECDH(bPriv, aPub)
	if err != nil {
		t.Fatalf("ECDH(b,a): %v", err)
	}
	if !bytes.Equal(ab, ba) {
		t.Fatal("ECDH shared secrets disagree between peers")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, pub, err := cryptoprim.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msg := cryptoprim.HMACSHA256([]byte("k"), []byte("message to sign"))
	sig := cryptoprim.Sign(priv, msg)
	if !cryptoprim.Verify(pub, msg, sig) {
		t.Fatal("Verify rejected a signature it produced itself")
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	priv, pub, err := cryptoprim.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msg := cryptoprim.HMACSHA256([]byte("k"), []byte("message"))
	sig := cryptoprim.Sign(priv, msg)
	sig[0] ^= 0xFF
	if cryptoprim.Verify(pub, msg, sig) {
		t.Fatal("Verify accepted a tampered signature")
	}
}
