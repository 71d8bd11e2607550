package messagev1_test

import (
	"testing"

	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/identity"
	"xmtpcore/internal/messagev1"
)

func makeParticipant(t *testing.T) domaintypes.PrivateKeyBundle {
	t.Helper()
	signer, err := identity.NewLocalWalletSigner()
	if err != nil {
		t.Fatalf("NewLocalWalletSigner: %v", err)
	}
	priv, _, err := identity.CreatePrivateKeyBundle(signer)
	if err != nil {
		t.Fatalf("CreatePrivateKeyBundle: %v", err)
	}
	return priv
}

func TestSealOpenRoundTrip(t *testing.T) {
	alice := makeParticipant(t)
	bob := makeParticipant(t)

	msg, err := messagev1.Seal(alice, bob.ToBundleV1(), []byte("hello"), 1000)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	_, plaintext, err := messagev1.Open(bob, msg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(plaintext) != "hello" {
		t.Fatalf("got %q want %q", plaintext, "hello")
	}
}

func TestOpenRejectsWrongRecipient(t *testing.T) {
	alice := makeParticipant(t)
	bob := makeParticipant(t)
	eve := makeParticipant(t)

	msg, err := messagev1.Seal(alice, bob.ToBundleV1(), []byte("hello"), 1000)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, _, err := messagev1.Open(eve, msg); err == nil {
		t.Fatal("Open succeeded for a message not addressed to the opener")
	}
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	alice := makeParticipant(t)
	bob := makeParticipant(t)

	msg, err := messagev1.Seal(alice, bob.ToBundleV1(), []byte("hello"), 1000)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	msg.Ciphertext.Payload[0] ^= 0xFF

	if _, _, err := messagev1.Open(bob, msg); err == nil {
		t.Fatal("Open accepted a tampered ciphertext")
	}
}
