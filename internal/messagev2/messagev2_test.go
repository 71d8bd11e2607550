package messagev2_test

import (
	"testing"

	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/messagev2"
	"xmtpcore/internal/wireformat"
)

func TestSealOpenRoundTrip(t *testing.T) {
	var keyMaterial [32]byte
	copy(keyMaterial[:], []byte("0123456789abcdef0123456789abcdef"))

	header := domaintypes.MessageHeaderV2{TimestampNS: 1000}
	headerBytes, err := wireformat.SerializeHeaderV2(header)
	if err != nil {
		t.Fatalf("SerializeHeaderV2: %v", err)
	}

	msg, err := messagev2.Seal(keyMaterial, header, headerBytes, []byte("hi"), false)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	plaintext, err := messagev2.Open(keyMaterial, msg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(plaintext) != "hi" {
		t.Fatalf("got %q want %q", plaintext, "hi")
	}
}

func TestOpenRejectsTamperedHMAC(t *testing.T) {
	var keyMaterial [32]byte
	copy(keyMaterial[:], []byte("0123456789abcdef0123456789abcdef"))
	header := domaintypes.MessageHeaderV2{TimestampNS: 1000}
	headerBytes, err := wireformat.SerializeHeaderV2(header)
	if err != nil {
		t.Fatalf("SerializeHeaderV2: %v", err)
	}
	msg, err := messagev2.Seal(keyMaterial, header, headerBytes, []byte("hi"), false)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	msg.SenderHMAC[0] ^= 0xFF

	if _, err := messagev2.Open(keyMaterial, msg); err == nil {
		t.Fatal("Open accepted a tampered sender hmac")
	}
}

func TestOpenRejectsWrongKeyMaterial(t *testing.T) {
	var keyMaterial, wrong [32]byte
	copy(keyMaterial[:], []byte("0123456789abcdef0123456789abcdef"))
	copy(wrong[:], []byte("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"))
	header := domaintypes.MessageHeaderV2{TimestampNS: 1000}
	headerBytes, err := wireformat.SerializeHeaderV2(header)
	if err != nil {
		t.Fatalf("SerializeHeaderV2: %v", err)
	}
	msg, err := messagev2.Seal(keyMaterial, header, headerBytes, []byte("hi"), false)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := messagev2.Open(wrong, msg); err == nil {
		t.Fatal("Open accepted the wrong key material")
	}
}
