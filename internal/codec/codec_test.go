package codec_test

import (
	"testing"

	"xmtpcore/internal/codec"
)

func TestTextCodecRoundTrip(t *testing.T) {
	r := codec.NewRegistry()
	encoded, err := r.Encode(codec.TextContentType, "hello")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := r.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != "hello" {
		t.Fatalf("got %v want %q", decoded, "hello")
	}
}

func TestLookupUnregisteredContentTypeFails(t *testing.T) {
	r := codec.NewRegistry()
	unknown := codec.TextContentType
	unknown.TypeID = "does-not-exist"
	if _, err := r.Lookup(unknown); err == nil {
		t.Fatal("Lookup succeeded for an unregistered content type")
	}
}
