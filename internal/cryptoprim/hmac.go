package cryptoprim

import (
	"crypto/hmac"
	"crypto/sha256"
)

// HMACSHA256 computes HMAC-SHA256(key, data), used both for the sender-HMAC
// carried on v2 session messages and for deterministic invitation topic
// derivation.
func HMACSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// VerifyHMACSHA256 reports whether mac is the HMAC-SHA256 of data under
// key, in constant time.
func VerifyHMACSHA256(key, data, mac []byte) bool {
	return hmac.Equal(HMACSHA256(key, data), mac)
}
