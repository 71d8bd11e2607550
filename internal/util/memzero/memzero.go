package memzero

import "crypto/subtle"

// Zero overwrites b with zeros in a constant-time friendly way. Used to wipe
// a decrypted private key bundle's plaintext bytes from memory once they've
// been parsed into typed keys, and the serialized plaintext right after it's
// been sealed to disk.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}
