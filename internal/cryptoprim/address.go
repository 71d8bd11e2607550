package cryptoprim

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// AddressFromPublicKey derives the 20-byte wallet address bound to an
// uncompressed secp256k1 public key: Keccak-256 over the 64-byte X||Y
// portion (the leading 0x04 prefix byte is dropped), keeping the low 20
// bytes.
func AddressFromPublicKey(pub [PublicKeySize]byte) [20]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(pub[1:])
	sum := h.Sum(nil)
	var addr [20]byte
	copy(addr[:], sum[len(sum)-20:])
	return addr
}

// ChecksumAddress renders addr in mixed-case checksummed hex: each hex
// digit is uppercased when the corresponding nibble of the Keccak-256 hash
// of the lowercase hex string is 8 or greater.
func ChecksumAddress(addr [20]byte) string {
	lower := hex.EncodeToString(addr[:])
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	hashed := h.Sum(nil)

	out := make([]byte, len(lower))
	for i, c := range []byte(lower) {
		nibble := hashed[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if c >= 'a' && c <= 'f' && nibble >= 8 {
			out[i] = c - ('a' - 'A')
		} else {
			out[i] = c
		}
	}
	return "0x" + string(out)
}

// VerifyChecksumAddress reports whether s, interpreted as a checksummed
// address, is internally consistent. All-lowercase and all-uppercase
// inputs are accepted as unchecksummed per EIP-55 convention.
func VerifyChecksumAddress(s string) (bool, error) {
	raw := s
	if len(raw) >= 2 && raw[0] == '0' && (raw[1] == 'x' || raw[1] == 'X') {
		raw = raw[2:]
	}
	if len(raw) != 40 {
		return false, fmt.Errorf("cryptoprim: want 40 hex chars, got %d", len(raw))
	}
	allLower, allUpper := true, true
	for _, c := range raw {
		if c >= 'A' && c <= 'F' {
			allLower = false
		}
		if c >= 'a' && c <= 'f' {
			allUpper = false
		}
	}
	if allLower || allUpper {
		return true, nil
	}
	b, err := hex.DecodeString(lowerHex(raw))
	if err != nil {
		return false, fmt.Errorf("cryptoprim: %w", err)
	}
	var addr [20]byte
	copy(addr[:], b)
	return ChecksumAddress(addr) == "0x"+raw, nil
}

func lowerHex(s string) string {
	out := make([]byte, len(s))
	for i, c := range []byte(s) {
		if c >= 'A' && c <= 'F' {
			out[i] = c + ('a' - 'A')
		} else {
			out[i] = c
		}
	}
	return string(out)
}
