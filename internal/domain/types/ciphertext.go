package types

// Ciphertext is the wire form of an AES-256-GCM payload sealed under an
// HKDF-SHA256-derived key: a fresh HKDF salt and GCM nonce accompany every
// sealed payload so that a reused session secret never reuses a derived
// AEAD key.
type Ciphertext struct {
	HKDFSalt [32]byte `json:"hkdf_salt"`
	GCMNonce [12]byte `json:"gcm_nonce"`
	Payload  []byte   `json:"payload"`
}
