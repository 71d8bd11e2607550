package types

// MessageHeaderV2 authenticates the sender and optional parent message for a
// v2 session message; it is serialized and used verbatim as AEAD associated
// data, and is what SenderHMAC is computed over.
type MessageHeaderV2 struct {
	Sender          PublicKeyBundleV2 `json:"sender"`
	ParentMessageID string            `json:"parent_message_id,omitempty"`
	TimestampNS     uint64            `json:"timestamp_ns"`
}

// MessageV2 is a session-keyed sealed message.
type MessageV2 struct {
	HeaderBytes []byte     `json:"header_bytes"`
	Ciphertext  Ciphertext `json:"ciphertext"`
	SenderHMAC  []byte     `json:"sender_hmac"`
	ShouldPush  bool       `json:"should_push"`
}
