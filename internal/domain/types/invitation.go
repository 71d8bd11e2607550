package types

// InvitationContext identifies a conversation within a wallet-address pair
// and carries arbitrary caller metadata (e.g. an application name).
type InvitationContext struct {
	ConversationID string            `json:"conversation_id,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// InvitationV1 is the shared secret and topic for a v2 session, produced
// either deterministically from two bundles plus a context, or explicitly at
// random.
type InvitationV1 struct {
	Topic       string            `json:"topic"`
	Context     InvitationContext `json:"context"`
	KeyMaterial [32]byte          `json:"key_material"`
}

// SealedInvitationHeaderV1 is authenticated as AAD over the sealed
// invitation payload.
type SealedInvitationHeaderV1 struct {
	Sender    PublicKeyBundleV2 `json:"sender"`
	Recipient PublicKeyBundleV2 `json:"recipient"`
	CreatedNS uint64            `json:"created_ns"`
}

// SealedInvitationV1 is the wire form an invitation takes when published on
// an invite channel.
type SealedInvitationV1 struct {
	HeaderBytes []byte     `json:"header_bytes"`
	Ciphertext  Ciphertext `json:"ciphertext"`
}
