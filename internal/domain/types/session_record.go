package types

// SessionRecord is the persisted form of a session used for import/export
// across process restarts. The presence of Invitation distinguishes v2 from
// v1.
type SessionRecord struct {
	PeerAddress WalletAddress       `json:"peer_address"`
	CreatedNS   uint64              `json:"created_ns"`
	Invitation  *SealedInvitationV1 `json:"invitation,omitempty"`
}

// IsV2 reports whether the record describes a v2 (invitation-based) session.
func (r SessionRecord) IsV2() bool { return r.Invitation != nil }

// DecodedMessage is what ConversationV1/V2.Messages returns after unsealing
// and decoding through a content codec.
type DecodedMessage struct {
	SenderAddress WalletAddress `json:"sender_address"`
	TimestampNS   uint64        `json:"timestamp_ns"`
	Topic         string        `json:"topic"`
	Content       any           `json:"content"`
	ContentType   ContentTypeID `json:"content_type"`
}
