package wireformat

import (
	"encoding/json"
	"fmt"

	domaintypes "xmtpcore/internal/domain/types"
)

// SerializeHeaderV1 produces the deterministic byte form of a MessageV1
// header, used verbatim both as the wire HeaderBytes and as AEAD associated
// data. JSON field order is fixed by struct field order, so the same header
// value always serializes identically.
func SerializeHeaderV1(h domaintypes.MessageHeaderV1) ([]byte, error) {
	b, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("wireformat: serialize message header v1: %w", err)
	}
	return b, nil
}

// ParseHeaderV1 inverts SerializeHeaderV1.
func ParseHeaderV1(b []byte) (domaintypes.MessageHeaderV1, error) {
	var h domaintypes.MessageHeaderV1
	if err := json.Unmarshal(b, &h); err != nil {
		return domaintypes.MessageHeaderV1{}, fmt.Errorf("wireformat: parse message header v1: %w", err)
	}
	return h, nil
}

// SerializeHeaderV2 is the MessageV2 analogue of SerializeHeaderV1.
func SerializeHeaderV2(h domaintypes.MessageHeaderV2) ([]byte, error) {
	b, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("wireformat: serialize message header v2: %w", err)
	}
	return b, nil
}

// ParseHeaderV2 inverts SerializeHeaderV2.
func ParseHeaderV2(b []byte) (domaintypes.MessageHeaderV2, error) {
	var h domaintypes.MessageHeaderV2
	if err := json.Unmarshal(b, &h); err != nil {
		return domaintypes.MessageHeaderV2{}, fmt.Errorf("wireformat: parse message header v2: %w", err)
	}
	return h, nil
}

// SerializeSealedInvitationHeaderV1 is the invitation-header analogue.
func SerializeSealedInvitationHeaderV1(h domaintypes.SealedInvitationHeaderV1) ([]byte, error) {
	b, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("wireformat: serialize invitation header: %w", err)
	}
	return b, nil
}

// ParseSealedInvitationHeaderV1 inverts SerializeSealedInvitationHeaderV1.
func ParseSealedInvitationHeaderV1(b []byte) (domaintypes.SealedInvitationHeaderV1, error) {
	var h domaintypes.SealedInvitationHeaderV1
	if err := json.Unmarshal(b, &h); err != nil {
		return domaintypes.SealedInvitationHeaderV1{}, fmt.Errorf("wireformat: parse invitation header: %w", err)
	}
	return h, nil
}

// SerializeInvitation serializes an InvitationV1 for sealing as the
// invitation payload.
func SerializeInvitation(inv domaintypes.InvitationV1) ([]byte, error) {
	b, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("wireformat: serialize invitation: %w", err)
	}
	return b, nil
}

// ParseInvitation inverts SerializeInvitation.
func ParseInvitation(b []byte) (domaintypes.InvitationV1, error) {
	var inv domaintypes.InvitationV1
	if err := json.Unmarshal(b, &inv); err != nil {
		return domaintypes.InvitationV1{}, fmt.Errorf("wireformat: parse invitation: %w", err)
	}
	return inv, nil
}
