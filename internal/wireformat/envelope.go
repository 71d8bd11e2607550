package wireformat

import (
	"encoding/json"
	"fmt"

	domaintypes "xmtpcore/internal/domain/types"
)

// MarshalMessageV1 serializes a MessageV1 into the bytes carried as an
// Envelope's Message field.
func MarshalMessageV1(m domaintypes.MessageV1) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("wireformat: marshal message v1: %w", err)
	}
	return b, nil
}

// UnmarshalMessageV1 inverts MarshalMessageV1.
func UnmarshalMessageV1(b []byte) (domaintypes.MessageV1, error) {
	var m domaintypes.MessageV1
	if err := json.Unmarshal(b, &m); err != nil {
		return domaintypes.MessageV1{}, fmt.Errorf("wireformat: unmarshal message v1: %w", err)
	}
	return m, nil
}

// MarshalMessageV2 serializes a MessageV2 into envelope bytes.
func MarshalMessageV2(m domaintypes.MessageV2) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("wireformat: marshal message v2: %w", err)
	}
	return b, nil
}

// UnmarshalMessageV2 inverts MarshalMessageV2.
func UnmarshalMessageV2(b []byte) (domaintypes.MessageV2, error) {
	var m domaintypes.MessageV2
	if err := json.Unmarshal(b, &m); err != nil {
		return domaintypes.MessageV2{}, fmt.Errorf("wireformat: unmarshal message v2: %w", err)
	}
	return m, nil
}

// MarshalSealedInvitation serializes a SealedInvitationV1 into envelope
// bytes published on an invite channel.
func MarshalSealedInvitation(s domaintypes.SealedInvitationV1) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("wireformat: marshal sealed invitation: %w", err)
	}
	return b, nil
}

// UnmarshalSealedInvitation inverts MarshalSealedInvitation.
func UnmarshalSealedInvitation(b []byte) (domaintypes.SealedInvitationV1, error) {
	var s domaintypes.SealedInvitationV1
	if err := json.Unmarshal(b, &s); err != nil {
		return domaintypes.SealedInvitationV1{}, fmt.Errorf("wireformat: unmarshal sealed invitation: %w", err)
	}
	return s, nil
}
