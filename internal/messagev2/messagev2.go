// Package messagev2 implements v2 session-keyed message sealing and
// unsealing: the session's shared key_material seals every message, with
// no per-message ECDH.
package messagev2

import (
	"fmt"

	"xmtpcore/internal/cryptoprim"
	domaintypes "xmtpcore/internal/domain/types"
)

const (
	hmacInfo    = "xmtp/v2/messageHmac"
	hmacKeySize = 32
)

// deriveHMACKey derives the sender-HMAC key from the session's key
// material, kept separate from the AEAD key so compromising one does not
// compromise the other.
func deriveHMACKey(keyMaterial [32]byte) ([]byte, error) {
	key, err := cryptoprim.DeriveKey(keyMaterial[:], nil, []byte(hmacInfo), hmacKeySize)
	if err != nil {
		return nil, fmt.Errorf("messagev2: derive hmac key: %w", err)
	}
	return key, nil
}

// Seal builds and seals a MessageV2 under the session's key material.
func Seal(keyMaterial [32]byte, header domaintypes.MessageHeaderV2, headerBytes []byte, plaintext []byte, shouldPush bool) (domaintypes.MessageV2, error) {
	sealed, err := cryptoprim.Seal(keyMaterial[:], headerBytes, plaintext)
	if err != nil {
		return domaintypes.MessageV2{}, fmt.Errorf("messagev2: seal: %w", err)
	}
	hmacKey, err := deriveHMACKey(keyMaterial)
	if err != nil {
		return domaintypes.MessageV2{}, err
	}
	return domaintypes.MessageV2{
		HeaderBytes: headerBytes,
		Ciphertext: domaintypes.Ciphertext{
			HKDFSalt: sealed.HKDFSalt,
			GCMNonce: sealed.GCMNonce,
			Payload:  sealed.Payload,
		},
		SenderHMAC: cryptoprim.HMACSHA256(hmacKey, headerBytes),
		ShouldPush: shouldPush,
	}, nil
}

// Open verifies msg's sender HMAC and unseals its payload under the
// session's key material. The HMAC check runs before the AEAD open so a
// forged header is rejected without spending a GCM verification.
func Open(keyMaterial [32]byte, msg domaintypes.MessageV2) ([]byte, error) {
	hmacKey, err := deriveHMACKey(keyMaterial)
	if err != nil {
		return nil, err
	}
	if !cryptoprim.VerifyHMACSHA256(hmacKey, msg.HeaderBytes, msg.SenderHMAC) {
		return nil, domaintypes.NewError(domaintypes.KindAuthFailure, "message sender hmac mismatch", nil)
	}
	plaintext, err := cryptoprim.Open(keyMaterial[:], msg.Ciphertext.HKDFSalt, msg.Ciphertext.GCMNonce, msg.HeaderBytes, msg.Ciphertext.Payload)
	if err != nil {
		return nil, domaintypes.ErrAuthFailure
	}
	return plaintext, nil
}
