// Package messagev1 implements the v1 direct-addressed message sealing and
// unsealing: per-message ECDH from the three combined identity/pre-key
// Diffie-Hellman products, no stored session secret.
package messagev1

import (
	"fmt"

	"xmtpcore/internal/cryptoprim"
	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/identity"
	"xmtpcore/internal/wireformat"
)

// combinedSecretAsSender concatenates the four-way ECDH products in the
// order ECDH(S.identity, R.pre-key) || ECDH(S.pre-key, R.identity) ||
// ECDH(S.pre-key, R.pre-key), the canonical slot order both sides must
// agree on.
func combinedSecretAsSender(
	senderIdentityPriv domaintypes.IdentityPrivateKey, senderPreKeyPriv domaintypes.PreKeyPrivate,
	peerIdentityPub domaintypes.IdentityPublicKey, peerPreKeyPub domaintypes.PreKeyPublic,
) ([]byte, error) {
	dh1, err := cryptoprim.ECDH([32]byte(senderIdentityPriv), [65]byte(peerPreKeyPub))
	if err != nil {
		return nil, fmt.Errorf("messagev1: ecdh(identity,peer pre-key): %w", err)
	}
	dh2, err := cryptoprim.ECDH([32]byte(senderPreKeyPriv), [65]byte(peerIdentityPub))
	if err != nil {
		return nil, fmt.Errorf("messagev1: ecdh(pre-key,peer identity): %w", err)
	}
	dh3, err := cryptoprim.ECDH([32]byte(senderPreKeyPriv), [65]byte(peerPreKeyPub))
	if err != nil {
		return nil, fmt.Errorf("messagev1: ecdh(pre-key,peer pre-key): %w", err)
	}
	return concat3(dh1, dh2, dh3), nil
}

// combinedSecretAsRecipient computes the same three ECDH products as
// combinedSecretAsSender but from the recipient's side of each pair
// (ECDH is commutative, so each product's value matches; only the local
// private/public halves used to compute it differ), landing them in the
// same slot order so the concatenation is bitwise identical to the
// sender's.
func combinedSecretAsRecipient(
	recipientIdentityPriv domaintypes.IdentityPrivateKey, recipientPreKeyPriv domaintypes.PreKeyPrivate,
	senderIdentityPub domaintypes.IdentityPublicKey, senderPreKeyPub domaintypes.PreKeyPublic,
) ([]byte, error) {
	dh1, err := cryptoprim.ECDH([32]byte(recipientPreKeyPriv), [65]byte(senderIdentityPub))
	if err != nil {
		return nil, fmt.Errorf("messagev1: ecdh(pre-key,peer identity): %w", err)
	}
	dh2, err := cryptoprim.ECDH([32]byte(recipientIdentityPriv), [65]byte(senderPreKeyPub))
	if err != nil {
		return nil, fmt.Errorf("messagev1: ecdh(identity,peer pre-key): %w", err)
	}
	dh3, err := cryptoprim.ECDH([32]byte(recipientPreKeyPriv), [65]byte(senderPreKeyPub))
	if err != nil {
		return nil, fmt.Errorf("messagev1: ecdh(pre-key,peer pre-key): %w", err)
	}
	return concat3(dh1, dh2, dh3), nil
}

func concat3(a, b, c []byte) []byte {
	out := make([]byte, 0, len(a)+len(b)+len(c))
	out = append(out, a...)
	out = append(out, b...)
	out = append(out, c...)
	return out
}

// Seal builds and seals a MessageV1 from the sender's private bundle to
// the recipient's public bundle.
func Seal(senderPriv domaintypes.PrivateKeyBundle, recipientPub domaintypes.PublicKeyBundleV1, plaintext []byte, timestampNS uint64) (domaintypes.MessageV1, error) {
	header := domaintypes.MessageHeaderV1{
		Sender:      senderPriv.ToBundleV1(),
		Recipient:   recipientPub,
		TimestampNS: timestampNS,
	}
	headerBytes, err := wireformat.SerializeHeaderV1(header)
	if err != nil {
		return domaintypes.MessageV1{}, err
	}

	secret, err := combinedSecretAsSender(senderPriv.IdentityPrivate, senderPriv.PreKeyPrivate, recipientPub.IdentityKey, recipientPub.PreKey)
	if err != nil {
		return domaintypes.MessageV1{}, err
	}
	sealed, err := cryptoprim.Seal(secret, headerBytes, plaintext)
	if err != nil {
		return domaintypes.MessageV1{}, fmt.Errorf("messagev1: seal: %w", err)
	}
	return domaintypes.MessageV1{
		HeaderBytes: headerBytes,
		Ciphertext: domaintypes.Ciphertext{
			HKDFSalt: sealed.HKDFSalt,
			GCMNonce: sealed.GCMNonce,
			Payload:  sealed.Payload,
		},
	}, nil
}

// Open unseals a MessageV1 addressed to the local participant, using the
// header's claimed sender/recipient bundles to recompute the combined
// secret. It rejects messages whose header sender is not wallet-bound, or
// whose header recipient does not match the local participant.
func Open(recipientPriv domaintypes.PrivateKeyBundle, msg domaintypes.MessageV1) (domaintypes.MessageHeaderV1, []byte, error) {
	header, err := wireformat.ParseHeaderV1(msg.HeaderBytes)
	if err != nil {
		return domaintypes.MessageHeaderV1{}, nil, err
	}

	if err := identity.VerifyBundleV1(header.Sender); err != nil {
		return domaintypes.MessageHeaderV1{}, nil, domaintypes.NewError(domaintypes.KindAuthFailure, "message sender bundle failed verification", err)
	}
	if header.Recipient.WalletAddress != recipientPriv.WalletAddress {
		return domaintypes.MessageHeaderV1{}, nil, domaintypes.NewError(domaintypes.KindAuthFailure, "message recipient is not the local participant", nil)
	}

	secret, err := combinedSecretAsRecipient(recipientPriv.IdentityPrivate, recipientPriv.PreKeyPrivate, header.Sender.IdentityKey, header.Sender.PreKey)
	if err != nil {
		return domaintypes.MessageHeaderV1{}, nil, err
	}
	plaintext, err := cryptoprim.Open(secret, msg.Ciphertext.HKDFSalt, msg.Ciphertext.GCMNonce, msg.HeaderBytes, msg.Ciphertext.Payload)
	if err != nil {
		return domaintypes.MessageHeaderV1{}, nil, domaintypes.ErrAuthFailure
	}
	return header, plaintext, nil
}
