// Package invitation builds and seals the v2 session bootstrap: either a
// deterministic invitation both peers can derive independently, or an
// explicit one generated at random.
package invitation

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"xmtpcore/internal/cryptoprim"
	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/identity"
	"xmtpcore/internal/wireformat"
)

const (
	keyMaterialInfoStr  = "xmtp/v2/keyMaterial"
	keyMaterialSize     = 32
	explicitRandomBytes = 16
)

// DeriveDeterministic computes the topic and key material that both peers
// independently arrive at from the same two bundles and context, with no
// network round trip. own is whichever side is calling (used only to pick
// its own private pre-key); peer is the counterparty's public bundle.
func DeriveDeterministic(ownPub domaintypes.PublicKeyBundleV2, ownPreKeyPriv domaintypes.PreKeyPrivate, peerPub domaintypes.PublicKeyBundleV2, ctx domaintypes.InvitationContext) (domaintypes.InvitationV1, error) {
	var peerPreKeyPub domaintypes.PreKeyPublic
	copy(peerPreKeyPub[:], peerPub.PreKey.KeyBytes)

	k, err := cryptoprim.ECDH([32]byte(ownPreKeyPriv), [65]byte(peerPreKeyPub))
	if err != nil {
		return domaintypes.InvitationV1{}, fmt.Errorf("invitation: ecdh(own pre-key, peer pre-key): %w", err)
	}

	// The topic seed message is just "0" || conversation_id: the two wallet
	// addresses are not folded in here, since k itself (ECDH over the two
	// pre-keys) already scopes the seed to this pair.
	msg := []byte("0")
	if ctx.ConversationID != "" {
		msg = append(msg, []byte(ctx.ConversationID)...)
	}
	topicSeed := cryptoprim.HMACSHA256(k, msg)
	topic := wireformat.DeterministicV2Topic(topicSeed)

	keyMaterial, err := cryptoprim.DeriveKey(k, topicSeed, []byte(keyMaterialInfoStr), keyMaterialSize)
	if err != nil {
		return domaintypes.InvitationV1{}, fmt.Errorf("invitation: derive key material: %w", err)
	}

	inv := domaintypes.InvitationV1{Topic: topic, Context: ctx}
	copy(inv.KeyMaterial[:], keyMaterial)
	return inv, nil
}

// CreateExplicit builds an invitation with a random, unguessable topic and
// key material, independent of any bundle pairing. Used when the caller
// wants an opaque session distinct from any derivable one.
func CreateExplicit(ctx domaintypes.InvitationContext) (domaintypes.InvitationV1, error) {
	var randomID [explicitRandomBytes]byte
	if _, err := rand.Read(randomID[:]); err != nil {
		return domaintypes.InvitationV1{}, fmt.Errorf("invitation: generate random topic id: %w", err)
	}
	var keyMaterial [keyMaterialSize]byte
	if _, err := rand.Read(keyMaterial[:]); err != nil {
		return domaintypes.InvitationV1{}, fmt.Errorf("invitation: generate random key material: %w", err)
	}
	return domaintypes.InvitationV1{
		Topic:       wireformat.ExplicitV2Topic(hex.EncodeToString(randomID[:])),
		Context:     ctx,
		KeyMaterial: keyMaterial,
	}, nil
}

// Seal wraps inv in a SealedInvitationV1 addressed from sender to
// recipient, using the single-pair ECDH(sender.pre-key, recipient.pre-key)
// as the sealing secret.
func Seal(senderPriv domaintypes.PrivateKeyBundle, senderPub domaintypes.PublicKeyBundleV2, recipientPub domaintypes.PublicKeyBundleV2, inv domaintypes.InvitationV1, createdNS uint64) (domaintypes.SealedInvitationV1, error) {
	header := domaintypes.SealedInvitationHeaderV1{
		Sender:    senderPub,
		Recipient: recipientPub,
		CreatedNS: createdNS,
	}
	headerBytes, err := wireformat.SerializeSealedInvitationHeaderV1(header)
	if err != nil {
		return domaintypes.SealedInvitationV1{}, err
	}

	var recipientPreKeyPub domaintypes.PreKeyPublic
	copy(recipientPreKeyPub[:], recipientPub.PreKey.KeyBytes)
	kInv, err := cryptoprim.ECDH([32]byte(senderPriv.PreKeyPrivate), [65]byte(recipientPreKeyPub))
	if err != nil {
		return domaintypes.SealedInvitationV1{}, fmt.Errorf("invitation: ecdh(sender pre-key, recipient pre-key): %w", err)
	}

	payload, err := wireformat.SerializeInvitation(inv)
	if err != nil {
		return domaintypes.SealedInvitationV1{}, err
	}
	sealed, err := cryptoprim.Seal(kInv, headerBytes, payload)
	if err != nil {
		return domaintypes.SealedInvitationV1{}, fmt.Errorf("invitation: seal: %w", err)
	}
	return domaintypes.SealedInvitationV1{
		HeaderBytes: headerBytes,
		Ciphertext: domaintypes.Ciphertext{
			HKDFSalt: sealed.HKDFSalt,
			GCMNonce: sealed.GCMNonce,
			Payload:  sealed.Payload,
		},
	}, nil
}

// Open unseals a SealedInvitationV1 found on the local participant's
// invite channel, verifying the sender's wallet-to-identity-to-pre-key
// signature chain before trusting the recovered invitation. The local
// participant may be either the header's recipient or its sender.
func Open(recipientPriv domaintypes.PrivateKeyBundle, sealed domaintypes.SealedInvitationV1) (domaintypes.SealedInvitationHeaderV1, domaintypes.InvitationV1, error) {
	header, err := wireformat.ParseSealedInvitationHeaderV1(sealed.HeaderBytes)
	if err != nil {
		return domaintypes.SealedInvitationHeaderV1{}, domaintypes.InvitationV1{}, err
	}
	if err := identity.VerifyBundleV2(header.Sender); err != nil {
		return domaintypes.SealedInvitationHeaderV1{}, domaintypes.InvitationV1{}, domaintypes.NewError(domaintypes.KindAuthFailure, "invitation sender bundle failed verification", err)
	}

	// kInv is ECDH over the two header pre-keys: pair the local private
	// pre-key with the other party's public one.
	peerPreKeyBytes := header.Sender.PreKey.KeyBytes
	if header.Sender.WalletAddress == recipientPriv.WalletAddress {
		peerPreKeyBytes = header.Recipient.PreKey.KeyBytes
	}
	var peerPreKeyPub domaintypes.PreKeyPublic
	copy(peerPreKeyPub[:], peerPreKeyBytes)
	kInv, err := cryptoprim.ECDH([32]byte(recipientPriv.PreKeyPrivate), [65]byte(peerPreKeyPub))
	if err != nil {
		return domaintypes.SealedInvitationHeaderV1{}, domaintypes.InvitationV1{}, fmt.Errorf("invitation: ecdh(own pre-key, peer pre-key): %w", err)
	}

	plaintext, err := cryptoprim.Open(kInv, sealed.Ciphertext.HKDFSalt, sealed.Ciphertext.GCMNonce, sealed.HeaderBytes, sealed.Ciphertext.Payload)
	if err != nil {
		return domaintypes.SealedInvitationHeaderV1{}, domaintypes.InvitationV1{}, domaintypes.ErrAuthFailure
	}
	inv, err := wireformat.ParseInvitation(plaintext)
	if err != nil {
		return domaintypes.SealedInvitationHeaderV1{}, domaintypes.InvitationV1{}, err
	}
	return header, inv, nil
}
