// Package identity derives and verifies the long-lived identity key, the
// rotating pre-key, and the public bundles built from them.
package identity

import (
	"fmt"

	"xmtpcore/internal/cryptoprim"
	domaintypes "xmtpcore/internal/domain/types"
)

// WalletSigner is the external wallet collaborator that owns the
// participant's wallet private key. The core never holds wallet key
// material directly; it only asks the signer to bind an identity key.
type WalletSigner interface {
	Address() domaintypes.WalletAddress
	SignIdentityBinding(identityPub domaintypes.IdentityPublicKey) (domaintypes.WalletSignature, error)
}

// GenerateIdentityKeyPair produces a fresh long-lived secp256k1 signing
// key pair.
func GenerateIdentityKeyPair() (domaintypes.IdentityPrivateKey, domaintypes.IdentityPublicKey, error) {
	priv, pub, err := cryptoprim.GenerateKeyPair()
	if err != nil {
		return domaintypes.IdentityPrivateKey{}, domaintypes.IdentityPublicKey{}, fmt.Errorf("identity: generate identity key: %w", err)
	}
	return domaintypes.IdentityPrivateKey(priv), domaintypes.IdentityPublicKey(pub), nil
}

// GeneratePreKey produces a fresh ephemeral secp256k1 key pair together
// with the identity key's signature over its public encoding, binding the
// pre-key to the identity for the lifetime of its rotation.
func GeneratePreKey(identityPriv domaintypes.IdentityPrivateKey) (domaintypes.PreKeyPrivate, domaintypes.PreKeyPublic, domaintypes.KeySignature, error) {
	priv, pub, err := cryptoprim.GenerateKeyPair()
	if err != nil {
		return domaintypes.PreKeyPrivate{}, domaintypes.PreKeyPublic{}, nil, fmt.Errorf("identity: generate pre-key: %w", err)
	}
	sig := cryptoprim.Sign([32]byte(identityPriv), pub[:])
	return domaintypes.PreKeyPrivate(priv), domaintypes.PreKeyPublic(pub), domaintypes.KeySignature(sig), nil
}

// VerifyPreKeySignature checks that identityPub's owner signed preKeyPub.
func VerifyPreKeySignature(identityPub domaintypes.IdentityPublicKey, preKeyPub domaintypes.PreKeyPublic, sig domaintypes.KeySignature) bool {
	return cryptoprim.Verify([65]byte(identityPub), preKeyPub[:], sig)
}

// CreatePrivateKeyBundle generates a fresh identity key and pre-key, has
// the wallet signer bind the identity key, and assembles the owning
// side's full private bundle.
func CreatePrivateKeyBundle(signer WalletSigner) (domaintypes.PrivateKeyBundle, uint64, error) {
	identityPriv, identityPub, err := GenerateIdentityKeyPair()
	if err != nil {
		return domaintypes.PrivateKeyBundle{}, 0, err
	}
	identitySig, err := signer.SignIdentityBinding(identityPub)
	if err != nil {
		return domaintypes.PrivateKeyBundle{}, 0, fmt.Errorf("identity: wallet signing failed: %w", err)
	}
	preKeyPriv, preKeyPub, preKeySig, err := GeneratePreKey(identityPriv)
	if err != nil {
		return domaintypes.PrivateKeyBundle{}, 0, err
	}
	return domaintypes.PrivateKeyBundle{
		IdentityPrivate: identityPriv,
		IdentityPublic:  identityPub,
		IdentitySig:     identitySig,
		PreKeyPrivate:   preKeyPriv,
		PreKeyPublic:    preKeyPub,
		PreKeySig:       preKeySig,
		WalletAddress:   signer.Address(),
	}, 0, nil
}

// VerifyBundleV1 checks both signature layers of a v1 bundle: the wallet's
// binding of the identity key, and the identity key's binding of the
// pre-key. A bundle failing either check must not be used for ECDH.
func VerifyBundleV1(b domaintypes.PublicKeyBundleV1) error {
	if !VerifyWalletBinding(b.IdentityKey, b.WalletAddress, b.IdentitySig) {
		return domaintypes.NewError(domaintypes.KindAuthFailure, "identity key is not wallet-signed", nil)
	}
	if !VerifyPreKeySignature(b.IdentityKey, b.PreKey, b.PreKeySig) {
		return domaintypes.NewError(domaintypes.KindAuthFailure, "pre-key is not identity-signed", nil)
	}
	return nil
}

// VerifyBundleV2 checks the same two signature layers over a v2 bundle's
// signed-public-key wrappers.
func VerifyBundleV2(b domaintypes.PublicKeyBundleV2) error {
	var identityPub domaintypes.IdentityPublicKey
	copy(identityPub[:], b.IdentityKey.KeyBytes)
	var identitySig domaintypes.WalletSignature
	copy(identitySig[:], b.IdentityKey.Signature)
	if !VerifyWalletBinding(identityPub, b.WalletAddress, identitySig) {
		return domaintypes.NewError(domaintypes.KindAuthFailure, "identity key is not wallet-signed", nil)
	}

	var preKeyPub domaintypes.PreKeyPublic
	copy(preKeyPub[:], b.PreKey.KeyBytes)
	if !cryptoprim.Verify([65]byte(identityPub), preKeyPub[:], b.PreKey.Signature) {
		return domaintypes.NewError(domaintypes.KindAuthFailure, "pre-key is not identity-signed", nil)
	}
	return nil
}

// VerifyWalletBinding recovers the public key that produced sig over
// identityPub's bytes and checks that its derived address matches addr.
func VerifyWalletBinding(identityPub domaintypes.IdentityPublicKey, addr domaintypes.WalletAddress, sig domaintypes.WalletSignature) bool {
	recovered, err := cryptoprim.RecoverPublicKey([65]byte(sig), identityPub[:])
	if err != nil {
		return false
	}
	return cryptoprim.AddressFromPublicKey(recovered) == [20]byte(addr)
}
