package identity_test

import (
	"testing"

	"xmtpcore/internal/identity"
)

func TestCreatePrivateKeyBundleProducesVerifiableV1Bundle(t *testing.T) {
	signer, err := identity.NewLocalWalletSigner()
	if err != nil {
		t.Fatalf("NewLocalWalletSigner: %v", err)
	}
	priv, _, err := identity.CreatePrivateKeyBundle(signer)
	if err != nil {
		t.Fatalf("CreatePrivateKeyBundle: %v", err)
	}

	bundle := priv.ToBundleV1()
	if bundle.WalletAddress != signer.Address() {
		t.Fatalf("bundle wallet address %v != signer address %v", bundle.WalletAddress, signer.Address())
	}
	if err := identity.VerifyBundleV1(bundle); err != nil {
		t.Fatalf("VerifyBundleV1: %v", err)
	}
}

func TestVerifyBundleV1RejectsWrongWallet(t *testing.T) {
	signer, err := identity.NewLocalWalletSigner()
	if err != nil {
		t.Fatalf("NewLocalWalletSigner: %v", err)
	}
	priv, _, err := identity.CreatePrivateKeyBundle(signer)
	if err != nil {
		t.Fatalf("CreatePrivateKeyBundle: %v", err)
	}
	bundle := priv.ToBundleV1()
	bundle.WalletAddress[0] ^= 0xFF

	if err := identity.VerifyBundleV1(bundle); err == nil {
		t.Fatal("VerifyBundleV1 accepted a bundle bound to the wrong wallet address")
	}
}

func TestVerifyPreKeySignatureRejectsTamperedPreKey(t *testing.T) {
	identityPriv, identityPub, err := identity.GenerateIdentityKeyPair()
	if err != nil {
		t.Fatalf("GenerateIdentityKeyPair: %v", err)
	}
	_, preKeyPub, sig, err := identity.GeneratePreKey(identityPriv)
	if err != nil {
		t.Fatalf("GeneratePreKey: %v", err)
	}
	if !identity.VerifyPreKeySignature(identityPub, preKeyPub, sig) {
		t.Fatal("VerifyPreKeySignature rejected a valid signature")
	}
	preKeyPub[0] ^= 0xFF
	if identity.VerifyPreKeySignature(identityPub, preKeyPub, sig) {
		t.Fatal("VerifyPreKeySignature accepted a tampered pre-key")
	}
}

// TestVerifyPreKeySignatureRejectsTamperingPastFirst32Bytes guards against
// signing/verifying a raw, unhashed 65-byte public key: only the leftmost
// 32 bytes would ever be covered by the signature in that case, leaving a
// tampered tail undetected.
func TestVerifyPreKeySignatureRejectsTamperingPastFirst32Bytes(t *testing.T) {
	identityPriv, identityPub, err := identity.GenerateIdentityKeyPair()
	if err != nil {
		t.Fatalf("GenerateIdentityKeyPair: %v", err)
	}
	_, preKeyPub, sig, err := identity.GeneratePreKey(identityPriv)
	if err != nil {
		t.Fatalf("GeneratePreKey: %v", err)
	}
	preKeyPub[40] ^= 0xFF
	if identity.VerifyPreKeySignature(identityPub, preKeyPub, sig) {
		t.Fatal("VerifyPreKeySignature accepted tampering past byte 32, the raw-digest truncation boundary")
	}
}

func TestCreatePrivateKeyBundleProducesVerifiableV2Bundle(t *testing.T) {
	signer, err := identity.NewLocalWalletSigner()
	if err != nil {
		t.Fatalf("NewLocalWalletSigner: %v", err)
	}
	priv, _, err := identity.CreatePrivateKeyBundle(signer)
	if err != nil {
		t.Fatalf("CreatePrivateKeyBundle: %v", err)
	}

	bundle := priv.ToBundleV2()
	if err := identity.VerifyBundleV2(bundle); err != nil {
		t.Fatalf("VerifyBundleV2: %v", err)
	}
}
