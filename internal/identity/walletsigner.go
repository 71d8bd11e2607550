package identity

import (
	"fmt"

	"xmtpcore/internal/cryptoprim"
	domaintypes "xmtpcore/internal/domain/types"
)

// LocalWalletSigner is a stand-in WalletSigner backed by a local secp256k1
// key, for CLI demos and tests. A production deployment binds to an actual
// wallet signer (browser extension, hardware wallet, mobile keychain)
// outside this module's scope.
type LocalWalletSigner struct {
	priv    [cryptoprim.KeySize]byte
	address domaintypes.WalletAddress
}

// NewLocalWalletSigner derives a fresh wallet key pair and the address it
// binds to.
func NewLocalWalletSigner() (*LocalWalletSigner, error) {
	priv, pub, err := cryptoprim.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("identity: generate wallet key: %w", err)
	}
	return &LocalWalletSigner{
		priv:    priv,
		address: domaintypes.WalletAddress(cryptoprim.AddressFromPublicKey(pub)),
	}, nil
}

func (w *LocalWalletSigner) Address() domaintypes.WalletAddress { return w.address }

// SignIdentityBinding signs identityPub's raw bytes, producing a signature
// from which the wallet's address can be recovered without attaching the
// wallet's public key.
func (w *LocalWalletSigner) SignIdentityBinding(identityPub domaintypes.IdentityPublicKey) (domaintypes.WalletSignature, error) {
	sig, err := cryptoprim.SignRecoverable(w.priv, identityPub[:])
	if err != nil {
		return domaintypes.WalletSignature{}, fmt.Errorf("identity: sign identity binding: %w", err)
	}
	return domaintypes.WalletSignature(sig), nil
}

var _ WalletSigner = (*LocalWalletSigner)(nil)
