package types

// IdentityPrivateKey is a long-lived secp256k1 signing key, wallet-signed at
// creation time to bind wallet -> identity.
type IdentityPrivateKey [32]byte

// IdentityPublicKey is the uncompressed SEC1 encoding (0x04 || X || Y) of an
// identity public key.
type IdentityPublicKey [65]byte

// PreKeyPrivate is an ephemeral secp256k1 private key, identity-signed.
type PreKeyPrivate [32]byte

// PreKeyPublic is the uncompressed SEC1 encoding of a pre-key public key.
type PreKeyPublic [65]byte

func (k IdentityPrivateKey) Slice() []byte { return k[:] }
func (k IdentityPublicKey) Slice() []byte  { return k[:] }
func (k PreKeyPrivate) Slice() []byte      { return k[:] }
func (k PreKeyPublic) Slice() []byte       { return k[:] }

// WalletSignature is a 65-byte recoverable ECDSA signature (R || S || V)
// produced by the external wallet signer over an identity key.
type WalletSignature [65]byte

// KeySignature is a variable-length signature: the 64-byte (R || S) ECDSA
// signature made by an identity key over a pre-key, or, in a v2 bundle's
// identity key, the 65-byte wallet signature.
type KeySignature []byte
