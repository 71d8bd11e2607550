package types

// SignedPublicKey wraps a raw public key with a structured signature and a
// creation timestamp, the v2 bundle's wire shape.
type SignedPublicKey struct {
	KeyBytes  []byte            `json:"key_bytes"`
	Signature KeySignature      `json:"signature"`
	CreatedNS uint64            `json:"created_ns"`
	Signer    IdentityPublicKey `json:"signer,omitempty"`
}

// PublicKeyBundleV1 carries raw uncompressed public keys with attached
// wallet signatures.
type PublicKeyBundleV1 struct {
	IdentityKey   IdentityPublicKey `json:"identity_key"`
	IdentitySig   WalletSignature   `json:"identity_sig"`
	PreKey        PreKeyPublic      `json:"pre_key"`
	PreKeySig     KeySignature      `json:"pre_key_sig"`
	WalletAddress WalletAddress     `json:"wallet_address"`
}

// PublicKeyBundleV2 wraps the same keys as SignedPublicKey values carrying a
// structured signature and creation timestamp.
type PublicKeyBundleV2 struct {
	IdentityKey   SignedPublicKey `json:"identity_key"`
	PreKey        SignedPublicKey `json:"pre_key"`
	WalletAddress WalletAddress   `json:"wallet_address"`
}

// PrivateKeyBundle is the owning side's key material, retained locally and
// never transmitted.
type PrivateKeyBundle struct {
	IdentityPrivate IdentityPrivateKey `json:"identity_private"`
	IdentityPublic  IdentityPublicKey  `json:"identity_public"`
	IdentitySig     WalletSignature    `json:"identity_sig"`
	PreKeyPrivate   PreKeyPrivate      `json:"pre_key_private"`
	PreKeyPublic    PreKeyPublic       `json:"pre_key_public"`
	PreKeySig       KeySignature       `json:"pre_key_sig"`
	WalletAddress   WalletAddress      `json:"wallet_address"`
	PreKeyCreatedNS uint64             `json:"pre_key_created_ns"`
}

// ToBundleV1 projects the owning participant's public material as a v1 bundle.
func (b PrivateKeyBundle) ToBundleV1() PublicKeyBundleV1 {
	return PublicKeyBundleV1{
		IdentityKey:   b.IdentityPublic,
		IdentitySig:   b.IdentitySig,
		PreKey:        b.PreKeyPublic,
		PreKeySig:     b.PreKeySig,
		WalletAddress: b.WalletAddress,
	}
}

// ToBundleV2 projects the owning participant's public material as a v2
// bundle, wrapping each key as a SignedPublicKey.
func (b PrivateKeyBundle) ToBundleV2() PublicKeyBundleV2 {
	return PublicKeyBundleV2{
		IdentityKey: SignedPublicKey{
			KeyBytes:  append([]byte(nil), b.IdentityPublic[:]...),
			Signature: KeySignature(append([]byte(nil), b.IdentitySig[:]...)),
			CreatedNS: 0,
		},
		PreKey: SignedPublicKey{
			KeyBytes:  append([]byte(nil), b.PreKeyPublic[:]...),
			Signature: b.PreKeySig,
			CreatedNS: b.PreKeyCreatedNS,
			Signer:    b.IdentityPublic,
		},
		WalletAddress: b.WalletAddress,
	}
}
