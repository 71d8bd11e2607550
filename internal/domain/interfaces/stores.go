package interfaces

import domaintypes "xmtpcore/internal/domain/types"

// KeyStore persists the local participant's private key bundle, encrypted
// at rest with a passphrase-derived key. The core treats it as an external
// collaborator and never reads key material from anywhere else.
type KeyStore interface {
	SavePrivateKeyBundle(passphrase string, bundle domaintypes.PrivateKeyBundle) error
	LoadPrivateKeyBundle(passphrase string) (domaintypes.PrivateKeyBundle, error)
}

// SessionRecordStore persists/reconstructs sessions across process restarts
// without any network I/O.
type SessionRecordStore interface {
	SaveSessionRecord(topic string, record domaintypes.SessionRecord) error
	LoadSessionRecord(topic string) (domaintypes.SessionRecord, bool, error)
	ListSessionRecords() ([]domaintypes.SessionRecord, error)
}

// ContactStore resolves a peer's published bundle from a persistent contact
// directory. Populating that directory is out of scope here; the core only
// needs this narrow read path.
type ContactStore interface {
	LoadBundleV1(peer domaintypes.WalletAddress) (domaintypes.PublicKeyBundleV1, bool, error)
	LoadBundleV2(peer domaintypes.WalletAddress) (domaintypes.PublicKeyBundleV2, bool, error)
}
