package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/util/memzero"
)

const keyBundleFilename = "identity.json.enc"

// KeyFileStore persists the local participant's private key bundle to disk,
// encrypted at rest with a passphrase-derived key.
type KeyFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewKeyFileStore returns a KeyFileStore rooted at dir.
func NewKeyFileStore(dir string) *KeyFileStore {
	return &KeyFileStore{dir: dir}
}

// SavePrivateKeyBundle encrypts bundle under passphrase and writes it to
// disk via the temp-file-then-rename pattern the rest of the store package
// uses.
func (s *KeyFileStore) SavePrivateKeyBundle(passphrase string, bundle domaintypes.PrivateKeyBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("store: marshal private key bundle: %w", err)
	}
	defer memzero.Zero(raw)
	N, r, p := scryptParamsDefault()
	ct, err := encrypt(passphrase, raw, N, r, p)
	if err != nil {
		return fmt.Errorf("store: encrypt private key bundle: %w", err)
	}
	return writeFile(filepath.Join(s.dir, keyBundleFilename), ct, 0o600)
}

// LoadPrivateKeyBundle decrypts and returns the locally persisted bundle.
func (s *KeyFileStore) LoadPrivateKeyBundle(passphrase string) (domaintypes.PrivateKeyBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, keyBundleFilename)
	b, err := os.ReadFile(path)
	if err != nil {
		return domaintypes.PrivateKeyBundle{}, fmt.Errorf("store: read private key bundle: %w", err)
	}
	pt, err := decrypt(passphrase, b)
	if err != nil {
		return domaintypes.PrivateKeyBundle{}, fmt.Errorf("store: decrypt private key bundle: %w", err)
	}
	defer memzero.Zero(pt)
	var bundle domaintypes.PrivateKeyBundle
	if err := json.Unmarshal(pt, &bundle); err != nil {
		return domaintypes.PrivateKeyBundle{}, fmt.Errorf("store: unmarshal private key bundle: %w", err)
	}
	return bundle, nil
}

var _ interfaces.KeyStore = (*KeyFileStore)(nil)
