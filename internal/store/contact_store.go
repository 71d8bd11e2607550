package store

import (
	"fmt"
	"path/filepath"
	"sync"

	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
)

const contactsFilename = "contacts.json"

// contactRecord holds whichever bundle versions have been published for a
// given address; either may be absent.
type contactRecord struct {
	V1 *domaintypes.PublicKeyBundleV1 `json:"v1,omitempty"`
	V2 *domaintypes.PublicKeyBundleV2 `json:"v2,omitempty"`
}

// ContactFileStore is a local cache of peer bundles resolved by some
// external directory lookup (out of scope here); it only ever reads back
// what SaveBundle* wrote.
type ContactFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewContactFileStore returns a ContactFileStore rooted at dir.
func NewContactFileStore(dir string) *ContactFileStore {
	return &ContactFileStore{dir: dir}
}

func (s *ContactFileStore) path() string {
	return filepath.Join(s.dir, contactsFilename)
}

func (s *ContactFileStore) load() (map[string]contactRecord, error) {
	records := map[string]contactRecord{}
	if err := readJSON(s.path(), &records); err != nil {
		return nil, fmt.Errorf("store: read contacts: %w", err)
	}
	return records, nil
}

// SaveBundleV1 caches peer's v1 bundle for later lookup.
func (s *ContactFileStore) SaveBundleV1(peer domaintypes.WalletAddress, bundle domaintypes.PublicKeyBundleV1) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	rec := records[peer.String()]
	rec.V1 = &bundle
	records[peer.String()] = rec
	if err := writeJSON(s.path(), records, 0o600); err != nil {
		return fmt.Errorf("store: write contacts: %w", err)
	}
	return nil
}

// SaveBundleV2 caches peer's v2 bundle for later lookup.
func (s *ContactFileStore) SaveBundleV2(peer domaintypes.WalletAddress, bundle domaintypes.PublicKeyBundleV2) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	rec := records[peer.String()]
	rec.V2 = &bundle
	records[peer.String()] = rec
	if err := writeJSON(s.path(), records, 0o600); err != nil {
		return fmt.Errorf("store: write contacts: %w", err)
	}
	return nil
}

// LoadBundleV1 implements interfaces.ContactStore.
func (s *ContactFileStore) LoadBundleV1(peer domaintypes.WalletAddress) (domaintypes.PublicKeyBundleV1, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return domaintypes.PublicKeyBundleV1{}, false, err
	}
	rec, ok := records[peer.String()]
	if !ok || rec.V1 == nil {
		return domaintypes.PublicKeyBundleV1{}, false, nil
	}
	return *rec.V1, true, nil
}

// LoadBundleV2 implements interfaces.ContactStore.
func (s *ContactFileStore) LoadBundleV2(peer domaintypes.WalletAddress) (domaintypes.PublicKeyBundleV2, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return domaintypes.PublicKeyBundleV2{}, false, err
	}
	rec, ok := records[peer.String()]
	if !ok || rec.V2 == nil {
		return domaintypes.PublicKeyBundleV2{}, false, nil
	}
	return *rec.V2, true, nil
}

var _ interfaces.ContactStore = (*ContactFileStore)(nil)
