package app

import (
	"fmt"
	"log"
	"net/http"

	"xmtpcore/internal/codec"
	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/registry"
	"xmtpcore/internal/relay"
	"xmtpcore/internal/store"
)

// Wire bundles the stores, relay client, and codec registry the CLI needs.
// Building it never requires a passphrase; only Open, which unlocks the
// local private key bundle, does.
type Wire struct {
	Keys     *store.KeyFileStore
	Sessions *store.SessionRecordFileStore
	Contacts *store.ContactFileStore
	Relay    *relay.HTTPClient
	Codecs   *codec.Registry
	Logger   *log.Logger
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	rc := relay.NewHTTPClient(cfg.RelayURL)
	rc.HTTPClient = httpClient

	return &Wire{
		Keys:     store.NewKeyFileStore(cfg.Home),
		Sessions: store.NewSessionRecordFileStore(cfg.Home),
		Contacts: store.NewContactFileStore(cfg.Home),
		Relay:    rc,
		Codecs:   codec.NewRegistry(),
		Logger:   log.Default(),
	}, nil
}

// Open unlocks the local private key bundle under passphrase and builds the
// conversation registry around it, importing any previously persisted
// session records so in-flight v2 sessions survive a restart.
func (w *Wire) Open(passphrase string) (domaintypes.PrivateKeyBundle, *registry.Conversations, error) {
	self, err := w.Keys.LoadPrivateKeyBundle(passphrase)
	if err != nil {
		return domaintypes.PrivateKeyBundle{}, nil, fmt.Errorf("app: load private key bundle: %w", err)
	}

	conversations := registry.New(self, w.Relay, w.Codecs, w.Contacts, w.Logger)

	records, err := w.Sessions.ListSessionRecords()
	if err != nil {
		return domaintypes.PrivateKeyBundle{}, nil, fmt.Errorf("app: list session records: %w", err)
	}
	for _, rec := range records {
		if _, err := conversations.ImportTopicData(rec); err != nil {
			return domaintypes.PrivateKeyBundle{}, nil, fmt.Errorf("app: import session record for %s: %w", rec.PeerAddress, err)
		}
	}

	return self, conversations, nil
}
