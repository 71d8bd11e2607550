// Package registry implements the Conversations registry: the
// topic->session map and has-introduced set owned by one local participant,
// plus discovery, batch listing, and multi-topic streaming built on top of
// it.
package registry

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"xmtpcore/internal/codec"
	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/identity"
	"xmtpcore/internal/invitation"
	"xmtpcore/internal/session"
	"xmtpcore/internal/wireformat"
)

// decoder is satisfied by *session.SessionV1 and *session.SessionV2. It is
// kept unexported and separate from interfaces.Conversation because only
// the registry, not ordinary callers, needs to route a bare envelope to the
// session that owns its topic.
type decoder interface {
	DecodeEnvelope(env domaintypes.Envelope) (domaintypes.DecodedMessage, bool)
}

// Conversations is the only shared mutable state in the core: the
// topic->session map and the has-introduced set, for one local participant.
// A single mutex protects both, per the concurrency model's "protect with a
// single lock if cross-thread access is offered" guidance.
type Conversations struct {
	mu            sync.Mutex
	sessions      map[string]interfaces.Conversation
	byPeerCtx     map[string]string                         // peerCtxKey -> topic
	sealedInvites map[string]domaintypes.SealedInvitationV1 // topic -> sealed invitation, v2 only
	introduced    map[domaintypes.WalletAddress]bool

	lastIntroSeenNS  uint64
	lastInviteSeenNS uint64

	self     domaintypes.PrivateKeyBundle
	relay    interfaces.RelayClient
	codecs   *codec.Registry
	contacts interfaces.ContactStore
	logger   *log.Logger
}

// New builds an empty registry for self. logger may be nil, in which case
// registry events (malformed envelopes, transport retries) are discarded
// rather than printed.
func New(self domaintypes.PrivateKeyBundle, relay interfaces.RelayClient, codecs *codec.Registry, contacts interfaces.ContactStore, logger *log.Logger) *Conversations {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Conversations{
		sessions:      make(map[string]interfaces.Conversation),
		byPeerCtx:     make(map[string]string),
		sealedInvites: make(map[string]domaintypes.SealedInvitationV1),
		introduced:    make(map[domaintypes.WalletAddress]bool),
		self:          self,
		relay:         relay,
		codecs:        codecs,
		contacts:      contacts,
		logger:        logger,
	}
}

// HasIntroduced and MarkIntroduced implement interfaces.IntroducedTracker;
// every SessionV1 the registry constructs is handed this registry as its
// tracker so the has-introduced set stays singular per participant.
func (c *Conversations) HasIntroduced(peer domaintypes.WalletAddress) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.introduced[peer]
}

func (c *Conversations) MarkIntroduced(peer domaintypes.WalletAddress) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.introduced[peer] = true
}

var _ interfaces.IntroducedTracker = (*Conversations)(nil)

func peerCtxKey(peer domaintypes.WalletAddress, ctx domaintypes.InvitationContext) string {
	return peer.String() + "|" + ctx.ConversationID
}

// sessionKey recovers the (peer, context) key a discovered session should
// be indexed under; SessionV2 carries a context, SessionV1 never does.
func sessionKey(s interfaces.Conversation) string {
	if v2, ok := s.(*session.SessionV2); ok {
		return peerCtxKey(v2.PeerAddress(), v2.InvitationContext())
	}
	return peerCtxKey(s.PeerAddress(), domaintypes.InvitationContext{})
}

// addSession records s under topic and key if no entry already exists at
// that topic, never replacing an existing entry — matching list()'s
// stated invariant, applied uniformly to every insertion path.
func (c *Conversations) addSession(key string, s interfaces.Conversation) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.sessions[s.Topic()]; exists {
		c.byPeerCtx[key] = s.Topic()
		return false
	}
	c.sessions[s.Topic()] = s
	c.byPeerCtx[key] = s.Topic()
	return true
}

func (c *Conversations) knownTopic(topic string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[topic]
	return ok
}

// rememberInvitation records the sealed invitation that produced a v2
// session at topic, so ExportRecord can later persist it without a second
// relay round trip.
func (c *Conversations) rememberInvitation(topic string, sealed domaintypes.SealedInvitationV1) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sealedInvites[topic] = sealed
}

// ExportRecord returns the persistable SessionRecord for an already-known
// topic, so a caller can hand it to a SessionRecordStore and reconstruct
// the session later via ImportTopicData without re-deriving or re-querying
// anything.
func (c *Conversations) ExportRecord(topic string) (domaintypes.SessionRecord, bool) {
	c.mu.Lock()
	s, ok := c.sessions[topic]
	if !ok {
		c.mu.Unlock()
		return domaintypes.SessionRecord{}, false
	}
	sealed, isV2 := c.sealedInvites[topic]
	c.mu.Unlock()

	record := domaintypes.SessionRecord{PeerAddress: s.PeerAddress(), CreatedNS: s.CreatedAt()}
	if isV2 {
		record.Invitation = &sealed
	}
	return record, true
}

// NewConversation resolves an existing session for (peer, context) first,
// then falls back to v1 (no context, peer has a published v1 bundle), then
// a previously received v2 invitation matching the context, and finally
// derives and publishes a brand-new v2 invitation.
func (c *Conversations) NewConversation(ctx context.Context, peer domaintypes.WalletAddress, invCtx domaintypes.InvitationContext) (interfaces.Conversation, error) {
	if peer.Equal(c.self.WalletAddress) {
		return nil, domaintypes.NewError(domaintypes.KindInvalidArgument, "cannot start a conversation with self", nil)
	}

	key := peerCtxKey(peer, invCtx)
	c.mu.Lock()
	topic, ok := c.byPeerCtx[key]
	var existing interfaces.Conversation
	if ok {
		existing, ok = c.sessions[topic]
	}
	c.mu.Unlock()
	if ok {
		return existing, nil
	}

	if invCtx.ConversationID == "" {
		bundle, ok, err := c.contacts.LoadBundleV1(peer)
		if err != nil {
			return nil, fmt.Errorf("registry: load v1 bundle: %w", err)
		}
		if ok {
			if err := identity.VerifyBundleV1(bundle); err != nil {
				return nil, domaintypes.NewError(domaintypes.KindAuthFailure, "peer v1 bundle failed verification", err)
			}
			s := session.NewSessionV1(c.self, peer, nowNS(), c.relay, c.codecs, c.contacts, c)
			c.addSession(key, s)
			return s, nil
		}
	}

	if existing, err := c.findReceivedInvitation(ctx, peer, invCtx); err != nil {
		return nil, err
	} else if existing != nil {
		c.addSession(key, existing)
		return existing, nil
	}

	peerBundle, ok, err := c.contacts.LoadBundleV2(peer)
	if err != nil {
		return nil, fmt.Errorf("registry: load v2 bundle: %w", err)
	}
	if !ok {
		return nil, domaintypes.NewError(domaintypes.KindNotFound, "peer has no published v2 bundle", nil)
	}
	if err := identity.VerifyBundleV2(peerBundle); err != nil {
		return nil, domaintypes.NewError(domaintypes.KindAuthFailure, "peer v2 bundle failed verification", err)
	}

	selfPub := c.self.ToBundleV2()
	inv, err := invitation.DeriveDeterministic(selfPub, c.self.PreKeyPrivate, peerBundle, invCtx)
	if err != nil {
		return nil, err
	}
	createdNS := nowNS()
	sealed, err := invitation.Seal(c.self, selfPub, peerBundle, inv, createdNS)
	if err != nil {
		return nil, err
	}
	sealedBytes, err := wireformat.MarshalSealedInvitation(sealed)
	if err != nil {
		return nil, err
	}
	envelopes := []domaintypes.Envelope{
		{ContentTopic: wireformat.InviteTopic(peer), TimestampNS: createdNS, Message: sealedBytes},
		{ContentTopic: wireformat.InviteTopic(c.self.WalletAddress), TimestampNS: createdNS, Message: sealedBytes},
	}
	if err := c.relay.Publish(ctx, envelopes); err != nil {
		return nil, fmt.Errorf("registry: publish invitation: %w", err)
	}

	s := session.NewSessionV2(selfPub, peer, inv.Topic, inv.KeyMaterial, invCtx, createdNS, c.relay, c.codecs)
	c.rememberInvitation(s.Topic(), sealed)
	c.addSession(key, s)
	return s, nil
}

// findReceivedInvitation looks for a previously received sealed invitation
// from peer matching invCtx on self's own invite channel, so NewConversation
// reuses it instead of deriving (and republishing) a fresh one. Since
// derivation is deterministic, reuse is an optimization, not a correctness
// requirement — but it avoids a redundant publish.
func (c *Conversations) findReceivedInvitation(ctx context.Context, peer domaintypes.WalletAddress, invCtx domaintypes.InvitationContext) (interfaces.Conversation, error) {
	resp, err := c.relay.Query(ctx, domaintypes.QueryRequest{
		ContentTopics: []string{wireformat.InviteTopic(c.self.WalletAddress)},
	})
	if err != nil {
		return nil, fmt.Errorf("registry: query invite channel: %w", err)
	}
	for _, env := range resp.Envelopes {
		s, err := c.FromInvite(env)
		if err != nil {
			continue
		}
		if !s.PeerAddress().Equal(peer) {
			continue
		}
		if s.InvitationContext().ConversationID != invCtx.ConversationID {
			continue
		}
		return s, nil
	}
	return nil, nil
}
