package registry

import (
	"context"
	"fmt"
	"sort"

	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/identity"
	"xmtpcore/internal/invitation"
	"xmtpcore/internal/session"
	"xmtpcore/internal/wireformat"
)

// FromIntro is a synchronous constructor that does no network I/O: the
// counterparty and created_at come straight out of the envelope's plaintext
// header (the header is AEAD associated data, never encrypted), after
// verifying the sender's signature chain.
func (c *Conversations) FromIntro(env domaintypes.Envelope) (*session.SessionV1, error) {
	msg, err := wireformat.UnmarshalMessageV1(env.Message)
	if err != nil {
		return nil, fmt.Errorf("registry: parse intro envelope: %w", err)
	}
	header, err := wireformat.ParseHeaderV1(msg.HeaderBytes)
	if err != nil {
		return nil, fmt.Errorf("registry: parse intro header: %w", err)
	}
	if err := identity.VerifyBundleV1(header.Sender); err != nil {
		return nil, domaintypes.NewError(domaintypes.KindAuthFailure, "intro sender bundle failed verification", err)
	}

	peer := header.Sender.WalletAddress
	if peer.Equal(c.self.WalletAddress) {
		peer = header.Recipient.WalletAddress
	}
	if peer.Equal(c.self.WalletAddress) {
		return nil, domaintypes.NewError(domaintypes.KindInvalidArgument, "intro envelope names no counterparty", nil)
	}
	return session.NewSessionV1(c.self, peer, header.TimestampNS, c.relay, c.codecs, c.contacts, c), nil
}

// FromInvite is a synchronous constructor that does no network I/O: the
// sealing secret is a single-pair ECDH that either participant can
// recompute from their own pre-key, so self can open an invitation whether
// self was the sender or the recipient.
func (c *Conversations) FromInvite(env domaintypes.Envelope) (*session.SessionV2, error) {
	sealed, err := wireformat.UnmarshalSealedInvitation(env.Message)
	if err != nil {
		return nil, fmt.Errorf("registry: parse invite envelope: %w", err)
	}
	header, inv, err := invitation.Open(c.self, sealed)
	if err != nil {
		return nil, err
	}

	peer := header.Sender.WalletAddress
	if peer.Equal(c.self.WalletAddress) {
		peer = header.Recipient.WalletAddress
	}
	s := session.NewSessionV2(c.self.ToBundleV2(), peer, inv.Topic, inv.KeyMaterial, inv.Context, header.CreatedNS, c.relay, c.codecs)
	c.rememberInvitation(s.Topic(), sealed)
	return s, nil
}

// ImportTopicData reconstructs a session from previously persisted state
// without any network I/O. The presence of Invitation distinguishes v2
// from v1.
func (c *Conversations) ImportTopicData(record domaintypes.SessionRecord) (interfaces.Conversation, error) {
	if record.IsV2() {
		_, inv, err := invitation.Open(c.self, *record.Invitation)
		if err != nil {
			return nil, err
		}
		s := session.NewSessionV2(c.self.ToBundleV2(), record.PeerAddress, inv.Topic, inv.KeyMaterial, inv.Context, record.CreatedNS, c.relay, c.codecs)
		c.rememberInvitation(s.Topic(), *record.Invitation)
		c.addSession(peerCtxKey(record.PeerAddress, inv.Context), s)
		return s, nil
	}
	s := session.NewSessionV1(c.self, record.PeerAddress, record.CreatedNS, c.relay, c.codecs, c.contacts, c)
	c.addSession(peerCtxKey(record.PeerAddress, domaintypes.InvitationContext{}), s)
	return s, nil
}

// List merges the in-memory map with peers discovered via the local intro
// channel and sessions derivable from the local invite channel, never
// replacing an existing entry at the same topic, then returns every known
// session sorted by created_at descending, ties broken by topic ascending.
func (c *Conversations) List(ctx context.Context) ([]interfaces.Conversation, error) {
	if err := c.discoverFromIntro(ctx); err != nil {
		return nil, err
	}
	if err := c.discoverFromInvite(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	out := make([]interfaces.Conversation, 0, len(c.sessions))
	for _, s := range c.sessions {
		out = append(out, s)
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt() != out[j].CreatedAt() {
			return out[i].CreatedAt() > out[j].CreatedAt()
		}
		return out[i].Topic() < out[j].Topic()
	})
	return out, nil
}

// discoverFromIntro queries self's intro channel since the last time it was
// queried and folds newly observed peers into the map. Mirroring
// listIntroductionPeers, a peer's created_at is the earliest envelope
// timestamp seen for them, not the latest — an envelope arriving out of
// order must not push an existing session's created_at forward.
func (c *Conversations) discoverFromIntro(ctx context.Context) error {
	c.mu.Lock()
	since := c.lastIntroSeenNS
	c.mu.Unlock()

	resp, err := c.relay.Query(ctx, domaintypes.QueryRequest{
		ContentTopics: []string{wireformat.IntroTopic(c.self.WalletAddress)},
		StartTimeNS:   since,
	})
	if err != nil {
		return fmt.Errorf("registry: query intro channel: %w", err)
	}

	earliest := make(map[domaintypes.WalletAddress]uint64)
	var maxSeen uint64
	for _, env := range resp.Envelopes {
		if env.TimestampNS > maxSeen {
			maxSeen = env.TimestampNS
		}
		s, err := c.FromIntro(env)
		if err != nil {
			c.logger.Printf("registry: list: skipping intro envelope on %s: %v", env.ContentTopic, err)
			continue
		}
		if cur, ok := earliest[s.PeerAddress()]; !ok || s.CreatedAt() < cur {
			earliest[s.PeerAddress()] = s.CreatedAt()
		}
	}

	c.mu.Lock()
	if maxSeen > c.lastIntroSeenNS {
		c.lastIntroSeenNS = maxSeen
	}
	c.mu.Unlock()

	for peer, createdNS := range earliest {
		key := peerCtxKey(peer, domaintypes.InvitationContext{})
		s := session.NewSessionV1(c.self, peer, createdNS, c.relay, c.codecs, c.contacts, c)
		c.addSession(key, s)
	}
	return nil
}

// discoverFromInvite is discoverFromIntro's v2 analogue over self's invite
// channel.
func (c *Conversations) discoverFromInvite(ctx context.Context) error {
	c.mu.Lock()
	since := c.lastInviteSeenNS
	c.mu.Unlock()

	resp, err := c.relay.Query(ctx, domaintypes.QueryRequest{
		ContentTopics: []string{wireformat.InviteTopic(c.self.WalletAddress)},
		StartTimeNS:   since,
	})
	if err != nil {
		return fmt.Errorf("registry: query invite channel: %w", err)
	}

	var maxSeen uint64
	for _, env := range resp.Envelopes {
		if env.TimestampNS > maxSeen {
			maxSeen = env.TimestampNS
		}
		s, err := c.FromInvite(env)
		if err != nil {
			c.logger.Printf("registry: list: skipping invite envelope on %s: %v", env.ContentTopic, err)
			continue
		}
		c.addSession(peerCtxKey(s.PeerAddress(), s.InvitationContext()), s)
	}

	c.mu.Lock()
	if maxSeen > c.lastInviteSeenNS {
		c.lastInviteSeenNS = maxSeen
	}
	c.mu.Unlock()
	return nil
}
