// Package session implements the two Conversation variants: SessionV1
// (direct-addressed, per-message ECDH) and SessionV2 (invitation-based,
// shared session key).
package session

import (
	"context"
	"fmt"

	"xmtpcore/internal/codec"
	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/identity"
	"xmtpcore/internal/messagev1"
	"xmtpcore/internal/wireformat"
)

// SessionV1 is a direct-addressed v1 session: no stored shared secret, a
// fresh four-way ECDH is performed on every send and every receive.
type SessionV1 struct {
	self        domaintypes.PrivateKeyBundle
	peer        domaintypes.WalletAddress
	createdAtNS uint64
	relay       interfaces.RelayClient
	codecs      *codec.Registry
	contacts    interfaces.ContactStore
	introduced  interfaces.IntroducedTracker
}

// NewSessionV1 constructs a v1 session for self's side of a conversation
// with peer. createdAtNS is the time the session was first observed,
// either locally (first send) or from an intro envelope's timestamp.
func NewSessionV1(self domaintypes.PrivateKeyBundle, peer domaintypes.WalletAddress, createdAtNS uint64, relay interfaces.RelayClient, codecs *codec.Registry, contacts interfaces.ContactStore, introduced interfaces.IntroducedTracker) *SessionV1 {
	return &SessionV1{
		self:        self,
		peer:        peer,
		createdAtNS: createdAtNS,
		relay:       relay,
		codecs:      codecs,
		contacts:    contacts,
		introduced:  introduced,
	}
}

func (s *SessionV1) Topic() string                          { return wireformat.DMTopic(s.self.WalletAddress, s.peer) }
func (s *SessionV1) PeerAddress() domaintypes.WalletAddress { return s.peer }
func (s *SessionV1) CreatedAt() uint64                      { return s.createdAtNS }

// Send encodes, optionally compresses, seals, and publishes content to the
// peer, introducing the peer on both intro channels the first time this
// session sends.
func (s *SessionV1) Send(ctx context.Context, content any, opts interfaces.SendOptions) error {
	if s.peer == s.self.WalletAddress {
		return domaintypes.NewError(domaintypes.KindInvalidArgument, "cannot send a v1 message to self", nil)
	}
	peerBundle, ok, err := s.contacts.LoadBundleV1(s.peer)
	if err != nil {
		return fmt.Errorf("session: load peer bundle: %w", err)
	}
	if !ok {
		return domaintypes.NewError(domaintypes.KindNotFound, "peer has no published v1 bundle", nil)
	}
	if err := identity.VerifyBundleV1(peerBundle); err != nil {
		return domaintypes.NewError(domaintypes.KindAuthFailure, "peer bundle failed verification", err)
	}

	encoded, err := s.codecs.Encode(opts.ContentType, content)
	if err != nil {
		return err
	}
	encoded, err = codec.Compress(encoded, opts.Compression)
	if err != nil {
		return fmt.Errorf("session: compress content: %w", err)
	}
	plaintext, err := marshalEncodedContent(encoded)
	if err != nil {
		return err
	}

	timestampNS := nowNS()
	msg, err := messagev1.Seal(s.self, peerBundle, plaintext, timestampNS)
	if err != nil {
		return fmt.Errorf("session: seal message: %w", err)
	}
	msgBytes, err := wireformat.MarshalMessageV1(msg)
	if err != nil {
		return err
	}

	envelope := domaintypes.Envelope{
		ContentTopic: s.Topic(),
		TimestampNS:  timestampNS,
		Message:      msgBytes,
	}
	envelopes := []domaintypes.Envelope{envelope}

	if !s.introduced.HasIntroduced(s.peer) {
		envelopes = append(envelopes,
			domaintypes.Envelope{ContentTopic: wireformat.IntroTopic(s.self.WalletAddress), TimestampNS: timestampNS, Message: msgBytes},
			domaintypes.Envelope{ContentTopic: wireformat.IntroTopic(s.peer), TimestampNS: timestampNS, Message: msgBytes},
		)
	}

	if err := s.relay.Publish(ctx, envelopes); err != nil {
		return fmt.Errorf("session: publish: %w", err)
	}
	if len(envelopes) > 1 {
		s.introduced.MarkIntroduced(s.peer)
	}
	return nil
}

// Messages queries the relay's dm topic and decodes each returned
// envelope, forwarding limit/before/after to the underlying query.
func (s *SessionV1) Messages(ctx context.Context, limit int, before, after uint64) ([]domaintypes.DecodedMessage, error) {
	resp, err := s.relay.Query(ctx, domaintypes.QueryRequest{
		ContentTopics: []string{s.Topic()},
		StartTimeNS:   after,
		EndTimeNS:     before,
		PagingInfo:    &domaintypes.PagingInfo{Limit: limit},
	})
	if err != nil {
		return nil, fmt.Errorf("session: query: %w", err)
	}

	out := make([]domaintypes.DecodedMessage, 0, len(resp.Envelopes))
	for _, env := range resp.Envelopes {
		decoded, ok := s.DecodeEnvelope(env)
		if !ok {
			continue
		}
		out = append(out, decoded)
	}
	return out, nil
}

// DecodeEnvelope unseals and decodes a single envelope already known to
// belong to this session's topic. It reports false on any failure
// (malformed wire bytes, auth failure, unregistered content type) rather
// than returning an error, since callers listing many envelopes across
// many sessions want to skip bad ones, not abort the batch.
func (s *SessionV1) DecodeEnvelope(env domaintypes.Envelope) (domaintypes.DecodedMessage, bool) {
	msg, err := wireformat.UnmarshalMessageV1(env.Message)
	if err != nil {
		return domaintypes.DecodedMessage{}, false
	}
	header, plaintext, err := messagev1.Open(s.self, msg)
	if err != nil {
		return domaintypes.DecodedMessage{}, false
	}
	encoded, err := unmarshalEncodedContent(plaintext)
	if err != nil {
		return domaintypes.DecodedMessage{}, false
	}
	encoded, err = codec.Decompress(encoded)
	if err != nil {
		return domaintypes.DecodedMessage{}, false
	}
	decoded, err := s.codecs.Decode(encoded)
	if err != nil {
		return domaintypes.DecodedMessage{}, false
	}
	return domaintypes.DecodedMessage{
		SenderAddress: header.Sender.WalletAddress,
		TimestampNS:   header.TimestampNS,
		Topic:         env.ContentTopic,
		Content:       decoded,
		ContentType:   encoded.Type,
	}, true
}

var _ interfaces.Conversation = (*SessionV1)(nil)
