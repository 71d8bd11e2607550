package session

import (
	"context"
	"fmt"

	"xmtpcore/internal/codec"
	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/messagev2"
	"xmtpcore/internal/wireformat"
)

// SessionV2 is an invitation-based session: both sides hold the same
// 32-byte key material and seal every message under it directly, with no
// per-message ECDH.
type SessionV2 struct {
	selfBundle  domaintypes.PublicKeyBundleV2
	peer        domaintypes.WalletAddress
	topic       string
	keyMaterial [32]byte
	context     domaintypes.InvitationContext
	createdNS   uint64
	relay       interfaces.RelayClient
	codecs      *codec.Registry
}

// NewSessionV2 constructs a v2 session from its already-derived topic and
// key material — the output of either a deterministic derivation or an
// opened invitation.
func NewSessionV2(
	selfBundle domaintypes.PublicKeyBundleV2, peer domaintypes.WalletAddress,
	topic string, keyMaterial [32]byte, ctx domaintypes.InvitationContext, createdNS uint64,
	relay interfaces.RelayClient, codecs *codec.Registry,
) *SessionV2 {
	return &SessionV2{
		selfBundle:  selfBundle,
		peer:        peer,
		topic:       topic,
		keyMaterial: keyMaterial,
		context:     ctx,
		createdNS:   createdNS,
		relay:       relay,
		codecs:      codecs,
	}
}

func (s *SessionV2) Topic() string                         { return s.topic }
func (s *SessionV2) PeerAddress() domaintypes.WalletAddress { return s.peer }
func (s *SessionV2) CreatedAt() uint64                      { return s.createdNS }

// InvitationContext returns the context this session was derived or opened
// with, used by the registry to key sessions by (peer, conversation id).
func (s *SessionV2) InvitationContext() domaintypes.InvitationContext { return s.context }

// KeyMaterial exposes the session's shared secret so it can be persisted
// into a SessionRecord for later reconstruction via ImportTopicData.
func (s *SessionV2) KeyMaterial() [32]byte { return s.keyMaterial }

// Send encodes, optionally compresses, seals, and publishes content on the
// session's topic.
func (s *SessionV2) Send(ctx context.Context, content any, opts interfaces.SendOptions) error {
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

	header := domaintypes.MessageHeaderV2{
		Sender:      s.selfBundle,
		TimestampNS: nowNS(),
	}
	headerBytes, err := wireformat.SerializeHeaderV2(header)
	if err != nil {
		return err
	}
	msg, err := messagev2.Seal(s.keyMaterial, header, headerBytes, plaintext, opts.ShouldPush)
	if err != nil {
		return fmt.Errorf("session: seal message: %w", err)
	}
	msgBytes, err := wireformat.MarshalMessageV2(msg)
	if err != nil {
		return err
	}

	envelope := domaintypes.Envelope{
		ContentTopic: s.topic,
		TimestampNS:  header.TimestampNS,
		Message:      msgBytes,
	}
	if err := s.relay.Publish(ctx, []domaintypes.Envelope{envelope}); err != nil {
		return fmt.Errorf("session: publish: %w", err)
	}
	return nil
}

// Messages queries the relay's session topic and decodes each returned
// envelope.
func (s *SessionV2) Messages(ctx context.Context, limit int, before, after uint64) ([]domaintypes.DecodedMessage, error) {
	resp, err := s.relay.Query(ctx, domaintypes.QueryRequest{
		ContentTopics: []string{s.topic},
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
// belong to this session's topic, reporting false rather than an error on
// any failure so batch listers can skip bad envelopes.
func (s *SessionV2) DecodeEnvelope(env domaintypes.Envelope) (domaintypes.DecodedMessage, bool) {
	msg, err := wireformat.UnmarshalMessageV2(env.Message)
	if err != nil {
		return domaintypes.DecodedMessage{}, false
	}
	plaintext, err := messagev2.Open(s.keyMaterial, msg)
	if err != nil {
		return domaintypes.DecodedMessage{}, false
	}
	header, err := wireformat.ParseHeaderV2(msg.HeaderBytes)
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

var _ interfaces.Conversation = (*SessionV2)(nil)
