package interfaces

import (
	"context"

	domaintypes "xmtpcore/internal/domain/types"
)

// SendOptions configures an outbound message: the declared content type, an
// optional compression scheme, and whether the relay should treat it as
// push-worthy (v2 only).
type SendOptions struct {
	ContentType domaintypes.ContentTypeID
	Compression CompressionKind
	ShouldPush  bool
}

// CompressionKind names the optional deflate/gzip compression applied to
// encoded content before sealing.
type CompressionKind int

const (
	CompressionNone CompressionKind = iota
	CompressionDeflate
	CompressionGzip
)

// Conversation is the shared operation surface of SessionV1 and SessionV2: a
// tagged union dispatched through one interface so callers never branch on
// protocol version.
type Conversation interface {
	Topic() string
	PeerAddress() domaintypes.WalletAddress
	CreatedAt() uint64

	Send(ctx context.Context, content any, opts SendOptions) error
	Messages(ctx context.Context, limit int, before, after uint64) ([]domaintypes.DecodedMessage, error)
}
