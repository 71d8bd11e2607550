package interfaces

import domaintypes "xmtpcore/internal/domain/types"

// ContentCodec is the pluggable encode/decode contract keyed by
// ContentTypeID. Implementations are registered in internal/codec.Registry
// before any send/receive operation runs.
type ContentCodec interface {
	ContentType() domaintypes.ContentTypeID
	Encode(content any) (domaintypes.EncodedContent, error)
	Decode(encoded domaintypes.EncodedContent) (any, error)
	Fallback(content any) (string, bool)
}
