package codec

import (
	"fmt"

	domaintypes "xmtpcore/internal/domain/types"
)

// TextContentType is the content type TextCodec handles.
var TextContentType = domaintypes.ContentTypeID{
	AuthorityID:  "xmtp.org",
	TypeID:       "text",
	VersionMajor: 1,
}

// TextCodec encodes and decodes plain UTF-8 strings.
type TextCodec struct{}

func (TextCodec) ContentType() domaintypes.ContentTypeID { return TextContentType }

func (TextCodec) Encode(content any) (domaintypes.EncodedContent, error) {
	s, ok := content.(string)
	if !ok {
		return domaintypes.EncodedContent{}, fmt.Errorf("codec: text codec expects a string, got %T", content)
	}
	return domaintypes.EncodedContent{
		Type:    TextContentType,
		Content: []byte(s),
	}, nil
}

func (TextCodec) Decode(encoded domaintypes.EncodedContent) (any, error) {
	return string(encoded.Content), nil
}

func (TextCodec) Fallback(content any) (string, bool) {
	s, ok := content.(string)
	return s, ok
}
