package session

import (
	"encoding/json"
	"fmt"
	"time"

	domaintypes "xmtpcore/internal/domain/types"
)

func nowNS() uint64 { return uint64(time.Now().UnixNano()) }

func marshalEncodedContent(ec domaintypes.EncodedContent) ([]byte, error) {
	b, err := json.Marshal(ec)
	if err != nil {
		return nil, fmt.Errorf("session: marshal encoded content: %w", err)
	}
	return b, nil
}

func unmarshalEncodedContent(b []byte) (domaintypes.EncodedContent, error) {
	var ec domaintypes.EncodedContent
	if err := json.Unmarshal(b, &ec); err != nil {
		return domaintypes.EncodedContent{}, fmt.Errorf("session: unmarshal encoded content: %w", err)
	}
	return ec, nil
}
