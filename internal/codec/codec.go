// Package codec implements the pluggable content-codec registry and a
// built-in plain-text codec.
package codec

import (
	"fmt"
	"sync"

	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
)

// Registry is a process-wide, concurrency-safe mapping from ContentTypeID
// to the codec that handles it. Treat it as eagerly populated before any
// send/receive operation; the core does not lazily discover codecs.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]interfaces.ContentCodec
}

// NewRegistry returns a registry holding only the built-in TextCodec, mirroring the one content type the core itself depends
// on for CLI demos and tests.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[string]interfaces.ContentCodec)}
	r.Register(TextCodec{})
	return r
}

// Register adds or replaces the codec for its ContentType.
func (r *Registry) Register(c interfaces.ContentCodec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[c.ContentType().String()] = c
}

// Lookup returns the codec registered for id, or an InvalidArgument error
// if none is registered.
func (r *Registry) Lookup(id domaintypes.ContentTypeID) (interfaces.ContentCodec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[id.String()]
	if !ok {
		return nil, domaintypes.NewError(domaintypes.KindInvalidArgument, fmt.Sprintf("no codec registered for content type %s", id), nil)
	}
	return c, nil
}

// Encode looks up the codec for content's declared type and encodes it.
func (r *Registry) Encode(contentType domaintypes.ContentTypeID, content any) (domaintypes.EncodedContent, error) {
	c, err := r.Lookup(contentType)
	if err != nil {
		return domaintypes.EncodedContent{}, err
	}
	return c.Encode(content)
}

// Decode looks up the codec for encoded.Type and decodes it.
func (r *Registry) Decode(encoded domaintypes.EncodedContent) (any, error) {
	c, err := r.Lookup(encoded.Type)
	if err != nil {
		return nil, err
	}
	return c.Decode(encoded)
}
