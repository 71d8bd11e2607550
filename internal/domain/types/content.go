package types

import "fmt"

// ContentTypeID identifies a pluggable content codec.
type ContentTypeID struct {
	AuthorityID  string `json:"authority_id"`
	TypeID       string `json:"type_id"`
	VersionMajor uint32 `json:"version_major"`
	VersionMinor uint32 `json:"version_minor"`
}

// String renders a ContentTypeID the way it appears in EncodedContent.Type
// and in codec-registry lookups.
func (c ContentTypeID) String() string {
	return fmt.Sprintf("%s/%s:%d.%d", c.AuthorityID, c.TypeID, c.VersionMajor, c.VersionMinor)
}

// EncodedContent is the codec-agnostic wire shape content is sealed as.
type EncodedContent struct {
	Type       ContentTypeID     `json:"type"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Content    []byte            `json:"content"`
	Fallback   string            `json:"fallback,omitempty"`
	Compressed string            `json:"compressed,omitempty"`
}
