// Package wireformat builds and parses the pub/sub topic strings and
// on-the-wire envelope bytes the core exchanges with the relay.
package wireformat

import (
	"encoding/base64"
	"fmt"
	"strings"

	domaintypes "xmtpcore/internal/domain/types"
)

const topicPrefix = "/xmtp/0/"
const topicSuffix = "/proto"

// DMTopic returns the v1 direct-message topic for a pair of addresses. The
// qualifier is the two 0x-hex addresses joined by "-" in strictly ascending
// byte order, regardless of call argument order, so both peers compute the
// same topic independent of who initiates.
func DMTopic(a, b domaintypes.WalletAddress) string {
	lo, hi := a, b
	if hi.Less(lo) {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("%sdm-%s-%s%s", topicPrefix, lo.String(), hi.String(), topicSuffix)
}

// IntroTopic returns the per-address introduction channel topic.
func IntroTopic(addr domaintypes.WalletAddress) string {
	return fmt.Sprintf("%sintro-%s%s", topicPrefix, addr.String(), topicSuffix)
}

// InviteTopic returns the per-address invitation channel topic.
func InviteTopic(addr domaintypes.WalletAddress) string {
	return fmt.Sprintf("%sinvite-%s%s", topicPrefix, addr.String(), topicSuffix)
}

// DeterministicV2Topic builds the opaque v2 conversation topic from an
// HMAC-derived topic seed, base64url-encoded without padding.
func DeterministicV2Topic(topicSeed []byte) string {
	return fmt.Sprintf("%sm-%s%s", topicPrefix, base64.RawURLEncoding.EncodeToString(topicSeed), topicSuffix)
}

// ExplicitV2Topic builds an opaque v2 conversation topic from caller-supplied
// random bytes (hex-encoded), used when the session is meant to be
// unguessable rather than derivable.
func ExplicitV2Topic(randomHex string) string {
	return fmt.Sprintf("%sm-%s%s", topicPrefix, randomHex, topicSuffix)
}

// Kind classifies a topic string by the grammar's <kind> segment.
type Kind int

const (
	KindUnknown Kind = iota
	KindDM
	KindIntro
	KindInvite
	KindV2
)

// ParseKind classifies topic without fully decoding its qualifier.
func ParseKind(topic string) Kind {
	if !strings.HasPrefix(topic, topicPrefix) || !strings.HasSuffix(topic, topicSuffix) {
		return KindUnknown
	}
	body := strings.TrimSuffix(strings.TrimPrefix(topic, topicPrefix), topicSuffix)
	switch {
	case strings.HasPrefix(body, "dm-"):
		return KindDM
	case strings.HasPrefix(body, "intro-"):
		return KindIntro
	case strings.HasPrefix(body, "invite-"):
		return KindInvite
	case strings.HasPrefix(body, "m-"):
		return KindV2
	default:
		return KindUnknown
	}
}

// IntroPeer extracts the address qualifier from an intro topic.
func IntroPeer(topic string) (domaintypes.WalletAddress, error) {
	return qualifierAddress(topic, "intro-")
}

// InvitePeer extracts the address qualifier from an invite topic.
func InvitePeer(topic string) (domaintypes.WalletAddress, error) {
	return qualifierAddress(topic, "invite-")
}

func qualifierAddress(topic, kindPrefix string) (domaintypes.WalletAddress, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(topic, topicPrefix), topicSuffix)
	qualifier := strings.TrimPrefix(body, kindPrefix)
	if qualifier == body {
		return domaintypes.WalletAddress{}, fmt.Errorf("wireformat: topic %q is not a %q topic", topic, kindPrefix)
	}
	return domaintypes.ParseWalletAddress(qualifier)
}
