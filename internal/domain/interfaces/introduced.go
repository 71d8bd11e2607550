package interfaces

import domaintypes "xmtpcore/internal/domain/types"

// IntroducedTracker records which v1 peers have already been sent an
// introduction, so a session only publishes to the intro channels on its
// first outbound message to a given peer.
type IntroducedTracker interface {
	HasIntroduced(peer domaintypes.WalletAddress) bool
	MarkIntroduced(peer domaintypes.WalletAddress)
}
