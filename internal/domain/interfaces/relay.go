package interfaces

import (
	"context"

	domaintypes "xmtpcore/internal/domain/types"
)

// RelayClient is the untrusted pub/sub transport the core consumes. It is an
// external collaborator: the core never assumes a particular relay
// implementation, only this contract.
type RelayClient interface {
	// Query returns envelopes matching req, newest caller-visible page first
	// if req.PagingInfo.Forward is false.
	Query(ctx context.Context, req domaintypes.QueryRequest) (domaintypes.QueryResponse, error)

	// BatchQuery dispatches multiple QueryRequests as one relay round trip.
	// Callers are responsible for chunking to at most 50 requests per call;
	// exceeding that is a caller bug, not something BatchQuery enforces.
	BatchQuery(ctx context.Context, reqs []domaintypes.QueryRequest) ([]domaintypes.QueryResponse, error)

	// Publish sends envelopes to the relay for distribution to subscribers
	// of their topics.
	Publish(ctx context.Context, envelopes []domaintypes.Envelope) error

	// Subscribe opens a server-push stream over the given topics. The
	// returned channel is closed when ctx is cancelled or the stream ends;
	// errs receives transport errors without closing envelopes early.
	Subscribe(ctx context.Context, topics []string) (envelopes <-chan domaintypes.Envelope, errs <-chan error)
}

// DynamicSubscription is an optional richer contract: a relay that can
// re-scope an open stream's topic set without tearing it down. RelayClient
// implementations that cannot support this leave it unimplemented; callers
// type-assert for it and fall back to cancel+resubscribe when absent (see
// internal/registry).
type DynamicSubscription interface {
	// SubscribeDynamic behaves like Subscribe, but topics may be appended to
	// after the call returns via the returned AddTopics function.
	SubscribeDynamic(ctx context.Context, topics []string) (
		envelopes <-chan domaintypes.Envelope,
		errs <-chan error,
		addTopics func(more []string),
	)
}
