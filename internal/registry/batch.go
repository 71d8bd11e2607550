package registry

import (
	"context"
	"fmt"

	domaintypes "xmtpcore/internal/domain/types"
)

// maxBatchSize bounds how many QueryRequests are dispatched as a single
// relay round trip.
const maxBatchSize = 50

// ListBatchMessages chunks reqs into groups of at most maxBatchSize,
// dispatches each group as one relay BatchQuery call, and flattens the
// results, dropping envelopes whose topic is not in the known-session map.
// Per-batch server order is preserved; there is no guaranteed order across
// batches.
func (c *Conversations) ListBatchMessages(ctx context.Context, reqs []domaintypes.QueryRequest) ([]domaintypes.Envelope, error) {
	var out []domaintypes.Envelope
	for _, batch := range chunkRequests(reqs) {
		resps, err := c.relay.BatchQuery(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("registry: batch query: %w", err)
		}
		for _, resp := range resps {
			for _, env := range resp.Envelopes {
				if !c.knownTopic(env.ContentTopic) {
					c.logger.Printf("registry: list_batch_messages: dropping envelope on unknown topic %s", env.ContentTopic)
					continue
				}
				out = append(out, env)
			}
		}
	}
	return out, nil
}

// ListBatchDecryptedMessages is ListBatchMessages followed by routing each
// surviving envelope through the session that owns its topic. Consumers
// depending on complete delivery must call List first to warm the registry,
// since an envelope whose session was never discovered is silently dropped.
func (c *Conversations) ListBatchDecryptedMessages(ctx context.Context, reqs []domaintypes.QueryRequest) ([]domaintypes.DecodedMessage, error) {
	envelopes, err := c.ListBatchMessages(ctx, reqs)
	if err != nil {
		return nil, err
	}

	out := make([]domaintypes.DecodedMessage, 0, len(envelopes))
	for _, env := range envelopes {
		c.mu.Lock()
		s, ok := c.sessions[env.ContentTopic]
		c.mu.Unlock()
		if !ok {
			continue
		}
		dec, ok := s.(decoder)
		if !ok {
			continue
		}
		msg, ok := dec.DecodeEnvelope(env)
		if !ok {
			c.logger.Printf("registry: list_batch_decrypted_messages: could not decode envelope on %s", env.ContentTopic)
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func chunkRequests(reqs []domaintypes.QueryRequest) [][]domaintypes.QueryRequest {
	if len(reqs) == 0 {
		return nil
	}
	var out [][]domaintypes.QueryRequest
	for len(reqs) > 0 {
		n := maxBatchSize
		if n > len(reqs) {
			n = len(reqs)
		}
		out = append(out, reqs[:n])
		reqs = reqs[n:]
	}
	return out
}
