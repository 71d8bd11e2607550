package registry

import (
	"context"

	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/wireformat"
)

// Stream subscribes to self's intro and invite channels and emits each
// newly discovered session exactly once, deduplicated by topic.
// Cancellation tears the subscriptions down and closes the returned channel
// without emitting further items; that is not an error.
func (c *Conversations) Stream(ctx context.Context) <-chan interfaces.Conversation {
	out := make(chan interfaces.Conversation)
	introEnvs, introErrs := c.relay.Subscribe(ctx, []string{wireformat.IntroTopic(c.self.WalletAddress)})
	inviteEnvs, inviteErrs := c.relay.Subscribe(ctx, []string{wireformat.InviteTopic(c.self.WalletAddress)})

	go func() {
		defer close(out)
		seen := make(map[string]bool)
		for {
			select {
			case <-ctx.Done():
				return
			case env, ok := <-introEnvs:
				if !ok {
					introEnvs = nil
					continue
				}
				s, err := c.FromIntro(env)
				if err != nil {
					c.logger.Printf("registry: stream: skipping intro envelope: %v", err)
					continue
				}
				c.emitIfNew(ctx, out, seen, s)
			case env, ok := <-inviteEnvs:
				if !ok {
					inviteEnvs = nil
					continue
				}
				s, err := c.FromInvite(env)
				if err != nil {
					c.logger.Printf("registry: stream: skipping invite envelope: %v", err)
					continue
				}
				c.emitIfNew(ctx, out, seen, s)
			case err, ok := <-introErrs:
				if ok {
					c.logger.Printf("registry: stream: intro transport error: %v", err)
				}
			case err, ok := <-inviteErrs:
				if ok {
					c.logger.Printf("registry: stream: invite transport error: %v", err)
				}
			}
		}
	}()
	return out
}

func (c *Conversations) emitIfNew(ctx context.Context, out chan<- interfaces.Conversation, seen map[string]bool, s interfaces.Conversation) {
	if seen[s.Topic()] {
		return
	}
	seen[s.Topic()] = true
	c.addSession(sessionKey(s), s)
	select {
	case out <- s:
	case <-ctx.Done():
	}
}

// StreamAllMessages subscribes to introductions, invitations, and every
// currently known conversation topic, emitting the raw envelope for every
// message routed to an already-known session. On receiving a new intro or
// invite, it constructs the session and expands the subscription's topic
// set — via DynamicSubscription if the relay offers it, otherwise by
// cancelling and resubscribing with the grown topic list.
func (c *Conversations) StreamAllMessages(ctx context.Context) <-chan domaintypes.Envelope {
	return c.streamAll(ctx)
}

// StreamAllDecryptedMessages is StreamAllMessages with every envelope
// additionally decoded through its owning session before being emitted.
func (c *Conversations) StreamAllDecryptedMessages(ctx context.Context) <-chan domaintypes.DecodedMessage {
	raw := c.streamAll(ctx)
	out := make(chan domaintypes.DecodedMessage)
	go func() {
		defer close(out)
		for env := range raw {
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
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (c *Conversations) streamAll(ctx context.Context) <-chan domaintypes.Envelope {
	out := make(chan domaintypes.Envelope)
	topics := c.initialStreamTopics()
	if dyn, ok := c.relay.(interfaces.DynamicSubscription); ok {
		// Subscribe before returning, so envelopes published right after
		// the caller gets the channel are not missed.
		envs, errs, addTopics := dyn.SubscribeDynamic(ctx, topics)
		go func() {
			defer close(out)
			c.streamDynamic(ctx, envs, errs, addTopics, out)
		}()
		return out
	}
	go func() {
		defer close(out)
		c.streamWithResubscribe(ctx, topics, out)
	}()
	return out
}

func (c *Conversations) initialStreamTopics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	topics := make([]string, 0, len(c.sessions)+2)
	topics = append(topics, wireformat.IntroTopic(c.self.WalletAddress), wireformat.InviteTopic(c.self.WalletAddress))
	for topic := range c.sessions {
		topics = append(topics, topic)
	}
	return topics
}

func (c *Conversations) streamDynamic(ctx context.Context, envs <-chan domaintypes.Envelope, errs <-chan error, addTopics func([]string), out chan<- domaintypes.Envelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			c.logger.Printf("registry: stream all: transport error: %v", err)
		case env, ok := <-envs:
			if !ok {
				return
			}
			if newTopic := c.handleStreamEnvelope(ctx, env, out); newTopic != "" {
				addTopics([]string{newTopic})
			}
		}
	}
}

// streamWithResubscribe is the fallback for relays that do not implement
// DynamicSubscription: it cancels and resubscribes with the grown topic set
// any time a new session is discovered, and retries indefinitely if the
// relay ends the stream (transport "unavailable").
func (c *Conversations) streamWithResubscribe(ctx context.Context, topics []string, out chan<- domaintypes.Envelope) {
	for ctx.Err() == nil {
		subCtx, cancel := context.WithCancel(ctx)
		envs, errs := c.relay.Subscribe(subCtx, topics)
		newTopic := c.drainUntilExpansion(ctx, envs, errs, out)
		cancel()
		if ctx.Err() != nil {
			return
		}
		if newTopic != "" {
			topics = append(topics, newTopic)
		}
	}
}

// drainUntilExpansion forwards envelopes on the current subscription until
// a new session is discovered (returning its topic) or the subscription
// ends on its own (returning "").
func (c *Conversations) drainUntilExpansion(ctx context.Context, envs <-chan domaintypes.Envelope, errs <-chan error, out chan<- domaintypes.Envelope) string {
	for {
		select {
		case <-ctx.Done():
			return ""
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			c.logger.Printf("registry: stream all: transport error, retrying: %v", err)
		case env, ok := <-envs:
			if !ok {
				return ""
			}
			if newTopic := c.handleStreamEnvelope(ctx, env, out); newTopic != "" {
				return newTopic
			}
		}
	}
}

// handleStreamEnvelope routes env by topic kind: a new intro/invite yields
// a freshly discovered session whose topic must be added to the
// subscription (returned non-empty); an envelope on an already-known
// session topic is forwarded to out and "" is returned.
func (c *Conversations) handleStreamEnvelope(ctx context.Context, env domaintypes.Envelope, out chan<- domaintypes.Envelope) string {
	switch wireformat.ParseKind(env.ContentTopic) {
	case wireformat.KindIntro:
		s, err := c.FromIntro(env)
		if err != nil {
			c.logger.Printf("registry: stream all: skipping intro envelope: %v", err)
			return ""
		}
		if c.addSession(sessionKey(s), s) {
			return s.Topic()
		}
		return ""
	case wireformat.KindInvite:
		s, err := c.FromInvite(env)
		if err != nil {
			c.logger.Printf("registry: stream all: skipping invite envelope: %v", err)
			return ""
		}
		if c.addSession(sessionKey(s), s) {
			return s.Topic()
		}
		return ""
	default:
		if c.knownTopic(env.ContentTopic) {
			select {
			case out <- env:
			case <-ctx.Done():
			}
		}
		return ""
	}
}
