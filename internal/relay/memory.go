package relay

import (
	"context"
	"sort"
	"sync"

	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
)

// MemoryClient is an in-process RelayClient backed by a topic-keyed
// envelope log, guarded by a single mutex. It is used directly by tests
// and wrapped by cmd/relay's HTTP handlers for the standalone dev server.
type MemoryClient struct {
	mu        sync.Mutex
	byTopic   map[string][]domaintypes.Envelope
	listeners map[int]*memoryListener
	nextID    int
}

type memoryListener struct {
	topics map[string]bool
	ch     chan domaintypes.Envelope
}

// NewMemoryClient returns an empty in-process relay.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		byTopic:   make(map[string][]domaintypes.Envelope),
		listeners: make(map[int]*memoryListener),
	}
}

func (m *MemoryClient) Query(_ context.Context, req domaintypes.QueryRequest) (domaintypes.QueryResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []domaintypes.Envelope
	for _, topic := range req.ContentTopics {
		for _, env := range m.byTopic[topic] {
			if req.StartTimeNS != 0 && env.TimestampNS < req.StartTimeNS {
				continue
			}
			if req.EndTimeNS != 0 && env.TimestampNS > req.EndTimeNS {
				continue
			}
			matched = append(matched, env)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].TimestampNS < matched[j].TimestampNS })

	if req.PagingInfo != nil && req.PagingInfo.Limit > 0 && len(matched) > req.PagingInfo.Limit {
		matched = matched[:req.PagingInfo.Limit]
	}
	return domaintypes.QueryResponse{Envelopes: matched}, nil
}

func (m *MemoryClient) BatchQuery(ctx context.Context, reqs []domaintypes.QueryRequest) ([]domaintypes.QueryResponse, error) {
	out := make([]domaintypes.QueryResponse, len(reqs))
	for i, req := range reqs {
		resp, err := m.Query(ctx, req)
		if err != nil {
			return nil, err
		}
		out[i] = resp
	}
	return out, nil
}

func (m *MemoryClient) Publish(_ context.Context, envelopes []domaintypes.Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, env := range envelopes {
		m.byTopic[env.ContentTopic] = append(m.byTopic[env.ContentTopic], env)
		for _, l := range m.listeners {
			if l.topics[env.ContentTopic] {
				select {
				case l.ch <- env:
				default:
				}
			}
		}
	}
	return nil
}

func (m *MemoryClient) Subscribe(ctx context.Context, topics []string) (<-chan domaintypes.Envelope, <-chan error) {
	ch, _, _ := m.subscribe(ctx, topics)
	errs := make(chan error)
	return ch, errs
}

// SubscribeDynamic implements interfaces.DynamicSubscription: the returned
// addTopics function expands the listener's topic set without tearing down
// the channel.
func (m *MemoryClient) SubscribeDynamic(ctx context.Context, topics []string) (<-chan domaintypes.Envelope, <-chan error, func([]string)) {
	ch, id, listener := m.subscribe(ctx, topics)
	errs := make(chan error)
	addTopics := func(more []string) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.listeners[id]; !ok {
			return
		}
		for _, t := range more {
			listener.topics[t] = true
		}
	}
	return ch, errs, addTopics
}

func (m *MemoryClient) subscribe(ctx context.Context, topics []string) (chan domaintypes.Envelope, int, *memoryListener) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	listener := &memoryListener{
		topics: make(map[string]bool, len(topics)),
		ch:     make(chan domaintypes.Envelope, 64),
	}
	for _, t := range topics {
		listener.topics[t] = true
	}
	m.listeners[id] = listener
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
		close(listener.ch)
	}()

	return listener.ch, id, listener
}

var (
	_ interfaces.RelayClient         = (*MemoryClient)(nil)
	_ interfaces.DynamicSubscription = (*MemoryClient)(nil)
)
