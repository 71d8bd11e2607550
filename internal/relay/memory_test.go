package relay_test

import (
	"context"
	"testing"
	"time"

	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/relay"
)

func TestMemoryClientPublishAndQuery(t *testing.T) {
	c := relay.NewMemoryClient()
	ctx := context.Background()

	err := c.Publish(ctx, []domaintypes.Envelope{
		{ContentTopic: "t1", TimestampNS: 1, Message: []byte("a")},
		{ContentTopic: "t1", TimestampNS: 2, Message: []byte("b")},
		{ContentTopic: "t2", TimestampNS: 3, Message: []byte("c")},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	resp, err := c.Query(ctx, domaintypes.QueryRequest{ContentTopics: []string{"t1"}})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(resp.Envelopes) != 2 {
		t.Fatalf("got %d envelopes want 2", len(resp.Envelopes))
	}
}

func TestMemoryClientBatchQueryChunking(t *testing.T) {
	c := relay.NewMemoryClient()
	ctx := context.Background()
	reqs := make([]domaintypes.QueryRequest, 3)
	for i := range reqs {
		reqs[i] = domaintypes.QueryRequest{ContentTopics: []string{"t"}}
	}
	resps, err := c.BatchQuery(ctx, reqs)
	if err != nil {
		t.Fatalf("BatchQuery: %v", err)
	}
	if len(resps) != 3 {
		t.Fatalf("got %d responses want 3", len(resps))
	}
}

func TestMemoryClientSubscribeDeliversPublishedEnvelopes(t *testing.T) {
	c := relay.NewMemoryClient()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envs, _ := c.Subscribe(ctx, []string{"t1"})

	if err := c.Publish(ctx, []domaintypes.Envelope{{ContentTopic: "t1", TimestampNS: 1, Message: []byte("hi")}}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case env := <-envs:
		if string(env.Message) != "hi" {
			t.Fatalf("got %q want %q", env.Message, "hi")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for subscribed envelope")
	}
}

func TestSubscribeDynamicExpandsTopicSet(t *testing.T) {
	c := relay.NewMemoryClient()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envs, _, addTopics := c.SubscribeDynamic(ctx, []string{"t1"})
	addTopics([]string{"t2"})

	if err := c.Publish(ctx, []domaintypes.Envelope{{ContentTopic: "t2", TimestampNS: 1, Message: []byte("hi")}}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case env := <-envs:
		if string(env.Message) != "hi" {
			t.Fatalf("got %q want %q", env.Message, "hi")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for envelope on newly added topic")
	}
}
