package registry_test

import (
	"context"
	"testing"
	"time"

	"xmtpcore/internal/codec"
	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/identity"
	"xmtpcore/internal/registry"
	"xmtpcore/internal/relay"
)

type fakeContacts struct {
	v1 map[domaintypes.WalletAddress]domaintypes.PublicKeyBundleV1
	v2 map[domaintypes.WalletAddress]domaintypes.PublicKeyBundleV2
}

func newFakeContacts() *fakeContacts {
	return &fakeContacts{
		v1: make(map[domaintypes.WalletAddress]domaintypes.PublicKeyBundleV1),
		v2: make(map[domaintypes.WalletAddress]domaintypes.PublicKeyBundleV2),
	}
}

func (f *fakeContacts) LoadBundleV1(peer domaintypes.WalletAddress) (domaintypes.PublicKeyBundleV1, bool, error) {
	b, ok := f.v1[peer]
	return b, ok, nil
}

func (f *fakeContacts) LoadBundleV2(peer domaintypes.WalletAddress) (domaintypes.PublicKeyBundleV2, bool, error) {
	b, ok := f.v2[peer]
	return b, ok, nil
}

var _ interfaces.ContactStore = (*fakeContacts)(nil)

type participant struct {
	bundle   domaintypes.PrivateKeyBundle
	contacts *fakeContacts
	registry *registry.Conversations
}

func newParticipant(t *testing.T, r interfaces.RelayClient) *participant {
	t.Helper()
	signer, err := identity.NewLocalWalletSigner()
	if err != nil {
		t.Fatalf("NewLocalWalletSigner: %v", err)
	}
	bundle, _, err := identity.CreatePrivateKeyBundle(signer)
	if err != nil {
		t.Fatalf("CreatePrivateKeyBundle: %v", err)
	}
	contacts := newFakeContacts()
	return &participant{
		bundle:   bundle,
		contacts: contacts,
		registry: registry.New(bundle, r, codec.NewRegistry(), contacts, nil),
	}
}

func introduce(a, b *participant) {
	a.contacts.v1[b.bundle.WalletAddress] = b.bundle.ToBundleV1()
	b.contacts.v1[a.bundle.WalletAddress] = a.bundle.ToBundleV1()
	a.contacts.v2[b.bundle.WalletAddress] = b.bundle.ToBundleV2()
	b.contacts.v2[a.bundle.WalletAddress] = a.bundle.ToBundleV2()
}

func TestNewConversationV1SendIntroducesOnBothChannels(t *testing.T) {
	r := relay.NewMemoryClient()
	alice := newParticipant(t, r)
	bob := newParticipant(t, r)
	introduce(alice, bob)
	ctx := context.Background()

	conv, err := alice.registry.NewConversation(ctx, bob.bundle.WalletAddress, domaintypes.InvitationContext{})
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if err := conv.Send(ctx, "hello bob", interfaces.SendOptions{ContentType: codec.TextContentType}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	bobList, err := bob.registry.List(ctx)
	if err != nil {
		t.Fatalf("Bob List: %v", err)
	}
	if len(bobList) != 1 {
		t.Fatalf("bob discovered %d sessions, want 1", len(bobList))
	}
	if !bobList[0].PeerAddress().Equal(alice.bundle.WalletAddress) {
		t.Fatalf("bob's discovered session has wrong peer")
	}

	msgs, err := bobList[0].Messages(ctx, 0, 0, 0)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content.(string) != "hello bob" {
		t.Fatalf("got messages %+v", msgs)
	}
}

func TestNewConversationV2RoundTripsViaInviteChannel(t *testing.T) {
	r := relay.NewMemoryClient()
	alice := newParticipant(t, r)
	bob := newParticipant(t, r)
	introduce(alice, bob)
	ctx := context.Background()

	inviteCtx := domaintypes.InvitationContext{ConversationID: "project-x"}
	aliceConv, err := alice.registry.NewConversation(ctx, bob.bundle.WalletAddress, inviteCtx)
	if err != nil {
		t.Fatalf("Alice NewConversation: %v", err)
	}
	if err := aliceConv.Send(ctx, "let's talk", interfaces.SendOptions{ContentType: codec.TextContentType}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	bobList, err := bob.registry.List(ctx)
	if err != nil {
		t.Fatalf("Bob List: %v", err)
	}
	if len(bobList) != 1 {
		t.Fatalf("bob discovered %d sessions, want 1", len(bobList))
	}
	if bobList[0].Topic() != aliceConv.Topic() {
		t.Fatalf("topics disagree: alice=%s bob=%s", aliceConv.Topic(), bobList[0].Topic())
	}

	msgs, err := bobList[0].Messages(ctx, 0, 0, 0)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content.(string) != "let's talk" {
		t.Fatalf("got messages %+v", msgs)
	}
}

func TestNewConversationReusesExistingSessionForSamePeerAndContext(t *testing.T) {
	r := relay.NewMemoryClient()
	alice := newParticipant(t, r)
	bob := newParticipant(t, r)
	introduce(alice, bob)
	ctx := context.Background()

	first, err := alice.registry.NewConversation(ctx, bob.bundle.WalletAddress, domaintypes.InvitationContext{})
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	second, err := alice.registry.NewConversation(ctx, bob.bundle.WalletAddress, domaintypes.InvitationContext{})
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if first.Topic() != second.Topic() {
		t.Fatalf("expected the same session to be reused, got different topics %s vs %s", first.Topic(), second.Topic())
	}
}

func TestListBatchMessagesDropsUnknownTopicsAndChunks(t *testing.T) {
	r := relay.NewMemoryClient()
	alice := newParticipant(t, r)
	bob := newParticipant(t, r)
	introduce(alice, bob)
	ctx := context.Background()

	conv, err := alice.registry.NewConversation(ctx, bob.bundle.WalletAddress, domaintypes.InvitationContext{})
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if err := conv.Send(ctx, "batched", interfaces.SendOptions{ContentType: codec.TextContentType}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if _, err := bob.registry.List(ctx); err != nil {
		t.Fatalf("Bob List: %v", err)
	}

	reqs := make([]domaintypes.QueryRequest, 0, 60)
	reqs = append(reqs, domaintypes.QueryRequest{ContentTopics: []string{conv.Topic()}})
	for i := 0; i < 60; i++ {
		reqs = append(reqs, domaintypes.QueryRequest{ContentTopics: []string{"/xmtp/0/dm-unknown-unknown/proto"}})
	}

	msgs, err := bob.registry.ListBatchDecryptedMessages(ctx, reqs)
	if err != nil {
		t.Fatalf("ListBatchDecryptedMessages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d decrypted messages, want 1 (unknown topics should be dropped)", len(msgs))
	}
}

func TestStreamEmitsNewlyDiscoveredSession(t *testing.T) {
	r := relay.NewMemoryClient()
	alice := newParticipant(t, r)
	bob := newParticipant(t, r)
	introduce(alice, bob)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := bob.registry.Stream(ctx)

	conv, err := alice.registry.NewConversation(context.Background(), bob.bundle.WalletAddress, domaintypes.InvitationContext{})
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if err := conv.Send(context.Background(), "hi", interfaces.SendOptions{ContentType: codec.TextContentType}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case s := <-sessions:
		if !s.PeerAddress().Equal(alice.bundle.WalletAddress) {
			t.Fatalf("got session for wrong peer")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for discovered session on stream")
	}
}

func TestStreamAllMessagesExpandsTopicSetOnNewInvitation(t *testing.T) {
	r := relay.NewMemoryClient()
	alice := newParticipant(t, r)
	bob := newParticipant(t, r)
	introduce(alice, bob)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envelopes := bob.registry.StreamAllMessages(ctx)

	conv, err := alice.registry.NewConversation(context.Background(), bob.bundle.WalletAddress, domaintypes.InvitationContext{ConversationID: "stream-test"})
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}

	// Give the background subscription goroutine a chance to observe the
	// invitation and expand its topic set before the message is sent.
	time.Sleep(50 * time.Millisecond)

	if err := conv.Send(context.Background(), "expanded", interfaces.SendOptions{ContentType: codec.TextContentType}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case env := <-envelopes:
		if env.ContentTopic != conv.Topic() {
			t.Fatalf("got envelope on %s, want %s", env.ContentTopic, conv.Topic())
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message on newly discovered topic")
	}
}
