package invitation_test

import (
	"bytes"
	"testing"

	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/identity"
	"xmtpcore/internal/invitation"
)

func makeParticipant(t *testing.T) domaintypes.PrivateKeyBundle {
	t.Helper()
	signer, err := identity.NewLocalWalletSigner()
	if err != nil {
		t.Fatalf("NewLocalWalletSigner: %v", err)
	}
	priv, _, err := identity.CreatePrivateKeyBundle(signer)
	if err != nil {
		t.Fatalf("CreatePrivateKeyBundle: %v", err)
	}
	return priv
}

func TestDeriveDeterministicAgreesFromBothSides(t *testing.T) {
	alice := makeParticipant(t)
	bob := makeParticipant(t)
	ctx := domaintypes.InvitationContext{ConversationID: "x"}

	fromAlice, err := invitation.DeriveDeterministic(alice.ToBundleV2(), alice.PreKeyPrivate, bob.ToBundleV2(), ctx)
	if err != nil {
		t.Fatalf("DeriveDeterministic(alice): %v", err)
	}
	fromBob, err := invitation.DeriveDeterministic(bob.ToBundleV2(), bob.PreKeyPrivate, alice.ToBundleV2(), ctx)
	if err != nil {
		t.Fatalf("DeriveDeterministic(bob): %v", err)
	}

	if fromAlice.Topic != fromBob.Topic {
		t.Fatalf("topics differ: alice=%q bob=%q", fromAlice.Topic, fromBob.Topic)
	}
	if fromAlice.KeyMaterial != fromBob.KeyMaterial {
		t.Fatal("key material differs between sides")
	}
}

func TestDeriveDeterministicVariesByContext(t *testing.T) {
	alice := makeParticipant(t)
	bob := makeParticipant(t)

	a, err := invitation.DeriveDeterministic(alice.ToBundleV2(), alice.PreKeyPrivate, bob.ToBundleV2(), domaintypes.InvitationContext{ConversationID: "x"})
	if err != nil {
		t.Fatalf("DeriveDeterministic: %v", err)
	}
	b, err := invitation.DeriveDeterministic(alice.ToBundleV2(), alice.PreKeyPrivate, bob.ToBundleV2(), domaintypes.InvitationContext{ConversationID: "y"})
	if err != nil {
		t.Fatalf("DeriveDeterministic: %v", err)
	}
	if a.Topic == b.Topic {
		t.Fatal("different contexts produced the same topic")
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	alice := makeParticipant(t)
	bob := makeParticipant(t)
	inv, err := invitation.DeriveDeterministic(alice.ToBundleV2(), alice.PreKeyPrivate, bob.ToBundleV2(), domaintypes.InvitationContext{})
	if err != nil {
		t.Fatalf("DeriveDeterministic: %v", err)
	}

	sealed, err := invitation.Seal(alice, alice.ToBundleV2(), bob.ToBundleV2(), inv, 1000)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	_, opened, err := invitation.Open(bob, sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened.Topic != inv.Topic {
		t.Fatalf("topic mismatch after open: got %q want %q", opened.Topic, inv.Topic)
	}
	if !bytes.Equal(opened.KeyMaterial[:], inv.KeyMaterial[:]) {
		t.Fatal("key material mismatch after open")
	}
}

func TestCreateExplicitProducesDistinctInvitations(t *testing.T) {
	a, err := invitation.CreateExplicit(domaintypes.InvitationContext{})
	if err != nil {
		t.Fatalf("CreateExplicit: %v", err)
	}
	b, err := invitation.CreateExplicit(domaintypes.InvitationContext{})
	if err != nil {
		t.Fatalf("CreateExplicit: %v", err)
	}
	if a.Topic == b.Topic {
		t.Fatal("two explicit invitations produced the same topic")
	}
	if a.KeyMaterial == b.KeyMaterial {
		t.Fatal("two explicit invitations produced the same key material")
	}
}
