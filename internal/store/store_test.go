package store_test

import (
	"testing"

	domaintypes "xmtpcore/internal/domain/types"
	"xmtpcore/internal/store"
)

func TestKeyFileStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ks := store.NewKeyFileStore(dir)

	bundle := domaintypes.PrivateKeyBundle{WalletAddress: domaintypes.WalletAddress{1, 2, 3}}
	if err := ks.SavePrivateKeyBundle("correct horse", bundle); err != nil {
		t.Fatalf("SavePrivateKeyBundle: %v", err)
	}

	got, err := ks.LoadPrivateKeyBundle("correct horse")
	if err != nil {
		t.Fatalf("LoadPrivateKeyBundle: %v", err)
	}
	if got.WalletAddress != bundle.WalletAddress {
		t.Fatalf("got %+v want %+v", got, bundle)
	}
}

func TestKeyFileStoreWrongPassphraseFails(t *testing.T) {
	dir := t.TempDir()
	ks := store.NewKeyFileStore(dir)

	bundle := domaintypes.PrivateKeyBundle{WalletAddress: domaintypes.WalletAddress{9}}
	if err := ks.SavePrivateKeyBundle("right", bundle); err != nil {
		t.Fatalf("SavePrivateKeyBundle: %v", err)
	}
	if _, err := ks.LoadPrivateKeyBundle("wrong"); err == nil {
		t.Fatal("expected an error with the wrong passphrase")
	}
}

func TestSessionRecordFileStoreSaveLoadList(t *testing.T) {
	dir := t.TempDir()
	rs := store.NewSessionRecordFileStore(dir)

	rec := domaintypes.SessionRecord{PeerAddress: domaintypes.WalletAddress{4, 5}, CreatedNS: 42}
	if err := rs.SaveSessionRecord("topic-a", rec); err != nil {
		t.Fatalf("SaveSessionRecord: %v", err)
	}

	got, ok, err := rs.LoadSessionRecord("topic-a")
	if err != nil {
		t.Fatalf("LoadSessionRecord: %v", err)
	}
	if !ok || got.CreatedNS != 42 {
		t.Fatalf("got %+v, ok=%v", got, ok)
	}

	if _, ok, err := rs.LoadSessionRecord("missing"); err != nil || ok {
		t.Fatalf("LoadSessionRecord(missing): ok=%v err=%v", ok, err)
	}

	all, err := rs.ListSessionRecords()
	if err != nil {
		t.Fatalf("ListSessionRecords: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d records, want 1", len(all))
	}
}

func TestContactFileStoreSavesBothBundleVersionsIndependently(t *testing.T) {
	dir := t.TempDir()
	cs := store.NewContactFileStore(dir)
	peer := domaintypes.WalletAddress{7, 7, 7}

	if err := cs.SaveBundleV1(peer, domaintypes.PublicKeyBundleV1{WalletAddress: peer}); err != nil {
		t.Fatalf("SaveBundleV1: %v", err)
	}
	if _, ok, err := cs.LoadBundleV2(peer); err != nil || ok {
		t.Fatalf("LoadBundleV2 before save: ok=%v err=%v", ok, err)
	}

	if err := cs.SaveBundleV2(peer, domaintypes.PublicKeyBundleV2{WalletAddress: peer}); err != nil {
		t.Fatalf("SaveBundleV2: %v", err)
	}

	v1, ok, err := cs.LoadBundleV1(peer)
	if err != nil || !ok || v1.WalletAddress != peer {
		t.Fatalf("LoadBundleV1: v1=%+v ok=%v err=%v", v1, ok, err)
	}
	v2, ok, err := cs.LoadBundleV2(peer)
	if err != nil || !ok || v2.WalletAddress != peer {
		t.Fatalf("LoadBundleV2: v2=%+v ok=%v err=%v", v2, ok, err)
	}
}
