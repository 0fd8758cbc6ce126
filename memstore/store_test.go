package memstore

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestRoundTripPreservesBytes(t *testing.T) {
	store := New()
	ctx := context.Background()

	payload := []byte{0x00, 0xff, 0x7f, 0x80, '\n'}
	if err := store.Set(ctx, "token-1", payload, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, found, err := store.Get(ctx, "token-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("entry missing after Set")
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload changed: got %v want %v", got, payload)
	}
}

func TestValuesAreCopied(t *testing.T) {
	store := New()
	ctx := context.Background()

	payload := []byte("original")
	if err := store.Set(ctx, "k", payload, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	payload[0] = 'X' // caller mutation after Set

	got, _, _ := store.Get(ctx, "k")
	if string(got) != "original" {
		t.Fatalf("stored value aliased the caller's slice: %q", got)
	}

	got[0] = 'Y' // caller mutation after Get
	again, _, _ := store.Get(ctx, "k")
	if string(again) != "original" {
		t.Fatalf("returned value aliased the stored slice: %q", again)
	}
}

func TestExpiredEntryIsCleanMiss(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	_, found, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("expiry must be a clean miss, got %v", err)
	}
	if found {
		t.Fatal("entry survived its TTL")
	}
}

func TestSetRejectsNonPositiveTTL(t *testing.T) {
	store := New()

	if err := store.Set(context.Background(), "k", []byte("x"), 0); err == nil {
		t.Fatal("zero TTL must be rejected")
	}
	if err := store.Set(context.Background(), "k", []byte("x"), -time.Second); err == nil {
		t.Fatal("negative TTL must be rejected")
	}
	if store.Len() != 0 {
		t.Fatalf("rejected Set left %d entries", store.Len())
	}
}

func TestDropIsIdempotent(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("x"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Drop(ctx, "k"); err != nil {
		t.Fatalf("first Drop: %v", err)
	}
	if err := store.Drop(ctx, "k"); err != nil {
		t.Fatalf("second Drop: %v", err)
	}
	if _, found, _ := store.Get(ctx, "k"); found {
		t.Fatal("entry still present after Drop")
	}
}
