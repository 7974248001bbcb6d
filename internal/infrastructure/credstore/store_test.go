package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/autoaccessories/pos-gateway/internal/core/ports"
)

// runStoreContract exercises the behavior every CredentialStore must share.
func runStoreContract(t *testing.T, store ports.CredentialStore) {
	t.Helper()
	ctx := context.Background()

	// Empty slots read as "".
	for _, slot := range ports.Slots {
		v, err := store.Get(ctx, slot)
		if err != nil {
			t.Fatalf("get empty %s: %v", slot, err)
		}
		if v != "" {
			t.Fatalf("expected empty %s, got %q", slot, v)
		}
	}

	if err := store.Set(ctx, ports.SlotAccessToken, "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, ports.SlotRefreshToken, "ref-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := store.Get(ctx, ports.SlotAccessToken); v != "tok-1" {
		t.Fatalf("round trip failed, got %q", v)
	}

	// Overwrite replaces.
	if err := store.Set(ctx, ports.SlotAccessToken, "tok-2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _ := store.Get(ctx, ports.SlotAccessToken); v != "tok-2" {
		t.Fatalf("overwrite not visible, got %q", v)
	}

	// Clear wipes every slot and is idempotent.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	for _, slot := range ports.Slots {
		if v, _ := store.Get(ctx, slot); v != "" {
			t.Fatalf("slot %s survived clear: %q", slot, v)
		}
	}
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, NewMemory())
}

func TestFileStoreContract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "credentials.json")
	runStoreContract(t, NewFile(path))
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")

	first := NewFile(path)
	if err := first.Set(ctx, ports.SlotProfile, `{"user":{"username":"ali"}}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	second := NewFile(path)
	v, err := second.Get(ctx, ports.SlotProfile)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != `{"user":{"username":"ali"}}` {
		t.Fatalf("profile did not survive restart, got %q", v)
	}
}

func TestFileStorePermissions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "secure", "credentials.json")
	store := NewFile(path)

	if err := store.Set(ctx, ports.SlotAccessToken, "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("credentials file must be 0600, got %o", perm)
	}
}

func TestFileStoreTreatsCorruptFileAsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("not json {"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	store := NewFile(path)
	v, err := store.Get(ctx, ports.SlotAccessToken)
	if err != nil {
		t.Fatalf("corrupt file must not error: %v", err)
	}
	if v != "" {
		t.Fatalf("corrupt file should read as empty, got %q", v)
	}

	// And writing recovers the file.
	if err := store.Set(ctx, ports.SlotAccessToken, "tok-1"); err != nil {
		t.Fatalf("set after corruption: %v", err)
	}
	if v, _ := store.Get(ctx, ports.SlotAccessToken); v != "tok-1" {
		t.Fatalf("store did not recover, got %q", v)
	}
}
