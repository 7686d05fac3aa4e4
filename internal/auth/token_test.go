package auth

import (
	"os"
	"runtime"
	"testing"
)

func TestTokenStore_LoadMissing(t *testing.T) {
	t.Parallel()
	store := NewTokenStore(t.TempDir())

	tok, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tok != nil {
		t.Errorf("expected nil token for empty store, got %+v", tok)
	}
}

func TestTokenStore_SaveAndLoad(t *testing.T) {
	t.Parallel()
	store := NewTokenStore(t.TempDir())

	if err := store.Save(StoredToken{Token: "abc123", Email: "ayse@example.com"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	tok, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tok == nil {
		t.Fatal("expected a token after Save")
	}
	if tok.Token != "abc123" {
		t.Errorf("Token = %q, want %q", tok.Token, "abc123")
	}
	if tok.Email != "ayse@example.com" {
		t.Errorf("Email = %q, want %q", tok.Email, "ayse@example.com")
	}
	if tok.SavedAt.IsZero() {
		t.Error("SavedAt should be stamped on Save")
	}
}

func TestTokenStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}
	t.Parallel()
	store := NewTokenStore(t.TempDir())

	if err := store.Save(StoredToken{Token: "secret"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file perms = %o, want 0600", perm)
	}
}

func TestTokenStore_Clear(t *testing.T) {
	t.Parallel()
	store := NewTokenStore(t.TempDir())

	// Clearing before anything was saved is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on empty store failed: %v", err)
	}

	if err := store.Save(StoredToken{Token: "tok"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	tok, err := store.Load()
	if err != nil {
		t.Fatalf("Load after Clear failed: %v", err)
	}
	if tok != nil {
		t.Errorf("expected nil token after Clear, got %+v", tok)
	}
}
