package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageSaveIsContentAddressed(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	data := []byte("fake png bytes")
	opts := SaveOptions{Category: CategoryRecipes, Extension: "png", SkipIfExists: true}

	first, err := s.Save(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := s.Save(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical keys, got %q and %q", first, second)
	}

	hash := ContentKey(data)
	want := "recipes/" + hash[:2] + "/" + hash + ".png"
	if first != want {
		t.Errorf("expected key %q, got %q", want, first)
	}

	stored, err := os.ReadFile(filepath.Join(s.LocalBaseDir(), filepath.FromSlash(first)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(stored) != string(data) {
		t.Errorf("stored content mismatch")
	}
}

func TestLocalStorageDelete(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	ctx := context.Background()

	key, err := s.Save(ctx, []byte("avatar"), SaveOptions{Category: CategoryAvatars, Extension: "jpg"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.LocalBaseDir(), filepath.FromSlash(key))); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file to be gone, stat err = %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	for _, key := range []string{"", "../outside.txt", "recipes/../../etc/passwd", "/"} {
		if err := s.Delete(context.Background(), key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestLocalStorageEmptyPayload(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	if _, err := s.Save(context.Background(), nil, SaveOptions{}); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestURLBuilder(t *testing.T) {
	tests := []struct {
		name string
		base string
		key  string
		want string
	}{
		{name: "relative base", base: "/media/", key: "recipes/ab/ab.png", want: "/media/recipes/ab/ab.png"},
		{name: "cdn base", base: "https://cdn.example.com", key: "/avatars/x.jpg", want: "https://cdn.example.com/avatars/x.jpg"},
		{name: "empty key", base: "/media", key: "", want: ""},
		{name: "absolute key", base: "/media", key: "https://img.example.com/a.png", want: "https://img.example.com/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewURLBuilder(tt.base).URL(tt.key); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBuildObjectPathSanitizes(t *testing.T) {
	got := buildObjectPath("Re cipes!", "My Image", ".PNG", nil)
	if !strings.HasPrefix(got, "recipes/my/") || !strings.HasSuffix(got, "my-image.png") {
		t.Errorf("unexpected path %q", got)
	}
}
