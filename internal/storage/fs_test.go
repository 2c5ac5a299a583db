package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFSStorePutOverwrites(t *testing.T) {
	base := t.TempDir()
	s, err := NewFSStore(base)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for _, body := range []string{"first", "second"} {
		key, err := s.Put("music/bgmusic.mp3", strings.NewReader(body))
		if err != nil {
			t.Fatalf("put: %v", err)
		}
		if key != "music/bgmusic.mp3" {
			t.Fatalf("unexpected key %q", key)
		}
	}
	got, _ := os.ReadFile(filepath.Join(base, "music", "bgmusic.mp3"))
	if string(got) != "second" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestFSStoreKeepsKeysInsideBase(t *testing.T) {
	base := t.TempDir()
	s, _ := NewFSStore(filepath.Join(base, "static"))

	key, err := s.Put("../../escape.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if key != "escape.txt" {
		t.Fatalf("expected key clamped to base, got %q", key)
	}
	if _, err := os.Stat(filepath.Join(base, "static", "escape.txt")); err != nil {
		t.Fatalf("expected file inside base: %v", err)
	}

	if _, err := s.Put("", strings.NewReader("x")); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
}
