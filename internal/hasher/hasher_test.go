package hasher

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
)

func TestContentHash(t *testing.T) {
	data := []byte("cube face bytes")
	full := ContentHash(data, 0)
	if len(full) != FullLen {
		t.Fatalf("got %d hex chars, want %d", len(full), FullLen)
	}
	if got := ContentHash(data, NameLen); got != full[:NameLen] {
		t.Errorf("prefix: got %q, want %q", got, full[:NameLen])
	}
	if ContentHash(data, 0) != full {
		t.Error("hash is not stable")
	}
	if ContentHash([]byte("other"), 0) == full {
		t.Error("different input, same hash")
	}
}

func TestContentHash_BigEndianHex(t *testing.T) {
	want := fmt.Sprintf("%016x", xxhash.Sum64String("x"))
	if got := ContentHash([]byte("x"), 0); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDigest_MatchesConcatenation(t *testing.T) {
	a, b := []byte("+X face"), []byte("-X face")
	joined := append(append([]byte(nil), a...), b...)
	if got, want := Digest(0, a, b), ContentHash(joined, 0); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	data := bytes.Repeat([]byte{1, 2, 3, 4}, 1000)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FileHash(path, FullLen)
	if err != nil {
		t.Fatal(err)
	}
	if want := ContentHash(data, FullLen); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if _, err := FileHash(filepath.Join(t.TempDir(), "missing"), 0); err == nil {
		t.Error("expected error")
	}
}
