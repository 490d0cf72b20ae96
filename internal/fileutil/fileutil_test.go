package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	payload := []byte("pcm data")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("content mismatch: got %q want %q", got, payload)
	}
}

func TestMoveFileAtomic(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "work", "out.wav")
	dst := filepath.Join(dir, "published", "out.wav")

	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(src, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := MoveFileAtomic(src, dst); err != nil {
		t.Fatalf("MoveFileAtomic: %v", err)
	}

	if Exists(src) {
		t.Error("source should be gone after move")
	}
	if !Exists(dst) {
		t.Error("destination should exist after move")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if Exists(filepath.Join(dir, "missing")) {
		t.Error("Exists should be false for missing file")
	}
	if Exists(dir) {
		t.Error("Exists should be false for directories")
	}
}
