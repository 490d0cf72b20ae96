package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output does not mention target: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	// A second init without --overwrite must refuse.
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config")
	}
}

func TestAnalyzeRendersTable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "test-key")

	vtt := filepath.Join(t.TempDir(), "track.vtt")
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:03.000\nhello there world\n\n00:00:03.500 --> 00:00:05.000\nanother cue\n"
	if err := os.WriteFile(vtt, []byte(content), 0o644); err != nil {
		t.Fatalf("write vtt: %v", err)
	}

	out, err := runCommand(t, "analyze", vtt)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "Severity") {
		t.Fatalf("table header missing: %q", out)
	}
	if !strings.Contains(out, "2 cues") {
		t.Fatalf("summary missing: %q", out)
	}
}

func TestSyncRequiresOutputFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "test-key")

	if _, err := runCommand(t, "sync", "whatever.vtt"); err == nil {
		t.Fatal("expected error for missing --output")
	}
}
