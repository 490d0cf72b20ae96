package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"dubsync/internal/services"
)

func TestConsoleHandlerPromotesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	NewComponentLogger(logger, "syncer").Info("stage started", String("stage", "analyzing"))

	line := buf.String()
	if !strings.Contains(line, "syncer: stage started") {
		t.Errorf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, "stage=analyzing") {
		t.Errorf("expected stage attr, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component should not appear as a key-value pair: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("parsed", String("text", "two words"))

	if !strings.Contains(buf.String(), `text="two words"`) {
		t.Errorf("expected quoted value, got %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("merged", Int("fragments", 3))

	line := buf.String()
	for _, want := range []string{`"msg":"merged"`, `"fragments":3`, `"level":"info"`} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %s in %q", want, line)
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsRunFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-42")
	ctx = services.WithStage(ctx, "synthesizing")
	ctx = services.WithCueIndex(ctx, 7)

	WithContext(ctx, logger).Info("request sent")

	line := buf.String()
	for _, want := range []string{"run_id=run-42", "stage=synthesizing", "cue_index=7"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %s in %q", want, line)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn record should pass at warn level")
	}
}
