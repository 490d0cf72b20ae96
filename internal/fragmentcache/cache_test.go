package fragmentcache

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"dubsync/internal/tts"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "fragments.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreAndLookup(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key := Key{Text: "hello", Voice: "alloy", Model: "tts-1", Speed: 1.0, Engine: tts.EngineOpenAI}
	result := tts.Result{
		Samples:         []float32{0.1, -0.2, 0.3},
		SampleRate:      44100,
		NaturalDuration: 1.25,
	}

	if err := store.Store(ctx, key, result); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, found, err := store.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if !slices.Equal(got.Samples, result.Samples) {
		t.Fatalf("samples = %v, want %v", got.Samples, result.Samples)
	}
	if got.SampleRate != 44100 || got.NaturalDuration != 1.25 {
		t.Fatalf("metadata mismatch: %+v", got)
	}
}

func TestLookupMiss(t *testing.T) {
	store := openTestStore(t)

	_, found, err := store.Lookup(context.Background(), Key{Text: "missing"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if found {
		t.Fatal("expected cache miss")
	}
}

func TestFirstWriterWins(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key := Key{Text: "contested", Voice: "alloy", Engine: tts.EngineOpenAI}
	first := tts.Result{Samples: []float32{1}, SampleRate: 44100, NaturalDuration: 1}
	second := tts.Result{Samples: []float32{2, 2}, SampleRate: 48000, NaturalDuration: 2}

	if err := store.Store(ctx, key, first); err != nil {
		t.Fatalf("first Store: %v", err)
	}
	if err := store.Store(ctx, key, second); err != nil {
		t.Fatalf("second Store: %v", err)
	}

	got, found, err := store.Lookup(ctx, key)
	if err != nil || !found {
		t.Fatalf("Lookup: found=%v err=%v", found, err)
	}
	if !slices.Equal(got.Samples, first.Samples) {
		t.Fatalf("second writer overwrote the entry: %v", got.Samples)
	}
}

func TestKeyDistinguishesParameters(t *testing.T) {
	base := Key{Text: "same text", Voice: "alloy", Model: "tts-1", Speed: 1.0, Engine: tts.EngineOpenAI}

	variants := []Key{
		{Text: "same text", Voice: "nova", Model: "tts-1", Speed: 1.0, Engine: tts.EngineOpenAI},
		{Text: "same text", Voice: "alloy", Model: "tts-1-hd", Speed: 1.0, Engine: tts.EngineOpenAI},
		{Text: "same text", Voice: "alloy", Model: "tts-1", Speed: 1.5, Engine: tts.EngineOpenAI},
		{Text: "same text", Voice: "alloy", Model: "tts-1", Speed: 1.0, Engine: tts.EngineFishSpeech},
	}

	for i, v := range variants {
		if v.hash() == base.hash() {
			t.Fatalf("variant %d collides with base key", i)
		}
	}
}

func TestStatsAndClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		key := Key{Text: text, Engine: tts.EngineOpenAI}
		result := tts.Result{Samples: []float32{1, 2}, SampleRate: 44100, NaturalDuration: 0.5}
		if err := store.Store(ctx, key, result); err != nil {
			t.Fatalf("Store %q: %v", text, err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 3 {
		t.Fatalf("entries = %d, want 3", stats.Entries)
	}
	if stats.TotalSize != 3*8 {
		t.Fatalf("total size = %d, want 24", stats.TotalSize)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats after clear: %v", err)
	}
	if stats.Entries != 0 {
		t.Fatalf("entries after clear = %d, want 0", stats.Entries)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
