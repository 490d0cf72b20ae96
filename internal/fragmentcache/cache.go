// Package fragmentcache persists synthesized utterances in SQLite so
// repeated runs over the same subtitle track skip the synthesis network
// calls. Entries are keyed by the full synthesis request; writes are
// first-writer-wins so concurrent runs never clobber each other.
package fragmentcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"

	"dubsync/internal/services"
	"dubsync/internal/tts"
)

//go:embed schema.sql
var schemaSQL string

// Key identifies one synthesis request. Two requests with the same key
// produce interchangeable audio.
type Key struct {
	Text   string
	Voice  string
	Model  string
	Speed  float64
	Engine tts.EngineKind
}

func (k Key) hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%.4f|%s", k.Text, k.Voice, k.Model, k.Speed, k.Engine)
	return hex.EncodeToString(h.Sum(nil))
}

// Stats summarizes cache contents.
type Stats struct {
	Entries   int64
	TotalSize int64
}

// Store is a SQLite-backed fragment cache.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path. Parent
// directories are created as needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "fragmentcache", "open", "cache path required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "fragmentcache", "open", "ensure cache directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "fragmentcache", "open", "open sqlite db", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrIO, "fragmentcache", "open",
				fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrIO, "fragmentcache", "open", "create schema", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup returns the cached synthesis result for key, if present.
func (s *Store) Lookup(ctx context.Context, key Key) (tts.Result, bool, error) {
	var empty tts.Result
	var (
		pcm        []byte
		sampleRate int
		duration   float64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT pcm, sample_rate, natural_duration FROM fragments WHERE key = ?",
		key.hash(),
	).Scan(&pcm, &sampleRate, &duration)
	if errors.Is(err, sql.ErrNoRows) {
		return empty, false, nil
	}
	if err != nil {
		return empty, false, services.Wrap(services.ErrIO, "fragmentcache", "lookup", "query fragment", err)
	}

	return tts.Result{
		Samples:         bytesToSamples(pcm),
		SampleRate:      sampleRate,
		NaturalDuration: duration,
	}, true, nil
}

// Store persists a synthesis result under key. An existing entry for the
// same key is kept untouched: the first writer wins and later writers
// return without error.
func (s *Store) Store(ctx context.Context, key Key, result tts.Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO fragments (key, engine, voice, model, speed, pcm, sample_rate, natural_duration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key.hash(), string(key.Engine), key.Voice, key.Model, key.Speed,
		samplesToBytes(result.Samples), result.SampleRate, result.NaturalDuration,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return services.Wrap(services.ErrIO, "fragmentcache", "store", "insert fragment", err)
	}
	return nil
}

// Stats reports entry count and total PCM payload size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COALESCE(SUM(LENGTH(pcm)), 0) FROM fragments",
	).Scan(&stats.Entries, &stats.TotalSize)
	if err != nil {
		return Stats{}, services.Wrap(services.ErrIO, "fragmentcache", "stats", "query stats", err)
	}
	return stats, nil
}

// Clear removes all cached fragments.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM fragments"); err != nil {
		return services.Wrap(services.ErrIO, "fragmentcache", "clear", "delete fragments", err)
	}
	return nil
}

func samplesToBytes(samples []float32) []byte {
	buf := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(s))
	}
	return buf
}

func bytesToSamples(data []byte) []float32 {
	n := len(data) / 4
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return samples
}
