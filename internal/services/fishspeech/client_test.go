package fishspeech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dubsync/internal/services"
	"dubsync/internal/tts"
)

type fakeDecoder struct {
	samples []float32
	format  string
}

func (d *fakeDecoder) DecodeBytes(_ context.Context, _ []byte, format string, _ int) ([]float32, error) {
	d.format = format
	return d.samples, nil
}

func TestClientSynthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload ttsRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Text != "hallo welt" {
			t.Fatalf("text = %q", payload.Text)
		}
		if payload.Format != "wav" {
			t.Fatalf("format = %q", payload.Format)
		}
		if payload.ReferenceID != "speaker-7" {
			t.Fatalf("reference id = %q", payload.ReferenceID)
		}
		_, _ = w.Write([]byte("wav-bytes"))
	}))
	defer server.Close()

	decoder := &fakeDecoder{samples: make([]float32, 22050)}
	client := NewClient(Config{BaseURL: server.URL}, decoder)

	result, err := client.Synthesize(context.Background(), tts.Request{Text: "hallo welt", Voice: "speaker-7"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if result.NaturalDuration != 0.5 {
		t.Fatalf("natural duration = %f, want 0.5", result.NaturalDuration)
	}
	if decoder.format != "wav" {
		t.Fatalf("decoder format = %q, want wav", decoder.format)
	}
}

func TestClientSynthesizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, &fakeDecoder{})

	_, err := client.Synthesize(context.Background(), tts.Request{Text: "text"})
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("err = %v, want ErrSynthesis", err)
	}
}

func TestClientSynthesizeRejectsEmptyText(t *testing.T) {
	client := NewClient(Config{}, &fakeDecoder{})

	_, err := client.Synthesize(context.Background(), tts.Request{Text: ""})
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("err = %v, want ErrSynthesis", err)
	}
}
