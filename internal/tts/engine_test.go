package tts

import "testing"

func TestParseEngineKind(t *testing.T) {
	tests := []struct {
		name    string
		want    EngineKind
		wantErr bool
	}{
		{"openai", EngineOpenAI, false},
		{"fishspeech", EngineFishSpeech, false},
		{"", "", true},
		{"OpenAI", "", true},
		{"espeak", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEngineKind(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseEngineKind(%q) succeeded, want error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseEngineKind(%q): %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("ParseEngineKind(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
