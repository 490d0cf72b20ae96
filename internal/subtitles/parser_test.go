package subtitles

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"dubsync/internal/services"
)

func writeTrack(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.vtt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write track: %v", err)
	}
	return path
}

const threeCueTrack = `WEBVTT

00:00:01.000 --> 00:00:03.000
First line

00:00:03.500 --> 00:00:05.000
Second line
continued

00:00:05.500 --> 00:00:10.000
Third line
`

func TestParseThreeCues(t *testing.T) {
	cues, err := Parse(writeTrack(t, threeCueTrack))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}

	want := []struct {
		start, end float64
		text       string
	}{
		{1.0, 3.0, "First line"},
		{3.5, 5.0, "Second line continued"},
		{5.5, 10.0, "Third line"},
	}
	for i, w := range want {
		cue := cues[i]
		if cue.Index != i {
			t.Errorf("cue %d: index = %d", i, cue.Index)
		}
		if cue.Start != w.start || cue.End != w.end {
			t.Errorf("cue %d: window = (%v,%v), want (%v,%v)", i, cue.Start, cue.End, w.start, w.end)
		}
		if cue.Text != w.text {
			t.Errorf("cue %d: text = %q, want %q", i, cue.Text, w.text)
		}
	}
}

func TestParseOptionalHoursAndMillis(t *testing.T) {
	track := `WEBVTT

01:30.500 --> 01:32
Short form

01:00:00 --> 01:00:02.25
Long form
`
	cues, err := Parse(writeTrack(t, track))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if math.Abs(cues[0].Start-90.5) > 1e-9 || math.Abs(cues[0].End-92) > 1e-9 {
		t.Errorf("short form window = (%v,%v)", cues[0].Start, cues[0].End)
	}
	if math.Abs(cues[1].Start-3600) > 1e-9 || math.Abs(cues[1].End-3602.25) > 1e-9 {
		t.Errorf("long form window = (%v,%v)", cues[1].Start, cues[1].End)
	}
}

func TestParseSkipsInvalidCues(t *testing.T) {
	track := `WEBVTT

00:00:01.000 --> 00:00:03.000

00:00:05.000 --> 00:00:04.000
Backwards window

00:00:06.000 --> 00:00:08.000
Kept
`
	cues, err := Parse(writeTrack(t, track))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Text != "Kept" {
		t.Errorf("kept cue text = %q", cues[0].Text)
	}
	if cues[0].Index != 0 {
		t.Errorf("kept cue index = %d", cues[0].Index)
	}
}

func TestParseMalformedTimestamp(t *testing.T) {
	track := `WEBVTT

not:a:time --> 00:00:03.000
Text
`
	_, err := Parse(writeTrack(t, track))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "absent.vtt"))
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse for missing file, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	cues, err := Parse(writeTrack(t, threeCueTrack))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, cues); err != nil {
		t.Fatalf("Write: %v", err)
	}

	reparsed, err := Parse(writeTrack(t, buf.String()))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(reparsed) != len(cues) {
		t.Fatalf("round trip cue count: got %d want %d", len(reparsed), len(cues))
	}
	for i := range cues {
		if reparsed[i] != cues[i] {
			t.Errorf("cue %d changed across round trip: %+v vs %+v", i, reparsed[i], cues[i])
		}
	}
}

func TestCleanText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"<i>Hello</i> world", "Hello world"},
		{"A&nbsp;B &amp; C", "A B & C"},
		{"  spaced \n out  ", "spaced out"},
		{"&quot;quoted&quot;", `"quoted"`},
	}
	for _, tc := range cases {
		if got := CleanText(tc.in); got != tc.want {
			t.Errorf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
