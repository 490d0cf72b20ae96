package subtitles

import (
	"math"
	"testing"
)

func TestMetrics(t *testing.T) {
	cues := []Cue{
		{Index: 0, Start: 0, End: 2, Text: "a"},
		{Index: 1, Start: 3, End: 4, Text: "b"},
		{Index: 2, Start: 4, End: 8, Text: "c"},
	}

	m := Metrics(cues)

	if math.Abs(m.AvgDuration-7.0/3.0) > 1e-9 {
		t.Errorf("AvgDuration = %v", m.AvgDuration)
	}
	if m.MinDuration != 1 || m.MaxDuration != 4 {
		t.Errorf("min/max = %v/%v", m.MinDuration, m.MaxDuration)
	}
	// Only the 2s-3s gap is positive; the second boundary is contiguous.
	if math.Abs(m.AvgGap-1) > 1e-9 {
		t.Errorf("AvgGap = %v", m.AvgGap)
	}
}

func TestMetricsEmpty(t *testing.T) {
	if m := Metrics(nil); m != (TimingMetrics{}) {
		t.Errorf("empty metrics = %+v", m)
	}
}

func TestBounds(t *testing.T) {
	cues := []Cue{
		{Start: 1, End: 3},
		{Start: 3.5, End: 5},
		{Start: 5.5, End: 10},
	}
	first, last := Bounds(cues)
	if first != 1 || last != 10 {
		t.Errorf("Bounds = (%v,%v)", first, last)
	}
}

func TestWordCount(t *testing.T) {
	cue := Cue{Text: " three  word text "}
	if got := cue.WordCount(); got != 3 {
		t.Errorf("WordCount = %d", got)
	}
}
