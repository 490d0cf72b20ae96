package syncer

// State identifies where a synchronization run currently is.
type State string

const (
	StateStarted               State = "started"
	StateParsingSubtitles      State = "parsing_subtitles"
	StateAnalyzing             State = "analyzing"
	StateSynthesizingSegments  State = "synthesizing_segments"
	StateAssemblingFragments   State = "assembling_fragments"
	StateMergingFragments      State = "merging_fragments"
	StateNormalizing           State = "normalizing"
	StateEncoding              State = "encoding"
	StateFinished              State = "finished"
	StateError                 State = "error"
)

// Progress is one state-machine transition. During synthesis Current and
// Total report per-segment completion; elsewhere both are zero.
type Progress struct {
	State   State
	Current int
	Total   int
	// Reason carries the failure description for StateError.
	Reason string
}

// ProgressSink receives state transitions synchronously as the run moves
// through its stages. A sink error is logged and never fails the run.
type ProgressSink interface {
	Publish(Progress) error
}

// SinkFunc adapts a function to the ProgressSink interface.
type SinkFunc func(Progress) error

// Publish implements ProgressSink.
func (f SinkFunc) Publish(p Progress) error {
	return f(p)
}

// Warning is a non-fatal quality problem collected during a run and
// returned alongside a successful result.
type Warning struct {
	Stage    string
	CueIndex int
	Message  string
}
