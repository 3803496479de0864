// Package engine implements the typing-speed measurement core: the grapheme
// comparison model, the metrics calculation, and the game session state
// machine that owns both.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/obaydah/miftah/internal/arabic"
	"github.com/obaydah/miftah/internal/grapheme"
)

// State is the game lifecycle position.
type State int

const (
	// Idle is the initial state; no keystroke has arrived yet.
	Idle State = iota
	// Active means the countdown is running and input is being evaluated.
	Active
	// Finished is terminal; metrics are frozen and keystrokes are ignored.
	Finished
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// FinishCause records which trigger moved the session to Finished.
type FinishCause int

const (
	// CauseNone means the session has not finished.
	CauseNone FinishCause = iota
	// CauseTimeout means the countdown expired.
	CauseTimeout
	// CauseComplete means the user typed the whole expected text.
	CauseComplete
)

// String implements fmt.Stringer.
func (c FinishCause) String() string {
	switch c {
	case CauseTimeout:
		return "timeout"
	case CauseComplete:
		return "complete"
	default:
		return "none"
	}
}

// Cluster is one rendering/comparison unit of the source text: the raw
// grapheme cluster plus its normalized base form. Base is empty for clusters
// that consist only of combining marks; such clusters contribute no
// comparison position.
type Cluster struct {
	Raw  string
	Base string
}

// ClusterStatus classifies a cluster for rendering.
type ClusterStatus int

const (
	// StatusPending means the cluster's position has not been typed yet.
	StatusPending ClusterStatus = iota
	// StatusCorrect means every typed position in the cluster matched.
	StatusCorrect
	// StatusIncorrect means at least one typed position mismatched.
	StatusIncorrect
)

// RenderedCluster is a cluster annotated with its live comparison status.
type RenderedCluster struct {
	Raw    string
	Status ClusterStatus
	Cursor bool
}

// Session is the aggregate root of one typing game. It owns the immutable
// source text, the accumulated raw input, and the lifecycle. All methods are
// driven from a single event loop; Session is not safe for concurrent use.
type Session struct {
	id       uuid.UUID
	source   string
	clusters []Cluster
	expected []rune

	input []rune

	state     State
	startedAt time.Time
	limit     time.Duration

	elapsed  time.Duration
	metrics  Metrics
	cause    FinishCause
	reported bool
}

// NewSession builds an Idle session for the given source text. The source is
// segmented once; each cluster's normalized base contributes its characters
// to the expected comparison sequence.
func NewSession(source string, limit time.Duration, seg grapheme.Segmenter) *Session {
	s := &Session{
		id:     uuid.New(),
		source: source,
		limit:  limit,
		state:  Idle,
	}
	for _, raw := range seg.Segments(source) {
		base := arabic.Normalize(raw)
		s.clusters = append(s.clusters, Cluster{Raw: raw, Base: base})
		s.expected = append(s.expected, []rune(base)...)
	}
	return s
}

// ID identifies this session instance. Tick events carry it so that a timer
// armed for an earlier session can never touch a later one.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Cause returns what ended the session, or CauseNone while it runs.
func (s *Session) Cause() FinishCause { return s.cause }

// Source returns the session's source text.
func (s *Session) Source() string { return s.source }

// Limit returns the configured countdown duration.
func (s *Session) Limit() time.Duration { return s.limit }

// ExpectedLen returns the number of comparison positions in the source.
func (s *Session) ExpectedLen() int { return len(s.expected) }

// Start arms the countdown without input, for hosts that begin timing when
// the player focuses the game rather than on the first keystroke. A later
// Type call on an already Active session leaves the start time untouched.
func (s *Session) Start(now time.Time) {
	if s.state != Idle {
		return
	}
	s.state = Active
	s.startedAt = now
}

// Type feeds one keystroke. The first keystroke moves Idle to Active and
// stamps the start time. Once the normalized input covers the expected
// sequence the session finishes with CauseComplete. Keystrokes after
// Finished are ignored.
func (s *Session) Type(r rune, now time.Time) {
	if s.state == Finished {
		return
	}
	if s.state == Idle {
		s.state = Active
		s.startedAt = now
	}
	s.input = append(s.input, r)
	if len(s.normalizedInput()) >= len(s.expected) {
		s.finish(now.Sub(s.startedAt), CauseComplete)
	}
}

// Backspace removes the last raw input rune. It never finishes a session.
func (s *Session) Backspace() {
	if s.state != Active || len(s.input) == 0 {
		return
	}
	s.input = s.input[:len(s.input)-1]
}

// Tick advances the countdown. It reports whether the session is still
// Active, i.e. whether the caller should schedule another tick. When the
// countdown has expired the session finishes with the full configured
// duration as elapsed time.
func (s *Session) Tick(now time.Time) bool {
	if s.state != Active {
		return false
	}
	if now.Sub(s.startedAt) >= s.limit {
		s.finish(s.limit, CauseTimeout)
		return false
	}
	return true
}

// Remaining returns the time left on the countdown.
func (s *Session) Remaining(now time.Time) time.Duration {
	switch s.state {
	case Idle:
		return s.limit
	case Active:
		left := s.limit - now.Sub(s.startedAt)
		if left < 0 {
			return 0
		}
		return left
	default:
		return 0
	}
}

// finish computes and freezes the final metrics. The Active guard makes the
// computation happen at most once even when a timeout and an input-complete
// trigger race on the same event loop turn.
func (s *Session) finish(elapsed time.Duration, cause FinishCause) {
	if s.state != Active {
		return
	}
	s.state = Finished
	s.cause = cause
	s.elapsed = elapsed
	typed := s.normalizedInput()
	correct := CorrectCount(s.expected, typed)
	s.metrics = ComputeMetrics(correct, len(typed), elapsed, s.limit)
}

// Metrics returns the frozen result. ok is false until the session finishes.
func (s *Session) Metrics() (m Metrics, ok bool) {
	if s.state != Finished {
		return Metrics{}, false
	}
	return s.metrics, true
}

// Elapsed returns the recorded elapsed time of a finished session.
func (s *Session) Elapsed() time.Duration { return s.elapsed }

// Correct returns the live correct-character count.
func (s *Session) Correct() int {
	return CorrectCount(s.expected, s.normalizedInput())
}

// TypedLen returns the normalized length of the input so far.
func (s *Session) TypedLen() int { return len(s.normalizedInput()) }

// ClaimReport returns true exactly once per finished session. Callers use it
// to gate the external score submission so a session is never reported twice.
func (s *Session) ClaimReport() bool {
	if s.state != Finished || s.reported {
		return false
	}
	s.reported = true
	return true
}

// Rendered returns the clusters annotated with their current status. The
// cursor sits on the first base cluster not yet fully typed while the
// session accepts input.
func (s *Session) Rendered() []RenderedCluster {
	typed := s.normalizedInput()
	out := make([]RenderedCluster, 0, len(s.clusters))
	idx := 0
	cursorPlaced := false
	for _, c := range s.clusters {
		n := len([]rune(c.Base))
		rc := RenderedCluster{Raw: c.Raw}
		if n > 0 {
			covered := len(typed) - idx
			if covered > n {
				covered = n
			}
			switch {
			case covered <= 0:
				rc.Status = StatusPending
			default:
				rc.Status = StatusCorrect
				for j := 0; j < covered; j++ {
					if typed[idx+j] != s.expected[idx+j] {
						rc.Status = StatusIncorrect
						break
					}
				}
				if rc.Status == StatusCorrect && covered < n {
					rc.Status = StatusPending
				}
			}
			if !cursorPlaced && s.state != Finished && covered < n {
				rc.Cursor = true
				cursorPlaced = true
			}
			idx += n
		}
		out = append(out, rc)
	}
	return out
}

// normalizedInput re-derives the comparison form of the raw input. The raw
// input is never mutated in place.
func (s *Session) normalizedInput() []rune {
	return []rune(arabic.Normalize(string(s.input)))
}
