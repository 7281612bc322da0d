// Package tracker derives a normalized reading-progress fraction from
// scroll positions and restores it across sessions.
package tracker

import "math"

// State is the tracker's lifecycle state.
type State int

const (
	// Loading means no valid scroll position exists yet; position restore
	// is deferred until the layout is ready.
	Loading State = iota
	// Active means scroll events are accepted and progress recomputed.
	Active
)

// ScrollTo is a scroll command issued toward the display surface.
type ScrollTo struct {
	Y       int
	Animate bool
}

// Tracker owns the reading-progress fraction for one session. It belongs
// to the UI event loop and is not safe for concurrent use.
type Tracker struct {
	state      State
	progress   float64
	maxScrollY int
}

// New returns a tracker in the Loading state seeded with a previously
// persisted progress fraction.
func New(initial float64) *Tracker {
	return &Tracker{state: Loading, progress: clamp01(initial)}
}

func (t *Tracker) State() State { return t.state }

// Progress is the current fraction in [0, 1].
func (t *Tracker) Progress() float64 { return t.progress }

// Activate transitions Loading to Active once the layout is built and the
// display surface reports its maximum scroll extent. It returns the single
// non-animated restore command, which must be applied before the next
// visible frame. ok is false when the tracker is already active.
func (t *Tracker) Activate(maxScrollY int) (cmd ScrollTo, ok bool) {
	if t.state == Active {
		return ScrollTo{}, false
	}
	t.state = Active
	return t.Rebase(maxScrollY), true
}

// Rebase recomputes the scroll position for a new maximum extent while
// keeping the progress fraction, e.g. after the surface was resized.
func (t *Tracker) Rebase(maxScrollY int) ScrollTo {
	if maxScrollY < 0 {
		maxScrollY = 0
	}
	t.maxScrollY = maxScrollY
	return ScrollTo{Y: int(math.Round(t.progress * float64(maxScrollY)))}
}

// OnScroll records a new scroll position. Hot path: cheap and synchronous.
// A zero maximum extent keeps the previous progress.
func (t *Tracker) OnScroll(y int) {
	if t.state != Active || t.maxScrollY == 0 {
		return
	}
	t.progress = clamp01(float64(y) / float64(t.maxScrollY))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
