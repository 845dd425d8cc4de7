package view

import (
	"sync"

	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/atlas"
)

// Selection is the (date, kind, time index) tuple driving what is displayed.
type Selection struct {
	Date      string     `json:"date"` // YYYYMMDD; empty until boot resolves one
	Kind      atlas.Kind `json:"kind"`
	TimeIndex int        `json:"timeIndex"`
}

// State is the single source of truth for the current selection and the view
// rendered for it. Handlers and the scheduler mutate it concurrently, so all
// access goes through one RWMutex.
//
// Every mutation bumps a generation counter. Render runs snapshot the
// selection together with its generation and may only commit their result
// while that generation is still live; a run whose selection has been
// superseded mid-flight is discarded wholesale. That keeps the displayed
// grid, label, and legend describing the same slice even when fetches
// complete out of order.
type State struct {
	mu  sync.RWMutex
	sel Selection

	// times known for the current (date, kind); drives TimeIndex clamping.
	times []string

	gen  uint64
	view View
}

// NewState creates a State starting from the given kind with no date; nothing
// renders until a date is set.
func NewState(kind atlas.Kind) *State {
	return &State{
		sel:  Selection{Kind: kind},
		view: Cleared("starting up", timePlaceholder),
	}
}

// SetDate replaces the selected date and resets the time index. It does not
// fetch anything; the caller triggers a render run afterwards.
func (s *State) SetDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Date = date
	s.sel.TimeIndex = 0
	s.times = nil
	s.gen++
}

// SetKind replaces the selected layer kind and resets the time index.
func (s *State) SetKind(kind atlas.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Kind = kind
	s.sel.TimeIndex = 0
	s.times = nil
	s.gen++
}

// SetTimes replaces the known time list for the current (date, kind) and
// clamps the time index into its range. With an empty list the index parks at
// 0 and is meaningless until times become available; no draw ever reads it
// out of bounds.
func (s *State) SetTimes(times []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyTimesLocked(times)
}

// ApplyTimes is SetTimes on behalf of the render run tagged gen: it refuses
// to touch the state when the selection has already moved on, and on success
// returns the reconciled selection under the same still-live generation.
func (s *State) ApplyTimes(times []string, gen uint64) (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return Selection{}, false
	}
	s.applyTimesLocked(times)
	return s.sel, true
}

func (s *State) applyTimesLocked(times []string) {
	s.times = times
	s.sel.TimeIndex = clampIndex(s.sel.TimeIndex, len(times))
}

// SetTimeIndex stores a clamped time index.
func (s *State) SetTimeIndex(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.TimeIndex = clampIndex(i, len(s.times))
	s.gen++
}

// Snapshot returns the current selection plus the generation to tag a render
// run with.
func (s *State) Snapshot() (Selection, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel, s.gen
}

// Selection returns a copy of the current selection.
func (s *State) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel
}

// Times returns the known time list for the current (date, kind).
func (s *State) Times() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.times))
	copy(out, s.times)
	return out
}

// CommitView installs a rendered view if gen still matches the live
// generation. It reports whether the commit happened; a false return means
// the selection moved on while this run was in flight and its result must be
// dropped.
func (s *State) CommitView(v View, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.view = v
	return true
}

// View returns the currently displayed view.
func (s *State) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
