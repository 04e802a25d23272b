package state

import (
	"sync"
	"time"
)

// VisibleItem is one rendered row of the filtered list.
type VisibleItem struct {
	ID    int
	Name  string
	Value float64
	Calc  float64
}

// EffectStat reports the run counters of one mounted effect.
type EffectStat struct {
	Scope    string
	Name     string
	Trigger  string
	Runs     int
	Cleanups int
}

// PanelState reports whether a feature panel is mounted.
type PanelState struct {
	Name    string
	Mounted bool
}

// LargeStats describes the large-data accumulator.
type LargeStats struct {
	Count     int
	Footprint string
}

// NetworkStats describes the network panel.
type NetworkStats struct {
	Trigger  int
	Loading  bool
	Fetches  int
	Failures int
	Loaded   int
	Titles   []string
}

// EventStats describes the event-heavy panel.
type EventStats struct {
	X, Y          int
	ScrollY       int
	Width, Height int
	Pointer       int
	Scroll        int
	Resize        int
	Dispatched    uint64
	Handled       uint64
	Handlers      int
}

// ComplexStats describes the nested state panel.
type ComplexStats struct {
	Users       int
	Theme       string
	Language    string
	Email       bool
	Version     int
	LastUpdated *time.Time
	UserLines   []string
	Clones      int
	Mode        string
}

// Snapshot is everything the UI shows for one recomputation cycle.
type Snapshot struct {
	Cycle         uint64
	Counter       int
	UpdateCounter int
	SearchTerm    string
	Memoized      bool
	Tracking      string

	DatasetSize   int
	FilteredCount int
	Visible       []VisibleItem
	Generations   int
	Filterings    int
	Calculations  int

	Panels         []PanelState
	Effects        []EffectStat
	ContextBuilds  int
	ContextChanges int
	ContextMode    string
	ActiveTimers   int
	TimersFired    uint64
	TimerLabels    []string
	Bailouts       int

	Large   LargeStats
	Network NetworkStats
	Events  EventStats
	Complex ComplexStats

	LastUpdated time.Time
}

// Store coordinates concurrent access to the latest snapshot: the runtime
// loop writes it once per cycle, the UI reads it on its own tick.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	updates  uint64
}

// Update replaces the stored snapshot with a copy of snap.
func (s *Store) Update(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = cloneSnapshot(snap)
	s.snapshot.LastUpdated = time.Now()
	s.updates++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneSnapshot(s.snapshot)
}

// Updates counts Update calls.
func (s *Store) Updates() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updates
}

func cloneSnapshot(snap Snapshot) Snapshot {
	dup := snap
	dup.Visible = cloneSlice(snap.Visible)
	dup.Panels = cloneSlice(snap.Panels)
	dup.Effects = cloneSlice(snap.Effects)
	dup.TimerLabels = cloneSlice(snap.TimerLabels)
	dup.Network.Titles = cloneSlice(snap.Network.Titles)
	dup.Complex.UserLines = cloneSlice(snap.Complex.UserLines)
	if snap.Complex.LastUpdated != nil {
		ts := *snap.Complex.LastUpdated
		dup.Complex.LastUpdated = &ts
	}
	return dup
}

func cloneSlice[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
