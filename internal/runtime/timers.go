package runtime

import (
	"sort"
	"time"
)

// TimerID identifies a registered timer.
type TimerID uint64

type timer struct {
	id     TimerID
	label  string
	period time.Duration
	due    time.Duration
	repeat bool
	fn     func()
	owner  owner
}

// Timers is the interval/timeout registry. Time is virtual: it only moves
// when the runtime advances it, so tests can step it deterministically.
type Timers struct {
	now     time.Duration
	nextID  TimerID
	active  map[TimerID]*timer
	fired   uint64
	current *owner
}

func newTimers(current *owner) *Timers {
	return &Timers{active: make(map[TimerID]*timer), current: current}
}

// SetInterval registers fn to fire every d until cleared.
func (t *Timers) SetInterval(label string, d time.Duration, fn func()) TimerID {
	return t.add(label, d, true, fn)
}

// SetTimeout registers fn to fire once after d.
func (t *Timers) SetTimeout(label string, d time.Duration, fn func()) TimerID {
	return t.add(label, d, false, fn)
}

func (t *Timers) add(label string, d time.Duration, repeat bool, fn func()) TimerID {
	if d <= 0 {
		d = time.Millisecond
	}
	t.nextID++
	t.active[t.nextID] = &timer{
		id:     t.nextID,
		label:  label,
		period: d,
		due:    t.now + d,
		repeat: repeat,
		fn:     fn,
	}
	if t.current != nil {
		t.active[t.nextID].owner = *t.current
	}
	return t.nextID
}

// Clear removes a timer. It reports whether the timer was still registered.
func (t *Timers) Clear(id TimerID) bool {
	if _, ok := t.active[id]; !ok {
		return false
	}
	delete(t.active, id)
	return true
}

// ClearLeaked removes every timer whose registering effect run is no longer
// current, or whose scope is unmounted, and returns how many it removed.
func (t *Timers) ClearLeaked() int {
	n := 0
	for id, tm := range t.active {
		if !tm.owner.live() {
			delete(t.active, id)
			n++
		}
	}
	return n
}

// Active returns the number of registered timers.
func (t *Timers) Active() int { return len(t.active) }

// Fired returns how many callbacks have fired in total.
func (t *Timers) Fired() uint64 { return t.fired }

// Now returns the virtual time elapsed since the runtime was created.
func (t *Timers) Now() time.Duration { return t.now }

// Labels lists registered timer labels, sorted.
func (t *Timers) Labels() []string {
	out := make([]string, 0, len(t.active))
	for _, tm := range t.active {
		out = append(out, tm.label)
	}
	sort.Strings(out)
	return out
}

// popDue returns the earliest timer due at or before limit and reschedules or
// removes it. Ties go to the oldest registration.
func (t *Timers) popDue(limit time.Duration) *timer {
	var next *timer
	for _, tm := range t.active {
		if tm.due > limit {
			continue
		}
		if next == nil || tm.due < next.due || (tm.due == next.due && tm.id < next.id) {
			next = tm
		}
	}
	if next == nil {
		return nil
	}
	t.now = next.due
	if next.repeat {
		next.due += next.period
	} else {
		delete(t.active, next.id)
	}
	t.fired++
	return next
}
