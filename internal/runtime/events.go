package runtime

// EventKind names a global event.
type EventKind string

const (
	PointerMove EventKind = "pointermove"
	Scroll      EventKind = "scroll"
	Resize      EventKind = "resize"
)

// Event is a global input event.
type Event struct {
	Kind    EventKind
	X, Y    int
	ScrollY int
	Width   int
	Height  int
}

// ListenerID identifies a registered listener.
type ListenerID uint64

type listener struct {
	id    ListenerID
	fn    func(Event)
	owner owner
}

// EventTarget is the shared global event target. Registering the same handler
// twice yields two listeners; nothing de-duplicates.
type EventTarget struct {
	nextID     ListenerID
	listeners  map[EventKind][]listener
	dispatched uint64
	handled    uint64
	current    *owner
}

func newEventTarget(current *owner) *EventTarget {
	return &EventTarget{listeners: make(map[EventKind][]listener), current: current}
}

// AddListener registers fn for kind.
func (t *EventTarget) AddListener(kind EventKind, fn func(Event)) ListenerID {
	t.nextID++
	l := listener{id: t.nextID, fn: fn}
	if t.current != nil {
		l.owner = *t.current
	}
	t.listeners[kind] = append(t.listeners[kind], l)
	return t.nextID
}

// RemoveListener unregisters a listener. It reports whether it was registered.
func (t *EventTarget) RemoveListener(id ListenerID) bool {
	for kind, ls := range t.listeners {
		for i, l := range ls {
			if l.id != id {
				continue
			}
			t.listeners[kind] = append(ls[:i:i], ls[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveLeaked unregisters every listener whose registering effect run is no
// longer current, or whose scope is unmounted, and returns how many it removed.
func (t *EventTarget) RemoveLeaked() int {
	n := 0
	for kind, ls := range t.listeners {
		kept := ls[:0:0]
		for _, l := range ls {
			if l.owner.live() {
				kept = append(kept, l)
			}
		}
		n += len(ls) - len(kept)
		t.listeners[kind] = kept
	}
	return n
}

// Dispatch invokes every listener registered for ev.Kind and returns how many
// ran.
func (t *EventTarget) Dispatch(ev Event) int {
	t.dispatched++
	ls := append([]listener(nil), t.listeners[ev.Kind]...)
	for _, l := range ls {
		l.fn(ev)
	}
	t.handled += uint64(len(ls))
	return len(ls)
}

// Count returns the number of listeners for kind.
func (t *EventTarget) Count(kind EventKind) int { return len(t.listeners[kind]) }

// Total returns the number of listeners across all kinds.
func (t *EventTarget) Total() int {
	n := 0
	for _, ls := range t.listeners {
		n += len(ls)
	}
	return n
}

// Dispatched counts events dispatched.
func (t *EventTarget) Dispatched() uint64 { return t.dispatched }

// Handled counts listener invocations across all dispatches.
func (t *EventTarget) Handled() uint64 { return t.handled }
