package relay

// Listener handles one lifecycle event. The dispatcher is passed alongside
// the event so a listener can dispatch follow-up events.
type Listener interface {
	Handle(ev Event, d *Dispatcher) error
}

// ListenerFunc adapts a plain function to the Listener interface
type ListenerFunc func(ev Event, d *Dispatcher) error

// Handle calls the wrapped function
func (f ListenerFunc) Handle(ev Event, d *Dispatcher) error {
	return f(ev, d)
}

type listenerEntry struct {
	listener Listener
	priority int
	seq      int
}

// Dispatcher is a synchronous, priority-ordered publish/subscribe bus for
// lifecycle events. Listeners subscribe to an event name with a priority;
// dispatch invokes them in descending priority order, registration order
// breaking ties. Listener registration happens at startup, before any
// dispatch; the dispatcher does no locking of its own.
type Dispatcher struct {
	listeners map[string][]listenerEntry
	nextSeq   int
}

// NewDispatcher creates an empty Dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string][]listenerEntry)}
}

// AddListener subscribes a listener to an event name. The per-event list is
// kept sorted by priority descending; listeners sharing a priority run in
// the order they were added.
func (d *Dispatcher) AddListener(event string, listener Listener, priority int) {
	entry := listenerEntry{listener: listener, priority: priority, seq: d.nextSeq}
	d.nextSeq++

	entries := d.listeners[event]
	pos := len(entries)
	for i, existing := range entries {
		if existing.priority < entry.priority {
			pos = i
			break
		}
	}
	entries = append(entries, listenerEntry{})
	copy(entries[pos+1:], entries[pos:])
	entries[pos] = entry
	d.listeners[event] = entries
}

// AddListenerFunc subscribes a plain function as a listener
func (d *Dispatcher) AddListenerFunc(event string, fn ListenerFunc, priority int) {
	d.AddListener(event, fn, priority)
}

// Dispatch invokes the listeners registered for the event's name, in order,
// passing the event and the dispatcher. Propagation is fully synchronous: a
// listener's effect on the event is visible to every listener after it and
// none before it. Dispatch stops early once the event reports propagation
// stopped, and a listener error is returned immediately and unmodified; no
// later listener runs after either.
func (d *Dispatcher) Dispatch(ev Event) error {
	for _, entry := range d.listeners[ev.Name()] {
		if ev.IsPropagationStopped() {
			break
		}
		if err := entry.listener.Handle(ev, d); err != nil {
			return err
		}
	}
	return nil
}

// ListenerCount returns the number of listeners subscribed to an event name
func (d *Dispatcher) ListenerCount(event string) int {
	return len(d.listeners[event])
}
