package memcache

/*
signals.go models the platform notification source spec.md §1 names as an
external collaborator ("a monotonic clock source... and a platform
notification source signalling low-memory and background-transition
events") and §9 Design Notes asks to be injected rather than hard-wired
to a specific OS API:

    "an external event source that may fire on_memory_pressure and
    on_background callbacks; a target implementation should accept
    these as injected event streams so the library is host-agnostic
    and testable."

PlatformSignalSource exposes two receive-only channels. Firing either
channel (by sending a value) triggers the configured observer and,
if enabled, a remove_all. A nil source disables both signals.
*/

// PlatformSignalSource is an injectable source of host lifecycle events.
type PlatformSignalSource interface {
	MemoryWarnings() <-chan struct{}
	Backgrounded() <-chan struct{}
}

// ManualSignalSource is a PlatformSignalSource callers can fire by hand,
// useful for tests and for hosts without a native low-memory API.
type ManualSignalSource struct {
	memWarn chan struct{}
	bg      chan struct{}
}

// NewManualSignalSource creates a signal source under direct caller
// control.
func NewManualSignalSource() *ManualSignalSource {
	return &ManualSignalSource{
		memWarn: make(chan struct{}, 1),
		bg:      make(chan struct{}, 1),
	}
}

func (m *ManualSignalSource) MemoryWarnings() <-chan struct{} { return m.memWarn }
func (m *ManualSignalSource) Backgrounded() <-chan struct{}   { return m.bg }

// FireMemoryWarning signals a low-memory event. Non-blocking: a pending,
// unconsumed signal is not duplicated.
func (m *ManualSignalSource) FireMemoryWarning() {
	select {
	case m.memWarn <- struct{}{}:
	default:
	}
}

// FireBackground signals a background-transition event.
func (m *ManualSignalSource) FireBackground() {
	select {
	case m.bg <- struct{}{}:
	default:
	}
}

func (c *Cache) listenForSignals() {
	if c.signals == nil {
		return
	}
	go func() {
		memWarn := c.signals.MemoryWarnings()
		bg := c.signals.Backgrounded()
		for {
			select {
			case <-memWarn:
				if c.onMemoryWarning != nil {
					c.onMemoryWarning()
				}
				if c.clearOnMemoryWarning {
					c.RemoveAll()
				}
			case <-bg:
				if c.onBackground != nil {
					c.onBackground()
				}
				if c.clearOnBackground {
					c.RemoveAll()
				}
			case <-c.stopChan:
				return
			}
		}
	}()
}
