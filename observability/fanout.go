package observability

import "context"

// NoOpObserver discards all events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}

// MultiObserver delivers each event to several observers in order. The serve
// command uses it to send the same events to the log and to Prometheus.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver drops nil and no-op observers and flattens nested
// MultiObservers, so an event reaches each sink exactly once per layer.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{}
	for _, obs := range observers {
		switch o := obs.(type) {
		case nil, NoOpObserver:
		case *MultiObserver:
			if o != nil {
				m.observers = append(m.observers, o.observers...)
			}
		default:
			m.observers = append(m.observers, o)
		}
	}
	return m
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

// Len reports how many observers receive events.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}
