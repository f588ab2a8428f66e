package orchestrator

import (
	"sync"

	"github.com/veronavoice/concierge/backend/internal/model/chat"
)

// Event types published to subscribers (the rendering layer).
const (
	EventMessage  = "message"
	EventState    = "state"
	EventNavigate = "navigate"
	EventCart     = "cart"
)

// Event is one observable change: a message appended to the history, a
// session state transition, a navigation request or a cart count update.
type Event struct {
	Type      string        `json:"type"`
	Message   *chat.Message `json:"message,omitempty"`
	State     string        `json:"state,omitempty"`
	Path      string        `json:"path,omitempty"`
	CartCount int           `json:"cartCount,omitempty"`
}

// Notifier fans events out to subscribers. Publishing never blocks the
// turn loop: a subscriber that falls behind loses events.
type Notifier struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// NewNotifier returns an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. Cancel is idempotent and closes the channel.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	ch := make(chan Event, 32)
	n.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber, dropping it for any
// whose buffer is full.
func (n *Notifier) Publish(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
