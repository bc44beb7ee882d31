package database

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Collection names a stored collection. It doubles as the table name.
type Collection string

const (
	Contacts     Collection = "contacts"
	Testimonials Collection = "testimonials"
	Projects     Collection = "projects"
)

// Relay forwards change notifications to every instance sharing the store.
type Relay interface {
	Publish(ctx context.Context, c Collection) error
}

// ChangeFeed fans out "collection changed" signals to in-process watchers.
// Signals carry no payload; a watcher that falls behind sees one pending
// signal, not a backlog.
type ChangeFeed struct {
	mu       sync.Mutex
	watchers map[Collection]map[chan struct{}]struct{}
	relay    Relay
}

func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{watchers: make(map[Collection]map[chan struct{}]struct{})}
}

// Watch registers a watcher for c. The returned stop function unregisters it
// and is safe to call more than once.
func (f *ChangeFeed) Watch(c Collection) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	f.mu.Lock()
	if f.watchers[c] == nil {
		f.watchers[c] = make(map[chan struct{}]struct{})
	}
	f.watchers[c][ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.watchers[c], ch)
			f.mu.Unlock()
		})
	}
	return ch, stop
}

// Notify signals local watchers of c.
func (f *ChangeFeed) Notify(c Collection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.watchers[c] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Publish announces a change to c. With a relay attached the signal
// round-trips through it so other instances see it too; if the relay fails
// the change is still delivered locally.
func (f *ChangeFeed) Publish(ctx context.Context, c Collection) {
	f.mu.Lock()
	relay := f.relay
	f.mu.Unlock()

	if relay != nil {
		err := relay.Publish(ctx, c)
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("collection", string(c)).Msg("relay publish failed, notifying locally")
	}
	f.Notify(c)
}

// SetRelay attaches r. Pass nil to go back to local-only delivery.
func (f *ChangeFeed) SetRelay(r Relay) {
	f.mu.Lock()
	f.relay = r
	f.mu.Unlock()
}

func (f *ChangeFeed) watcherCount(c Collection) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers[c])
}
