// Package notify fans out best-effort messages to the live sessions of an identity.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Channel is one live session. Send must not block.
type Channel interface {
	ID() string
	Send(payload []byte) error
}

// Dispatcher keeps the set of open channels per identity. It is safe for
// concurrent use.
type Dispatcher struct {
	mu         sync.RWMutex
	byIdentity map[string]map[string]Channel
	identities map[string]string
	log        *slog.Logger
}

func NewDispatcher(log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		byIdentity: make(map[string]map[string]Channel),
		identities: make(map[string]string),
		log:        log.With("component", "notify"),
	}
}

// Register adds ch to identity's set. A channel already registered under
// another identity is moved.
func (d *Dispatcher) Register(identity string, ch Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.remove(ch.ID())

	set, ok := d.byIdentity[identity]
	if !ok {
		set = make(map[string]Channel)
		d.byIdentity[identity] = set
	}

	set[ch.ID()] = ch
	d.identities[ch.ID()] = identity
}

// Unregister removes ch from whichever identity it belongs to. Unknown
// channels are ignored.
func (d *Dispatcher) Unregister(ch Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.remove(ch.ID())
}

func (d *Dispatcher) remove(channelID string) {
	identity, ok := d.identities[channelID]
	if !ok {
		return
	}

	delete(d.identities, channelID)

	set := d.byIdentity[identity]
	delete(set, channelID)

	if len(set) == 0 {
		delete(d.byIdentity, identity)
	}
}

// Notify sends payload to every channel of identity. Channels that fail are
// logged and skipped.
func (d *Dispatcher) Notify(ctx context.Context, identity string, payload []byte) {
	d.mu.RLock()
	targets := make([]Channel, 0, len(d.byIdentity[identity]))

	for _, ch := range d.byIdentity[identity] {
		targets = append(targets, ch)
	}
	d.mu.RUnlock()

	for _, ch := range targets {
		if err := ch.Send(payload); err != nil {
			d.log.WarnContext(ctx, "notification dropped",
				"identity", identity, "channel", ch.ID(), "error", err)
		}
	}
}

// Count returns the number of channels registered for identity.
func (d *Dispatcher) Count(identity string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.byIdentity[identity])
}
