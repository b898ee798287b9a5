package hub

import (
	"context"

	"github.com/DoyleJ11/waitlist/pkg/types"
)

type HubMsg interface{ isHubMsg() }

type Subscribe struct {
	ID     string
	Outbox chan Snapshot // where this subscriber wants to receive snapshots
}

type Unsubscribe struct{ ID string }

type Publish struct {
	Rankings []types.RankingEntry
}

type GetStats struct {
	Reply chan Stats
}

type Shutdown struct{}

func (Subscribe) isHubMsg()   {}
func (Unsubscribe) isHubMsg() {}
func (Publish) isHubMsg()     {}
func (GetStats) isHubMsg()    {}
func (Shutdown) isHubMsg()    {}

type Snapshot struct {
	Version  int
	Rankings []types.RankingEntry
}

type Stats struct {
	Version     int
	Subscribers int
}

// Hub fans ranking snapshots out to feed subscribers. All state lives on the
// loop goroutine.
type Hub struct {
	inbox   chan HubMsg
	latest  *Snapshot
	version int
	subs    map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
	// observed on every subscriber count change, nil-safe
	onSubscribers func(n int)
}

type Option func(*Hub)

// WithSubscriberGauge reports the subscriber count after every change.
func WithSubscriberGauge(fn func(n int)) Option {
	return func(h *Hub) { h.onSubscribers = fn }
}

func NewHub(parent context.Context, opts ...Option) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64), // small buffer
		subs:   make(map[string]chan Snapshot),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(h)
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub has shut down.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

// Notify publishes a new ranking. It gives up if ctx or the hub ends first.
func (h *Hub) Notify(ctx context.Context, rankings []types.RankingEntry) {
	select {
	case h.inbox <- Publish{Rankings: rankings}:
	case <-ctx.Done():
	case <-h.ctx.Done():
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Subscribe:
				h.subs[msg.ID] = msg.Outbox
				if h.latest != nil {
					// replay so a fresh subscriber doesn't wait for the next signup
					select {
					case msg.Outbox <- *h.latest:
					default:
					}
				}
				h.reportSubscribers()

			case Unsubscribe:
				if _, ok := h.subs[msg.ID]; ok {
					delete(h.subs, msg.ID)
					h.reportSubscribers()
				}

			case Publish:
				h.version++
				snap := Snapshot{Version: h.version, Rankings: msg.Rankings}
				h.latest = &snap
				h.broadcast(snap)

			case GetStats:
				msg.Reply <- Stats{Version: h.version, Subscribers: len(h.subs)}

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for id, ch := range h.subs {
		close(ch) // no more snapshots
		delete(h.subs, id)
	}
	h.reportSubscribers()
	h.cancel()
}

func (h *Hub) broadcast(snap Snapshot) {
	dropped := false
	for id, ch := range h.subs {
		select {
		case ch <- snap:
			// ok
		default:
			// subscriber is slow/full - drop them
			close(ch)
			delete(h.subs, id)
			dropped = true
		}
	}
	if dropped {
		h.reportSubscribers()
	}
}

func (h *Hub) reportSubscribers() {
	if h.onSubscribers != nil {
		h.onSubscribers(len(h.subs))
	}
}
