// Package broadcast is a single-producer, many-consumer fan-out of the
// latest Summary to every active gRPC session. It generalizes the common
// register/unregister/non-blocking-send hub pattern for WebSocket
// broadcast: instead of dropping a slow
// subscriber, a full subscriber channel has its stale value evicted and
// replaced, so every subscriber always holds (at most one update behind)
// the most recent Summary rather than an unbounded backlog.
package broadcast

import (
	"log/slog"
	"sync"

	"orderbook-aggregator/internal/pb"
)

// Hub is the single point through which the aggregator publishes, and
// every gRPC session subscribes.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}

	logger *slog.Logger
}

// NewHub creates an empty broadcast hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		logger: logger.With("component", "broadcast-hub"),
	}
}

// Subscription is one gRPC session's view onto the hub. C returns a
// channel that always holds the latest published Summary — sends never
// block the publisher, and a slow reader simply misses intermediate
// updates rather than falling behind on all of them.
type Subscription struct {
	ch chan *pb.Summary
}

// C returns the channel to receive summaries on.
func (s *Subscription) C() <-chan *pb.Summary { return s.ch }

// Subscribe registers a new subscriber. The caller must call Unsubscribe
// when done to free the slot.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{ch: make(chan *pb.Summary, 1)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("client subscribed", "count", h.count())
	return sub
}

// Unsubscribe removes a subscriber from the hub.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()

	h.logger.Info("client unsubscribed", "count", h.count())
}

func (h *Hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish sends summary to every current subscriber without blocking. A
// subscriber whose buffer is already full (it hasn't drained the previous
// update yet) has that stale value evicted and replaced — this is the
// "latest wins" lag policy: slow readers skip forward to the newest state
// rather than queuing an ever-growing backlog behind the aggregator.
func (h *Hub) Publish(summary *pb.Summary) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		select {
		case sub.ch <- summary:
		default:
			h.logger.Warn("subscriber channel full, dropping stale summary")
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- summary:
			default:
				// Another publish raced us into the slot; next publish will catch up.
			}
		}
	}
}
