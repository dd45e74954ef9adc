package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const subscriberBuffer = 16

// Publisher is the write side of the hub; services depend on this.
type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent)
}

type subscriber struct {
	filter Filter
	ch     chan ChangeEvent
}

// Hub fans change events out to in-process subscribers. When a Bus is
// attached, Publish goes through the bus and every instance's forwarder
// delivers locally.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	bus    Bus
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*subscriber]struct{}),
		logger: logger,
	}
}

// AttachBus routes publishes through bus and starts forwarding its messages
// to local subscribers until ctx ends.
func (h *Hub) AttachBus(ctx context.Context, bus Bus) error {
	if err := bus.StartForwarder(ctx, h.deliver); err != nil {
		return err
	}
	h.mu.Lock()
	h.bus = bus
	h.mu.Unlock()
	return nil
}

// Subscribe returns a channel of events matching filter. The subscription is
// removed and the channel closed once ctx is done.
func (h *Hub) Subscribe(ctx context.Context, filter Filter) <-chan ChangeEvent {
	sub := &subscriber{filter: filter, ch: make(chan ChangeEvent, subscriberBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, sub)
		close(sub.ch)
		h.mu.Unlock()
	}()

	return sub.ch
}

func (h *Hub) Publish(ctx context.Context, ev ChangeEvent) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	h.mu.RLock()
	bus := h.bus
	h.mu.RUnlock()

	if bus != nil {
		err := bus.Publish(ctx, ev)
		if err == nil {
			return
		}
		h.logger.WarnContext(ctx, "Realtime bus publish failed, delivering locally",
			"table", ev.Table, "error", err)
	}
	h.deliver(ev)
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) deliver(ev ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !sub.filter.Matches(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			h.logger.Warn("Dropping change event for slow subscriber",
				"table", ev.Table, "row_id", ev.RowID)
		}
	}
}
