package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Bus carries change events between service instances.
type Bus interface {
	Publish(ctx context.Context, ev ChangeEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev ChangeEvent)) error
	Close() error
}

type redisBus struct {
	rdb     *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisBus(rdb *redis.Client, channel string, logger *slog.Logger) (Bus, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if channel == "" {
		channel = "nova:changes"
	}
	return &redisBus{
		rdb:     rdb,
		channel: channel,
		logger:  logger.With("component", "realtime_bus"),
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, ev ChangeEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisBus) StartForwarder(ctx context.Context, onEvent func(ev ChangeEvent)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// wait for the subscription confirmation
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var ev ChangeEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.logger.Warn("Bad realtime payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()

	return nil
}

// Close is a no-op; the redis client is owned by the caller.
func (b *redisBus) Close() error { return nil }
