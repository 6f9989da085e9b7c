package realtime

import (
	"context"

	redislib "github.com/redis/go-redis/v9"

	"github.com/teamdesk/calldesk-backend/pkg/logger"
	redisclient "github.com/teamdesk/calldesk-backend/pkg/redis"
)

// Bridge consumes the redis realtime channel and feeds the hub, so
// events published by any api instance reach this instance's clients.
type Bridge struct {
	client *redisclient.Client
	hub    *Hub
	logg   *logger.Logger
}

// NewBridge wires the redis subscription to the hub.
func NewBridge(client *redisclient.Client, hub *Hub, logg *logger.Logger) *Bridge {
	return &Bridge{client: client, hub: hub, logg: logg}
}

// Run blocks consuming the channel until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	sub, err := b.client.Subscribe(ctx, b.client.RealtimeChannel())
	if err != nil {
		return err
	}
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.handle(ctx, msg)
		}
	}
}

func (b *Bridge) handle(ctx context.Context, msg *redislib.Message) {
	event, err := DecodeEvent([]byte(msg.Payload))
	if err != nil {
		if b.logg != nil {
			b.logg.Warn(ctx, "dropping malformed realtime event")
		}
		return
	}
	b.hub.Dispatch(event)
}
