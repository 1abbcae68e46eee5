package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const fanoutChannelPrefix = "meeting-events:"

// fanoutFrame is what travels over the Redis channel. Origin lets an
// instance skip its own publications, which it already delivered locally.
type fanoutFrame struct {
	Origin    string          `json:"origin"`
	MeetingID uuid.UUID       `json:"meeting_id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
}

// RedisBridge fans broadcasts out across API instances: every local
// broadcast is also published to a per-meeting Redis channel, and frames
// published by other instances are replayed into the local hub. With the
// bridge disabled the hub alone serves single-instance deployments.
type RedisBridge struct {
	hub      *Hub
	client   *redis.Client
	instance string
	logger   *zap.Logger
}

// NewRedisBridge wraps a hub with the Redis pub/sub backplane.
func NewRedisBridge(hub *Hub, client *redis.Client, logger *zap.Logger) *RedisBridge {
	return &RedisBridge{
		hub:      hub,
		client:   client,
		instance: uuid.NewString(),
		logger:   logger,
	}
}

// Broadcast delivers locally first (write-before-broadcast ordering is the
// caller's concern; local subscribers must not lag remote ones), then
// publishes for the other instances. A publish failure is logged and
// swallowed: local delivery already happened and the next event will try
// again.
func (b *RedisBridge) Broadcast(meetingID uuid.UUID, event string, payload interface{}) {
	b.hub.Broadcast(meetingID, event, payload)

	data, err := json.Marshal(payload)
	if err != nil {
		if b.logger != nil {
			b.logger.Error("failed to encode fanout payload",
				zap.String("event", event),
				zap.Error(err),
			)
		}
		return
	}
	frame, err := json.Marshal(fanoutFrame{
		Origin:    b.instance,
		MeetingID: meetingID,
		Event:     event,
		Data:      data,
	})
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	if err := b.client.Publish(ctx, fanoutChannelPrefix+meetingID.String(), frame).Err(); err != nil {
		if b.logger != nil {
			b.logger.Error("failed to publish fanout frame",
				zap.String("event", event),
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
	}
}

// Run subscribes to the fanout channels and replays remote frames into the
// local hub until the context is cancelled.
func (b *RedisBridge) Run(ctx context.Context) {
	sub := b.client.PSubscribe(ctx, fanoutChannelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var frame fanoutFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				if b.logger != nil {
					b.logger.Warn("discarding malformed fanout frame", zap.Error(err))
				}
				continue
			}
			if frame.Origin == b.instance {
				continue
			}
			b.hub.Broadcast(frame.MeetingID, frame.Event, frame.Data)
		}
	}
}
