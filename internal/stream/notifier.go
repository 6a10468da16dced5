// Package stream delivers trade-log change notifications from the ingest
// path to connected dashboard clients, one logical channel per user.
package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tradepilot/internal/logger"
	"tradepilot/internal/models"
)

// Notifier publishes newly ingested trade logs and lets clients subscribe
// to a user's stream. Delivery is best-effort: a disconnected subscriber
// simply misses events until it reconnects.
type Notifier interface {
	Publish(ctx context.Context, userID uint, log *models.TradeLog) error
	// Subscribe returns a channel of trade logs for the user and a cancel
	// function that must be called to release the subscription.
	Subscribe(ctx context.Context, userID uint) (<-chan models.TradeLog, func(), error)
}

// channelFor returns the Redis channel name for a user's trade-log stream.
func channelFor(userID uint) string {
	return fmt.Sprintf("trade_logs:%d", userID)
}

// RedisNotifier implements Notifier over Redis pub/sub.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a Notifier backed by the given Redis client.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Publish sends the trade log to the user's channel as JSON.
func (n *RedisNotifier) Publish(ctx context.Context, userID uint, log *models.TradeLog) error {
	payload, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshaling trade log: %w", err)
	}
	if err := n.client.Publish(ctx, channelFor(userID), payload).Err(); err != nil {
		return fmt.Errorf("publishing trade log: %w", err)
	}
	return nil
}

// Subscribe opens a Redis subscription on the user's channel and decodes
// incoming payloads. The returned cancel function closes the subscription
// and the channel.
func (n *RedisNotifier) Subscribe(ctx context.Context, userID uint) (<-chan models.TradeLog, func(), error) {
	sub := n.client.Subscribe(ctx, channelFor(userID))

	// Confirm the subscription before handing out the channel.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribing to trade logs: %w", err)
	}

	out := make(chan models.TradeLog, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var entry models.TradeLog
			if err := json.Unmarshal([]byte(msg.Payload), &entry); err != nil {
				logger.Get().Warnw("dropping malformed trade log payload",
					"channel", msg.Channel,
					"error", err.Error(),
				)
				continue
			}
			select {
			case out <- entry:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel, nil
}
