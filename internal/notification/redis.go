package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const DefaultChannel = "airroute:notifications"

// RedisPublisher forwards notifications to a Redis channel so the API
// server can push entries created by the worker
type RedisPublisher struct {
	client  redis.Cmdable
	channel string
}

func NewRedisPublisher(client redis.Cmdable, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, n models.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, string(data)).Err(); err != nil {
		return &models.ExternalServiceError{Service: "redis", Err: err}
	}
	return nil
}

// Relay subscribes to channel and hands every decoded notification to
// publisher until ctx is done
func Relay(ctx context.Context, client *redis.Client, channel string, publisher Publisher) error {
	if channel == "" {
		channel = DefaultChannel
	}
	sub := client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}
	logger := logrus.WithField("channel", channel)
	logger.Info("relaying notifications")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var n models.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				logger.WithError(err).Warn("dropping malformed notification")
				continue
			}
			if err := publisher.Publish(ctx, n); err != nil {
				logger.WithError(err).Warn("failed to relay notification")
			}
		}
	}
}
