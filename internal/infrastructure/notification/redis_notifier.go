package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marketplace/backend/internal/domain/marketplace"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// RedisNotifier publishes seller notifications to a Redis Pub/Sub channel.
// Downstream consumers (email workers, in-app notification feeds) subscribe
// to the channel and fan the message out to the seller's configured targets.
type RedisNotifier struct {
	client     *redis.Client
	ownsClient bool
	channel    string
	logger     *zap.Logger
}

// notificationEnvelope is the wire format published to the channel
type notificationEnvelope struct {
	ID         string    `json:"id"`
	SellerID   string    `json:"sellerId"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewRedisNotifier connects to Redis and verifies the connection before
// returning. The channel comes from the automation config.
func NewRedisNotifier(cfg config.RedisConfig, channel string, logger *zap.Logger) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNotifier{
		client:     client,
		ownsClient: true,
		channel:    channel,
		logger:     logger,
	}, nil
}

// NewRedisNotifierWithClient wraps an existing client; the caller keeps
// ownership and is responsible for closing it.
func NewRedisNotifierWithClient(client *redis.Client, channel string, logger *zap.Logger) *RedisNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNotifier{client: client, channel: channel, logger: logger}
}

// Notify publishes the notification as JSON to the configured channel
func (n *RedisNotifier) Notify(ctx context.Context, notification marketplace.Notification) error {
	payload, err := json.Marshal(notificationEnvelope{
		ID:         notification.ID.String(),
		SellerID:   notification.SellerID.String(),
		EntityType: notification.EntityType,
		EntityID:   notification.EntityID.String(),
		Subject:    notification.Subject,
		Body:       notification.Body,
		CreatedAt:  notification.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	n.logger.Debug("notification published",
		zap.String("channel", n.channel),
		zap.String("seller_id", notification.SellerID.String()),
		zap.String("subject", notification.Subject))
	return nil
}

// Close releases the Redis connection when the notifier owns it
func (n *RedisNotifier) Close() error {
	if !n.ownsClient {
		return nil
	}
	return n.client.Close()
}

var _ marketplace.Notifier = (*RedisNotifier)(nil)
