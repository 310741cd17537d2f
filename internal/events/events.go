// Package events pushes settlement events to an outbound feed after the
// ledger transaction that produced them has committed.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/GlebRadaev/crowdfund/internal/domain"
)

type ListPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisPublisher appends each event as JSON to a Redis list.
type RedisPublisher struct {
	client ListPusher
	key    string
}

func NewRedisPublisher(client ListPusher, key string) *RedisPublisher {
	return &RedisPublisher{client: client, key: key}
}

func (p *RedisPublisher) Publish(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	if err := p.client.RPush(ctx, p.key, data).Err(); err != nil {
		zap.L().Error("event push to list failed", zap.String("key", p.key), zap.Error(err))
		return err
	}
	zap.L().Debug("event published", zap.String("type", string(event.Type)), zap.String("campaignID", event.CampaignID))
	return nil
}

// Connect opens a Redis client and checks it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// Nop drops every event. Used when no feed is configured.
type Nop struct{}

func (Nop) Publish(context.Context, domain.Event) error {
	return nil
}
