package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClients splits command traffic (cache, job queue, publish) from the long-lived
// subscription used by the websocket hub.
type RedisClients struct {
	Queue  *redis.Client
	PubSub *redis.Client
}

func dialRedis(ctx context.Context, opt redis.Options, role string) (*redis.Client, error) {
	c := redis.NewClient(&opt)
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("ping redis (%s): %w", role, err)
	}
	return c, nil
}

func NewRedisClients(ctx context.Context, redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	queue, err := dialRedis(ctx, *opt, "queue")
	if err != nil {
		return nil, err
	}
	pubsub, err := dialRedis(ctx, *opt, "pubsub")
	if err != nil {
		queue.Close()
		return nil, err
	}
	return &RedisClients{Queue: queue, PubSub: pubsub}, nil
}

func (r *RedisClients) Close() {
	if r == nil {
		return
	}
	r.Queue.Close()
	r.PubSub.Close()
}

// QueueClient and PubSubClient return nil when Redis is not configured, which every
// consumer treats as in-process mode.
func (r *RedisClients) QueueClient() *redis.Client {
	if r == nil {
		return nil
	}
	return r.Queue
}

func (r *RedisClients) PubSubClient() *redis.Client {
	if r == nil {
		return nil
	}
	return r.PubSub
}
