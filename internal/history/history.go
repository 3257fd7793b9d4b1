// Package history publishes accepted game actions to a Redis queue for the
// replay/audit consumer. Publishing is fire-and-forget: a game never blocks
// or fails because the historian is down.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// QueueKey is the Redis list the historian consumes from.
const QueueKey = "sen:action_history"

// ActionRecord is one accepted action, in queue order per room.
type ActionRecord struct {
	RoomID      string      `json:"roomId"`
	ActionIndex int         `json:"actionIndex"`
	PlayerID    string      `json:"playerId"`
	ActionType  string      `json:"actionType"`
	Payload     interface{} `json:"payload,omitempty"`
	Timestamp   int64       `json:"timestamp"`
}

// Publisher wraps a Redis client for action publication.
type Publisher struct {
	rdb *redis.Client
	log *logrus.Entry
}

// New connects a publisher. The connection is verified eagerly so
// misconfiguration surfaces at startup, not mid-game.
func New(ctx context.Context, addr string, log *logrus.Logger) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return &Publisher{rdb: rdb, log: log.WithField("component", "history")}, nil
}

// Publish pushes one record onto the queue.
func (p *Publisher) Publish(ctx context.Context, rec ActionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	if err := p.rdb.LPush(ctx, QueueKey, data).Err(); err != nil {
		return fmt.Errorf("push action record: %w", err)
	}
	return nil
}

// PublishAsync publishes on a short-deadline goroutine, logging failures.
func (p *Publisher) PublishAsync(rec ActionRecord) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.Publish(ctx, rec); err != nil {
			p.log.WithError(err).WithField("room", rec.RoomID).
				Warn("failed to publish action record")
		}
	}()
}

// Close releases the Redis connection.
func (p *Publisher) Close() error { return p.rdb.Close() }
