package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkglogger "github.com/prmhq/prm-backend/pkg/logger"
)

// Redis keys
const (
	OutboxKey = "mail:outbox"
	FailedKey = "mail:failed"
)

// ErrEmpty is returned by Dequeue when nothing arrived before the timeout
var ErrEmpty = errors.New("mail queue is empty")

// Enqueuer accepts messages for later delivery
type Enqueuer interface {
	Enqueue(ctx context.Context, msg *Message) error
}

// Queue is the worker side of the outbox
type Queue interface {
	Enqueuer
	Dequeue(ctx context.Context, timeout time.Duration) (*Message, error)
	// Return puts a dequeued message back at the head so it is delivered next
	Return(ctx context.Context, msg *Message) error
	Bury(ctx context.Context, msg *Message) error
}

// RedisQueue is a FIFO list: LPUSH to enqueue, BRPOP to dequeue
type RedisQueue struct {
	client *redis.Client
}

// NewRedisQueue creates a RedisQueue
func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, OutboxKey, data).Err(); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Message, error) {
	res, err := q.client.BRPop(ctx, timeout, OutboxKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}

	// res is [key, value]
	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		return nil, fmt.Errorf("decode mail: %w", err)
	}
	return &msg, nil
}

func (q *RedisQueue) Return(ctx context.Context, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := q.client.RPush(ctx, OutboxKey, data).Err(); err != nil {
		return fmt.Errorf("return mail: %w", err)
	}
	return nil
}

// Bury parks a message that ran out of attempts
func (q *RedisQueue) Bury(ctx context.Context, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, FailedKey, data).Err()
}

// LogQueue writes messages to the log instead of delivering them. Used when Redis is disabled.
type LogQueue struct{}

func (LogQueue) Enqueue(_ context.Context, msg *Message) error {
	pkglogger.GetLogger().Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("mail delivery disabled, message logged")
	return nil
}
