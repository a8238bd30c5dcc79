package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"il2-rankmod/light/internal/models/dtos"

	"github.com/redis/go-redis/v9"
)

// PromotionFeed receives a notice for every promotion event written to the
// career journal.
type PromotionFeed interface {
	Publish(ctx context.Context, notice dtos.PromotionNotice) error
}

// NoopFeed discards notices. Used when no feed is configured.
type NoopFeed struct{}

func (NoopFeed) Publish(context.Context, dtos.PromotionNotice) error { return nil }

// DefaultFeedMaxLen caps the stream so an unattended feed does not grow
// without bound.
const DefaultFeedMaxLen = 10000

// RedisStreamFeed appends notices to a Redis stream
type RedisStreamFeed struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisStreamFeed(client *redis.Client, stream string) *RedisStreamFeed {
	return &RedisStreamFeed{
		client: client,
		stream: stream,
		maxLen: DefaultFeedMaxLen,
	}
}

// Publish adds the notice to the stream
// XADD stream MAXLEN ~ n * data <json>
func (f *RedisStreamFeed) Publish(ctx context.Context, notice dtos.PromotionNotice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal promotion notice: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: f.stream,
		MaxLen: f.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"pilot_id": notice.PilotID,
			"data":     string(data),
		},
	}

	if err := f.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to add to stream %s: %w", f.stream, err)
	}
	return nil
}

// Recent returns up to count notices, newest first.
func (f *RedisStreamFeed) Recent(ctx context.Context, count int64) ([]dtos.PromotionNotice, error) {
	msgs, err := f.client.XRevRangeN(ctx, f.stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read stream %s: %w", f.stream, err)
	}

	notices := make([]dtos.PromotionNotice, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values["data"].(string)
		if !ok {
			continue
		}
		var n dtos.PromotionNotice
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			continue
		}
		notices = append(notices, n)
	}
	return notices, nil
}

// Close releases the Redis connection pool
func (f *RedisStreamFeed) Close() error {
	return f.client.Close()
}
