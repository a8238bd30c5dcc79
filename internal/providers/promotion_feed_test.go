package providers

import (
	"context"
	"testing"
	"time"

	"il2-rankmod/light/internal/models/dtos"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNoopFeed(t *testing.T) {
	var feed PromotionFeed = NoopFeed{}
	assert.NoError(t, feed.Publish(context.Background(), dtos.PromotionNotice{PilotID: 1}))
}

func TestRedisStreamFeed_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	feed := NewRedisStreamFeed(client, "rankmod:promotions")
	defer feed.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := feed.Publish(ctx, dtos.PromotionNotice{PilotID: 1, NewRank: 5})
	assert.ErrorContains(t, err, "rankmod:promotions")

	_, err = feed.Recent(ctx, 10)
	assert.Error(t, err)
}
