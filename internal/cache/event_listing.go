package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	listingKey = "events:listing"
	listingTTL = 30 * time.Second
)

// EventListingCache 活動列表的讀取側快取。只服務讀路徑：
// 配位/遞補的決策絕不讀這裡，一律在鎖內重讀資料庫
type EventListingCache interface {
	// 取得快取的列表 JSON；miss 時回傳 ErrCacheMiss
	GetListing(ctx context.Context) (string, error)
	SetListing(ctx context.Context, payload string) error
	// 活動座位數或狀態改變時由核心呼叫，只負責通知「event X 變了」
	Invalidate(ctx context.Context, eventID int) error
}

// ErrCacheMiss 列表不在快取中
var ErrCacheMiss = errors.New("event listing not cached")

type EventListingCacheImpl struct {
	client *redis.Client
}

func NewEventListingCache(client *redis.Client) EventListingCache {
	return &EventListingCacheImpl{
		client: client,
	}
}

func (c *EventListingCacheImpl) getEventKey(eventID int) string {
	return fmt.Sprintf("event:%d:detail", eventID)
}

func (c *EventListingCacheImpl) GetListing(ctx context.Context) (string, error) {
	val, err := c.client.Get(ctx, listingKey).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *EventListingCacheImpl) SetListing(ctx context.Context, payload string) error {
	return c.client.Set(ctx, listingKey, payload, listingTTL).Err()
}

func (c *EventListingCacheImpl) Invalidate(ctx context.Context, eventID int) error {
	return c.client.Del(ctx, listingKey, c.getEventKey(eventID)).Err()
}
