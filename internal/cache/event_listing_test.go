package cache

import (
	"context"
	"log"
	"os"
	"testing"

	"go-event-booking/config"
	"go-event-booking/internal/database"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRedis *redis.Client

func TestMain(m *testing.M) {
	cfg := config.LoadTestConfig()

	var err error
	testRedis, err = database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize test redis: %v", err)
	}

	log.Println("Test redis connected successfully")
	log.Println("Running cache tests...")

	code := m.Run()

	testRedis.Close()
	os.Exit(code)
}

func setupTestWithFlush(t *testing.T) {
	t.Helper()
	if err := testRedis.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to flush test redis: %v", err)
	}
}

func TestEventListingCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss before set", func(t *testing.T) {
		setupTestWithFlush(t)
		c := NewEventListingCache(testRedis)

		_, err := c.GetListing(ctx)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Set then get", func(t *testing.T) {
		setupTestWithFlush(t)
		c := NewEventListingCache(testRedis)

		payload := `[{"id":1,"name":"Go Conference"}]`
		require.NoError(t, c.SetListing(ctx, payload))

		got, err := c.GetListing(ctx)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("Invalidate drops listing", func(t *testing.T) {
		setupTestWithFlush(t)
		c := NewEventListingCache(testRedis)

		require.NoError(t, c.SetListing(ctx, `[]`))
		require.NoError(t, c.Invalidate(ctx, 1))

		_, err := c.GetListing(ctx)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
