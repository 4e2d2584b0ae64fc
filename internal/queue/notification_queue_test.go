package queue

import (
	"context"
	"testing"
	"time"

	"go-event-booking/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueuePublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewNotificationQueue(10)

	msgs, err := q.SubscribePromotions(ctx)
	require.NoError(t, err)

	notice := &model.PromotionNotice{
		EventID:   1,
		EventName: "Go Conference",
		UserID:    42,
		Seats:     2,
	}
	require.NoError(t, q.PublishPromotion(ctx, notice))

	select {
	case d := <-msgs:
		assert.Equal(t, 42, d.Data.UserID)
		assert.Equal(t, 2, d.Data.Seats)
		assert.Equal(t, "Go Conference", d.Data.EventName)
		d.Ack()
	case <-time.After(time.Second):
		t.Fatal("expected delivery, got none")
	}
}

func TestMemoryQueueNackRequeue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewNotificationQueue(10)

	msgs, err := q.SubscribePromotions(ctx)
	require.NoError(t, err)

	require.NoError(t, q.PublishPromotion(ctx, &model.PromotionNotice{UserID: 7, Seats: 1}))

	// 第一次投遞 Nack(requeue) 後應該再收到同一筆
	select {
	case d := <-msgs:
		d.Nack(true)
	case <-time.After(time.Second):
		t.Fatal("expected first delivery")
	}

	select {
	case d := <-msgs:
		assert.Equal(t, 7, d.Data.UserID)
		d.Ack()
	case <-time.After(time.Second):
		t.Fatal("expected redelivery after nack")
	}
}

func TestMemoryQueuePublishCancelledContext(t *testing.T) {
	q := NewNotificationQueue(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 沒有消費者且 buffer 為 0：發佈應隨 context 取消而返回
	err := q.PublishPromotion(ctx, &model.PromotionNotice{UserID: 1})
	assert.Error(t, err)
}
