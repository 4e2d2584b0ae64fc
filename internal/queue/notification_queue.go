package queue

import (
	"context"

	"go-event-booking/internal/model"
)

type Delivery struct {
	Data *model.PromotionNotice
	Ack  func()
	Nack func(requeue bool)
}

// NotificationQueue 遞補通知隊列。發佈端（promotion engine）只負責
// at-least-attempted：發佈失敗記 log，不回滾遞補，重試由消費端負責
type NotificationQueue interface {
	// 發送遞補通知到隊列
	PublishPromotion(ctx context.Context, notice *model.PromotionNotice) error
	// 訂閱遞補通知隊列
	SubscribePromotions(ctx context.Context) (<-chan Delivery, error)
}

type NotificationQueueImpl struct {
	// 使用 Go channel 的記憶體版實作，開發與測試用
	ch chan *model.PromotionNotice
}

func NewNotificationQueue(bufferSize int) NotificationQueue {
	return &NotificationQueueImpl{
		ch: make(chan *model.PromotionNotice, bufferSize),
	}
}

func (q *NotificationQueueImpl) PublishPromotion(ctx context.Context, notice *model.PromotionNotice) error {
	select {
	case q.ch <- notice:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *NotificationQueueImpl) SubscribePromotions(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case notice, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: notice,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- notice // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
