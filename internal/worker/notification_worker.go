package worker

import (
	"context"

	"go-event-booking/internal/notifier"
	"go-event-booking/internal/queue"
	"go-event-booking/pkg/logger"

	"go.uber.org/zap"
)

type NotificationWorker interface {
	// 訂閱遞補通知隊列
	Start(ctx context.Context) error
}

type NotificationWorkerImpl struct {
	queue    queue.NotificationQueue
	notifier notifier.Notifier
}

func NewNotificationWorker(queue queue.NotificationQueue, notifier notifier.Notifier) NotificationWorker {
	return &NotificationWorkerImpl{
		queue:    queue,
		notifier: notifier,
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribePromotions(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			err := w.notifier.Notify(ctx, msg.Data)

			if err != nil {
				// 投遞失敗交回隊列延遲重試，遞補本身不受影響
				logger.WithComponent("worker").Warn("notify failed, requeueing",
					zap.Int("user_id", msg.Data.UserID),
					zap.Int("event_id", msg.Data.EventID),
					zap.Error(err))
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
