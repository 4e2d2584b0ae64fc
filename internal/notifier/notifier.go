package notifier

import (
	"context"

	"go-event-booking/internal/model"
	"go-event-booking/pkg/logger"

	"go.uber.org/zap"
)

// Notifier 外部通知投遞的介面。遞補成功後 worker 會呼叫 Notify，
// 失敗由隊列重試，絕不影響已 commit 的遞補
type Notifier interface {
	Notify(ctx context.Context, notice *model.PromotionNotice) error
}

// LogNotifier 以結構化 log 代替真實投遞（email / push 由外部系統接手）
type LogNotifier struct{}

func NewLogNotifier() Notifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, notice *model.PromotionNotice) error {
	logger.WithComponent("notifier").Info("waitlist promotion notification",
		zap.Int("user_id", notice.UserID),
		zap.Int("event_id", notice.EventID),
		zap.String("event_name", notice.EventName),
		zap.Int("seats", notice.Seats),
		zap.Time("promoted_at", notice.PromotedAt),
	)
	return nil
}
