package service

import (
	"context"
	"time"

	"go-event-booking/internal/cache"
	"go-event-booking/internal/model"
	"go-event-booking/internal/queue"
	"go-event-booking/internal/repository"
	apperrors "go-event-booking/pkg/app_errors"
	"go-event-booking/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PromotionService interface {
	// 座位釋出後的遞補檢查：隊首能滿足就確認、標記 FULFILLED、發通知。
	// 每次呼叫最多遞補一筆；隊首要的座位不夠時整個隊列都不動（嚴格 FIFO）
	Promote(ctx context.Context, eventID int) error
}

type PromotionServiceImpl struct {
	pool         *pgxpool.Pool
	eventRepo    repository.EventRepository
	bookingRepo  repository.BookingRepository
	waitlistRepo repository.WaitlistRepository
	notifyQueue  queue.NotificationQueue
	listingCache cache.EventListingCache
}

func NewPromotionService(
	pool *pgxpool.Pool,
	eventRepo repository.EventRepository,
	bookingRepo repository.BookingRepository,
	waitlistRepo repository.WaitlistRepository,
	notifyQueue queue.NotificationQueue,
	listingCache cache.EventListingCache,
) PromotionService {
	return &PromotionServiceImpl{
		pool:         pool,
		eventRepo:    eventRepo,
		bookingRepo:  bookingRepo,
		waitlistRepo: waitlistRepo,
		notifyQueue:  notifyQueue,
		listingCache: listingCache,
	}
}

func (s *PromotionServiceImpl) Promote(ctx context.Context, eventID int) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// 1. 與 Allocate 相同的鎖域：遞補與配位在同一活動上絕不交錯
	event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return err
	}

	// 已取消的活動不再接受任何配位
	if event.IsCancelled() {
		return nil
	}

	available := event.Available()
	if available <= 0 {
		return nil
	}

	// 2. 只看隊首。後面的紀錄再小也不能超車
	entry, err := s.waitlistRepo.FindOldestPending(ctx, tx, event.ID)
	if err != nil {
		if err == apperrors.ErrWaitlistEntryNotFound {
			return nil
		}
		return err
	}

	if available < entry.Seats {
		// 隊首還等不到足夠座位，之後的釋出會再觸發檢查
		return nil
	}

	// 3. 走與 Allocate 同一條確認路徑，鎖已持有
	booking, err := confirmSeats(ctx, tx, s.bookingRepo, s.eventRepo, event, entry.UserID, entry.Seats)
	if err != nil {
		return err
	}

	if err := s.waitlistRepo.MarkFulfilled(ctx, tx, entry.ID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logger.WithComponent("service").Info("waitlist entry promoted",
		zap.Int("event_id", event.ID),
		zap.Int("user_id", entry.UserID),
		zap.Int("seats", entry.Seats),
		zap.Int("booking_id", booking.ID))

	// 4. commit 之後才發通知，fire-and-forget：
	// 發佈失敗只記 log，遞補不回滾、也不在這裡重試
	notice := &model.PromotionNotice{
		EventID:    event.ID,
		EventName:  event.Name,
		UserID:     entry.UserID,
		Seats:      entry.Seats,
		PromotedAt: time.Now().UTC(),
	}
	if err := s.notifyQueue.PublishPromotion(ctx, notice); err != nil {
		logger.WithComponent("service").Warn("failed to publish promotion notice",
			zap.Int("event_id", event.ID),
			zap.Int("user_id", entry.UserID),
			zap.Error(err))
	}

	if s.listingCache != nil {
		if err := s.listingCache.Invalidate(ctx, event.ID); err != nil {
			logger.WithComponent("service").Warn("listing cache invalidation failed",
				zap.Int("event_id", event.ID), zap.Error(err))
		}
	}

	return nil
}
