package service

import (
	"context"

	"go-event-booking/internal/cache"
	"go-event-booking/internal/model"
	"go-event-booking/internal/repository"
	apperrors "go-event-booking/pkg/app_errors"
	"go-event-booking/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BookingService interface {
	// 配位決策：鎖住 event row，座位夠就確認訂位，不夠就加入候補。
	// 兩種結果都是成功，座位不足不是錯誤
	Allocate(ctx context.Context, eventID uuid.UUID, userID int, seats int) (*model.AllocationOutcome, error)
	// 取消訂位並歸還座位，commit 後同步觸發一次遞補檢查
	CancelBooking(ctx context.Context, bookingID int, userID int) (*model.Booking, error)
	GetBookingByID(ctx context.Context, id int) (*model.Booking, error)
	ListUserBookings(ctx context.Context, userID int) ([]*model.Booking, error)
}

type BookingServiceImpl struct {
	pool         *pgxpool.Pool
	eventRepo    repository.EventRepository
	bookingRepo  repository.BookingRepository
	waitlistRepo repository.WaitlistRepository
	promoter     PromotionService
	listingCache cache.EventListingCache
}

func NewBookingService(
	pool *pgxpool.Pool,
	eventRepo repository.EventRepository,
	bookingRepo repository.BookingRepository,
	waitlistRepo repository.WaitlistRepository,
	promoter PromotionService,
	listingCache cache.EventListingCache,
) BookingService {
	return &BookingServiceImpl{
		pool:         pool,
		eventRepo:    eventRepo,
		bookingRepo:  bookingRepo,
		waitlistRepo: waitlistRepo,
		promoter:     promoter,
		listingCache: listingCache,
	}
}

// confirmSeats 在已持有 event row lock 的交易內建立 CONFIRMED 訂位並累加 booked_seats。
// Allocate 與 Promote 共用這一條確認路徑，遞補不需要重新進入 Allocate、也不會重複取鎖
func confirmSeats(
	ctx context.Context,
	tx pgx.Tx,
	bookingRepo repository.BookingRepository,
	eventRepo repository.EventRepository,
	event *model.Event,
	userID int,
	seats int,
) (*model.Booking, error) {
	booking, err := bookingRepo.Create(ctx, tx, &model.Booking{
		UserID:  userID,
		EventID: event.ID,
		Seats:   seats,
	})
	if err != nil {
		return nil, err
	}

	if err := eventRepo.AddBookedSeats(ctx, tx, event.ID, seats); err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *BookingServiceImpl) Allocate(ctx context.Context, eventID uuid.UUID, userID int, seats int) (*model.AllocationOutcome, error) {
	if seats <= 0 {
		return nil, apperrors.ErrInvalidInput
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. 鎖住 event row：檢查與更新之間不允許其他配位/遞補交易插隊
	event, err := s.eventRepo.FindByEventIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	if event.IsCancelled() {
		return nil, apperrors.ErrEventCancelled
	}

	// 2. 在鎖內重讀的權威數字上做決策
	if event.Available() >= seats {
		booking, err := confirmSeats(ctx, tx, s.bookingRepo, s.eventRepo, event, userID, seats)
		if err != nil {
			return nil, err
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}

		s.invalidateListing(ctx, event.ID)
		return &model.AllocationOutcome{Booking: booking}, nil
	}

	// 3. 座位不足 → 候補。同一 (event, user) 已有 PENDING 就回傳原紀錄（冪等）
	existing, err := s.waitlistRepo.FindPendingByEventAndUser(ctx, tx, event.ID, userID)
	if err == nil {
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return &model.AllocationOutcome{WaitlistEntry: existing}, nil
	}
	if err != apperrors.ErrWaitlistEntryNotFound {
		return nil, err
	}

	entry, err := s.waitlistRepo.Create(ctx, tx, &model.WaitlistEntry{
		UserID:  userID,
		EventID: event.ID,
		Seats:   seats,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &model.AllocationOutcome{WaitlistEntry: entry}, nil
}

func (s *BookingServiceImpl) CancelBooking(ctx context.Context, bookingID int, userID int) (*model.Booking, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. 先查訂位拿 event id 與持有人
	booking, err := s.bookingRepo.FindByIDInTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		return nil, apperrors.ErrNotBookingOwner
	}

	// 2. 與配位/遞補相同的鎖域
	event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, booking.EventID)
	if err != nil {
		return nil, err
	}

	// 3. 鎖內翻轉狀態；兩個並發取消序列化後第二個在這裡收到 Conflict
	cancelled, err := s.bookingRepo.CancelIfConfirmed(ctx, tx, booking.ID)
	if err != nil {
		return nil, err
	}

	// 4. 歸還座位
	if err := s.eventRepo.AddBookedSeats(ctx, tx, event.ID, -cancelled.Seats); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, event.ID)

	// 5. commit 後同步跑一次遞補（獨立交易：遞補失敗不影響已完成的取消）
	if err := s.promoter.Promote(ctx, event.ID); err != nil {
		logger.WithComponent("service").Warn("promotion after cancellation failed",
			zap.Int("event_id", event.ID),
			zap.Int("booking_id", cancelled.ID),
			zap.Error(err))
	}

	return cancelled, nil
}

func (s *BookingServiceImpl) GetBookingByID(ctx context.Context, id int) (*model.Booking, error) {
	return s.bookingRepo.FindByID(ctx, id)
}

func (s *BookingServiceImpl) ListUserBookings(ctx context.Context, userID int) ([]*model.Booking, error) {
	return s.bookingRepo.ListByUserID(ctx, userID)
}

func (s *BookingServiceImpl) invalidateListing(ctx context.Context, eventID int) {
	if s.listingCache == nil {
		return
	}
	if err := s.listingCache.Invalidate(ctx, eventID); err != nil {
		logger.WithComponent("service").Warn("listing cache invalidation failed",
			zap.Int("event_id", eventID), zap.Error(err))
	}
}
