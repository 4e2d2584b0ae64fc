package service

import (
	"context"
	"encoding/json"

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

type EventService interface {
	Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	// List 讀取側走 Redis 快取，miss 時回源並回填
	List(ctx context.Context) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	// CancelEvent 取消活動並連帶取消所有 CONFIRMED 訂位與 PENDING 候補，之後不跑遞補
	CancelEvent(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	ListWaitlist(ctx context.Context, eventID uuid.UUID) ([]*model.WaitlistEntry, error)
}

type EventServiceImpl struct {
	pool         *pgxpool.Pool
	repo         repository.EventRepository
	bookingRepo  repository.BookingRepository
	waitlistRepo repository.WaitlistRepository
	listingCache cache.EventListingCache
}

func NewEventService(
	pool *pgxpool.Pool,
	repo repository.EventRepository,
	bookingRepo repository.BookingRepository,
	waitlistRepo repository.WaitlistRepository,
	listingCache cache.EventListingCache,
) EventService {
	return &EventServiceImpl{
		pool:         pool,
		repo:         repo,
		bookingRepo:  bookingRepo,
		waitlistRepo: waitlistRepo,
		listingCache: listingCache,
	}
}

func (s *EventServiceImpl) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	if req.Capacity <= 0 {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.repo.Create(ctx, &model.Event{
		EventID:  uuid.New(),
		Name:     req.Name,
		Venue:    req.Venue,
		StartsAt: req.StartsAt,
		Capacity: req.Capacity,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, event.ID)
	return event, nil
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	if s.listingCache != nil {
		payload, err := s.listingCache.GetListing(ctx)
		if err == nil {
			var events []*model.Event
			if err := json.Unmarshal([]byte(payload), &events); err == nil {
				return events, nil
			}
			// 壞掉的快取當作 miss 回源
		} else if err != cache.ErrCacheMiss {
			logger.WithComponent("service").Warn("listing cache read failed", zap.Error(err))
		}
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.listingCache != nil {
		if payload, err := json.Marshal(events); err == nil {
			if err := s.listingCache.SetListing(ctx, string(payload)); err != nil {
				logger.WithComponent("service").Warn("listing cache write failed", zap.Error(err))
			}
		}
	}

	return events, nil
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, event.ID, params)
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, event.ID)
	return updated, nil
}

func (s *EventServiceImpl) CancelEvent(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 與配位/遞補相同的鎖域，取消進行中不允許新的配位插隊
	event, err := s.repo.FindByEventIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	if event.IsCancelled() {
		return nil, apperrors.ErrEventAlreadyCancelled
	}

	cancelledBookings, err := s.bookingRepo.CancelAllConfirmedByEvent(ctx, tx, event.ID)
	if err != nil {
		return nil, err
	}

	// 候補不留孤兒：PENDING 一併收掉，這個活動不會再遞補任何人
	cancelledEntries, err := s.waitlistRepo.CancelAllPendingByEvent(ctx, tx, event.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkCancelled(ctx, tx, event.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	logger.WithComponent("service").Info("event cancelled",
		zap.Int("event_id", event.ID),
		zap.Int("cancelled_bookings", cancelledBookings),
		zap.Int("cancelled_waitlist_entries", cancelledEntries))

	s.invalidateListing(ctx, event.ID)

	event.Status = model.EventStatusCancelled
	event.BookedSeats = 0
	return event, nil
}

func (s *EventServiceImpl) ListWaitlist(ctx context.Context, eventID uuid.UUID) ([]*model.WaitlistEntry, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.waitlistRepo.ListByEventID(ctx, event.ID)
}

func (s *EventServiceImpl) invalidateListing(ctx context.Context, eventID int) {
	if s.listingCache == nil {
		return
	}
	if err := s.listingCache.Invalidate(ctx, eventID); err != nil {
		logger.WithComponent("service").Warn("listing cache invalidation failed",
			zap.Int("event_id", eventID), zap.Error(err))
	}
}
