package repository

import (
	"context"
	"fmt"
	"time"

	"go-event-booking/internal/model"
	apperrors "go-event-booking/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id int) (*model.Booking, error)
	ListByUserID(ctx context.Context, userID int) ([]*model.Booking, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Booking, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, error)
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id int) (*model.Booking, error)
	CancelIfConfirmed(ctx context.Context, tx pgx.Tx, id int) (*model.Booking, error)
	CancelAllConfirmedByEvent(ctx context.Context, tx pgx.Tx, eventID int) (int, error)
	SumConfirmedSeatsByEvent(ctx context.Context, tx pgx.Tx, eventID int) (int, error)
}

type BookingRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &BookingRepositoryImpl{
		pool: pool,
	}
}

const bookingColumns = `id, user_id, event_id, seats, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.EventID,
		&booking.Seats,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, error) {
	query := `
		INSERT INTO bookings (user_id, event_id, seats, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + bookingColumns

	created, err := scanBooking(tx.QueryRow(ctx, query,
		booking.UserID, booking.EventID, booking.Seats, model.BookingStatusConfirmed,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return created, nil
}

func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) FindByIDInTx(ctx context.Context, tx pgx.Tx, id int) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	booking, err := scanBooking(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) ListByUserID(ctx context.Context, userID int) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	return r.queryBookings(ctx, query, userID)
}

func (r *BookingRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE event_id = $1
		ORDER BY created_at DESC
	`

	return r.queryBookings(ctx, query, eventID)
}

func (r *BookingRepositoryImpl) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*model.Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

// CancelIfConfirmed 只有 CONFIRMED 才翻成 CANCELLED；已取消的訂位回 Conflict。
// 呼叫端必須已持有對應 event 的 row lock，兩個並發取消在鎖上序列化後，
// 第二個會在這裡失敗而不是重複歸還座位
func (r *BookingRepositoryImpl) CancelIfConfirmed(ctx context.Context, tx pgx.Tx, id int) (*model.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + bookingColumns

	booking, err := scanBooking(tx.QueryRow(ctx, query,
		model.BookingStatusCancelled, time.Now().UTC(), id, model.BookingStatusConfirmed,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingAlreadyCancelled
		}
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) CancelAllConfirmedByEvent(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE event_id = $3 AND status = $4
	`

	result, err := tx.Exec(ctx, query,
		model.BookingStatusCancelled, time.Now().UTC(), eventID, model.BookingStatusConfirmed,
	)
	if err != nil {
		return 0, err
	}

	return int(result.RowsAffected()), nil
}

// SumConfirmedSeatsByEvent 驗證不變量用：booked_seats 必須等於此總和
func (r *BookingRepositoryImpl) SumConfirmedSeatsByEvent(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	query := `
		SELECT COALESCE(SUM(seats), 0)
		FROM bookings
		WHERE event_id = $1 AND status = $2
	`

	var total int
	err := tx.QueryRow(ctx, query, eventID, model.BookingStatusConfirmed).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}
