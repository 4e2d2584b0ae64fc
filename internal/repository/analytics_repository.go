package repository

import (
	"context"
	"math"

	"go-event-booking/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AnalyticsRepository interface {
	Overview(ctx context.Context) (*model.AnalyticsOverview, error)
}

type AnalyticsRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &AnalyticsRepositoryImpl{
		pool: pool,
	}
}

// Overview 聚合管理端統計：確認訂位總數、ACTIVE 活動的座位使用率、前五熱門活動
func (r *AnalyticsRepositoryImpl) Overview(ctx context.Context) (*model.AnalyticsOverview, error) {
	var totalConfirmed int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(id)
		FROM bookings
		WHERE status = $1
	`, model.BookingStatusConfirmed).Scan(&totalConfirmed)
	if err != nil {
		return nil, err
	}

	var totalBooked, totalCapacity int
	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(booked_seats), 0), COALESCE(SUM(capacity), 0)
		FROM events
		WHERE status = $1
	`, model.EventStatusActive).Scan(&totalBooked, &totalCapacity)
	if err != nil {
		return nil, err
	}

	utilization := 0.0
	if totalCapacity > 0 {
		utilization = math.Round(float64(totalBooked)/float64(totalCapacity)*100*100) / 100
	}

	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.name, COUNT(b.id) AS booking_count
		FROM events e
		JOIN bookings b ON b.event_id = e.id
		WHERE b.status = $1
		GROUP BY e.id, e.name
		ORDER BY booking_count DESC
		LIMIT 5
	`, model.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	popular := make([]model.PopularEvent, 0)
	for rows.Next() {
		var p model.PopularEvent
		if err := rows.Scan(&p.EventID, &p.EventName, &p.BookingCount); err != nil {
			return nil, err
		}
		popular = append(popular, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.AnalyticsOverview{
		TotalConfirmedBookings:        totalConfirmed,
		CapacityUtilizationPercentage: utilization,
		MostPopularEvents:             popular,
	}, nil
}
