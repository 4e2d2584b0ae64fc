package model

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus 活動狀態類型
type EventStatus string

const (
	EventStatusActive    EventStatus = "ACTIVE"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusActive, EventStatusCancelled:
		return true
	}
	return false
}

// Event 活動模型。booked_seats 是可用座位的唯一真實來源，
// 只能在持有 event row lock 的交易內修改
type Event struct {
	ID          int         `json:"id" db:"id"`
	EventID     uuid.UUID   `json:"event_id" db:"event_id"`
	Name        string      `json:"name" db:"name"`
	Venue       string      `json:"venue" db:"venue"`
	StartsAt    time.Time   `json:"starts_at" db:"starts_at"`
	Capacity    int         `json:"capacity" db:"capacity"`
	BookedSeats int         `json:"booked_seats" db:"booked_seats"`
	Status      EventStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// Available 回傳目前剩餘座位數
func (e *Event) Available() int {
	return e.Capacity - e.BookedSeats
}

// IsCancelled 檢查活動是否已取消
func (e *Event) IsCancelled() bool {
	return e.Status == EventStatusCancelled
}

type CreateEventRequest struct {
	Name     string    `json:"name" binding:"required"`
	Venue    string    `json:"venue" binding:"required"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	Capacity int       `json:"capacity" binding:"required,min=1"`
}

// UpdateEventParams capacity 建立後不可變，不在可更新欄位內
type UpdateEventParams struct {
	Name     *string    `json:"name"`
	Venue    *string    `json:"venue"`
	StartsAt *time.Time `json:"starts_at"`
}
