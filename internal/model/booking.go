package model

import "time"

// BookingStatus 訂位狀態類型
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// IsValid 驗證狀態是否有效
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	transitions := map[BookingStatus][]BookingStatus{
		BookingStatusConfirmed: {BookingStatusCancelled},
		BookingStatusCancelled: {}, // 不能轉換到任何狀態，保留稽核紀錄
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Booking 訂位模型。取消後不刪除，保留稽核紀錄
type Booking struct {
	ID        int           `json:"id" db:"id"`
	UserID    int           `json:"user_id" db:"user_id"`
	EventID   int           `json:"event_id" db:"event_id"`
	Seats     int           `json:"seats" db:"seats"`
	Status    BookingStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// IsCancelled 檢查訂位是否已取消
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// AllocateRequest 訂位請求。user_id 由外部身分系統驗證後帶入
type AllocateRequest struct {
	EventID string `json:"event_id" binding:"required,uuid"`
	UserID  int    `json:"user_id" binding:"required"`
	Seats   int    `json:"seats" binding:"required,min=1"`
}

type CancelBookingRequest struct {
	UserID int `json:"user_id" binding:"required"`
}
