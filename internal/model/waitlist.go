package model

import "time"

// WaitlistStatus 候補狀態類型
type WaitlistStatus string

const (
	WaitlistStatusPending   WaitlistStatus = "PENDING"
	WaitlistStatusFulfilled WaitlistStatus = "FULFILLED"
	WaitlistStatusCancelled WaitlistStatus = "CANCELLED"
)

// IsValid 驗證狀態是否有效
func (s WaitlistStatus) IsValid() bool {
	switch s {
	case WaitlistStatusPending, WaitlistStatusFulfilled, WaitlistStatusCancelled:
		return true
	}
	return false
}

// WaitlistEntry 候補模型。created_at 決定 FIFO 順序，時間相同時以 id 決勝，
// 同一 (event, user) 最多只有一筆 PENDING
type WaitlistEntry struct {
	ID        int            `json:"id" db:"id"`
	UserID    int            `json:"user_id" db:"user_id"`
	EventID   int            `json:"event_id" db:"event_id"`
	Seats     int            `json:"seats" db:"seats"`
	Status    WaitlistStatus `json:"status" db:"status"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// IsPending 檢查候補是否仍在等待
func (w *WaitlistEntry) IsPending() bool {
	return w.Status == WaitlistStatusPending
}
