package model

import "time"

// AllocationOutcome Allocate 的結果：確認訂位或加入候補，兩者必居其一。
// 座位不足不是錯誤，是候補分支
type AllocationOutcome struct {
	Booking       *Booking       `json:"booking,omitempty"`
	WaitlistEntry *WaitlistEntry `json:"waitlist_entry,omitempty"`
}

// Confirmed 回傳是否為確認訂位分支
func (o *AllocationOutcome) Confirmed() bool {
	return o.Booking != nil
}

// Waitlisted 回傳是否為候補分支
func (o *AllocationOutcome) Waitlisted() bool {
	return o.WaitlistEntry != nil
}

// PromotionNotice 候補遞補成功後發往通知隊列的訊息。
// 通知失敗不回滾遞補，重試由投遞層負責
type PromotionNotice struct {
	EventID    int       `json:"event_id"`
	EventName  string    `json:"event_name"`
	UserID     int       `json:"user_id"`
	Seats      int       `json:"seats"`
	PromotedAt time.Time `json:"promoted_at"`
}

// AnalyticsOverview 管理端統計總覽
type AnalyticsOverview struct {
	TotalConfirmedBookings        int            `json:"total_confirmed_bookings"`
	CapacityUtilizationPercentage float64        `json:"capacity_utilization_percentage"`
	MostPopularEvents             []PopularEvent `json:"most_popular_events"`
}

type PopularEvent struct {
	EventID      int    `json:"event_id"`
	EventName    string `json:"event_name"`
	BookingCount int    `json:"booking_count"`
}
