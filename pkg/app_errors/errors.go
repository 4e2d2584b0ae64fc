package apperrors

import "errors"

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrWaitlistEntryNotFound = errors.New("waitlist entry not found")

	// Conflict 類：目前狀態不允許此操作
	ErrEventCancelled          = errors.New("event is cancelled")
	ErrEventAlreadyCancelled   = errors.New("event already cancelled")
	ErrBookingAlreadyCancelled = errors.New("booking already cancelled")
	ErrNotBookingOwner         = errors.New("booking belongs to another user")

	// booked_seats 將為負數或超過 capacity：致命錯誤，交易必須中止
	ErrSeatInvariantViolation = errors.New("booked seats invariant violation")

	// 等待 event row lock 超過 lock_timeout
	ErrLockTimeout = errors.New("timed out waiting for event lock")

	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)
