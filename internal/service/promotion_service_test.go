package service

import (
	"context"
	"testing"
	"time"

	"go-event-booking/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// receivePromotionNotice 從通知隊列讀一筆遞補通知，超時視為沒有發佈
func receivePromotionNotice(t *testing.T, s *stack) *model.PromotionNotice {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deliveries, err := s.queue.SubscribePromotions(ctx)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		d.Ack()
		return d.Data
	case <-time.After(2 * time.Second):
		t.Fatal("expected a promotion notice, got none")
		return nil
	}
}

func assertNoPromotionNotice(t *testing.T, s *stack) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deliveries, err := s.queue.SubscribePromotions(ctx)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		t.Fatalf("expected no promotion notice, got one for user %d", d.Data.UserID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPromote(t *testing.T) {
	ctx := context.Background()

	t.Run("Promotes oldest entry after cancellation frees seats", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()
		s := newStack(t)

		user1 := createTestUser(t, "Alice", "alice@example.com")
		user2 := createTestUser(t, "Bob", "bob@example.com")
		event := createTestEvent(t, s, "Go Conference", 5)

		booking := allocateConfirmed(t, s, event, user1, 5)
		entry := allocateWaitlisted(t, s, event, user2, 4)

		// 取消釋出 5 位 → 遞補在取消流程內同步觸發
		_, err := s.booking.CancelBooking(ctx, booking.ID, user1)
		require.NoError(t, err)

		assert.Equal(t, model.WaitlistStatusFulfilled, getWaitlistStatus(t, entry.ID))

		bookings, err := s.bookings.ListByUserID(ctx, user2)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, model.BookingStatusConfirmed, bookings[0].Status)
		assert.Equal(t, 4, bookings[0].Seats)

		updated, err := s.events.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, updated.BookedSeats)
		assertSeatInvariant(t, event.ID)

		notice := receivePromotionNotice(t, s)
		assert.Equal(t, event.ID, notice.EventID)
		assert.Equal(t, user2, notice.UserID)
		assert.Equal(t, 4, notice.Seats)
	})

	t.Run("Strict FIFO - earlier entry wins", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()
		s := newStack(t)

		user1 := createTestUser(t, "Alice", "alice@example.com")
		user2 := createTestUser(t, "Bob", "bob@example.com")
		user3 := createTestUser(t, "Carol", "carol@example.com")
		event := createTestEvent(t, s, "Go Conference", 2)

		booking := allocateConfirmed(t, s, event, user1, 1)
		first := allocateWaitlisted(t, s, event, user2, 2)
		second := allocateWaitlisted(t, s, event, user3, 2)

		// 釋出 1 位 → 共 2 位可用，只有隊首拿得到
		_, err := s.booking.CancelBooking(ctx, booking.ID, user1)
		require.NoError(t, err)

		assert.Equal(t, model.WaitlistStatusFulfilled, getWaitlistStatus(t, first.ID))
		assert.Equal(t, model.WaitlistStatusPending, getWaitlistStatus(t, second.ID))
		assertSeatInvariant(t, event.ID)
	})

	t.Run("Head blocks - no skip ahead", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()
		s := newStack(t)

		user1 := createTestUser(t, "Alice", "alice@example.com")
		user2 := createTestUser(t, "Bob", "bob@example.com")
		user3 := createTestUser(t, "Carol", "carol@example.com")
		event := createTestEvent(t, s, "Go Conference", 4)

		big := allocateConfirmed(t, s, event, user1, 1)
		allocateConfirmed(t, s, event, user1, 3)
		head := allocateWaitlisted(t, s, event, user2, 3)
		tail := allocateWaitlisted(t, s, event, user3, 1)

		// 釋出 1 位：隊首要 3 位拿不到，後面要 1 位的也不准超車
		_, err := s.booking.CancelBooking(ctx, big.ID, user1)
		require.NoError(t, err)

		assert.Equal(t, model.WaitlistStatusPending, getWaitlistStatus(t, head.ID))
		assert.Equal(t, model.WaitlistStatusPending, getWaitlistStatus(t, tail.ID))

		updated, err := s.events.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, updated.BookedSeats)
		assertNoPromotionNotice(t, s)
	})

	t.Run("One promotion per invocation", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()
		s := newStack(t)

		user1 := createTestUser(t, "Alice", "alice@example.com")
		user2 := createTestUser(t, "Bob", "bob@example.com")
		user3 := createTestUser(t, "Carol", "carol@example.com")
		event := createTestEvent(t, s, "Go Conference", 2)

		booking := allocateConfirmed(t, s, event, user1, 2)
		first := allocateWaitlisted(t, s, event, user2, 1)
		second := allocateWaitlisted(t, s, event, user3, 1)

		// 釋出 2 位，但取消只觸發一次遞補檢查
		_, err := s.booking.CancelBooking(ctx, booking.ID, user1)
		require.NoError(t, err)

		assert.Equal(t, model.WaitlistStatusFulfilled, getWaitlistStatus(t, first.ID))
		assert.Equal(t, model.WaitlistStatusPending, getWaitlistStatus(t, second.ID))

		// 下一次座位釋出（這裡直接再跑一次）才輪到第二筆
		require.NoError(t, s.promo.Promote(ctx, event.ID))
		assert.Equal(t, model.WaitlistStatusFulfilled, getWaitlistStatus(t, second.ID))
		assertSeatInvariant(t, event.ID)
	})

	t.Run("NoOp - empty waitlist", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()
		s := newStack(t)

		event := createTestEvent(t, s, "Go Conference", 5)

		require.NoError(t, s.promo.Promote(ctx, event.ID))
		assertNoPromotionNotice(t, s)
	})

	t.Run("NoOp - event full", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()
		s := newStack(t)

		user1 := createTestUser(t, "Alice", "alice@example.com")
		user2 := createTestUser(t, "Bob", "bob@example.com")
		event := createTestEvent(t, s, "Go Conference", 2)

		allocateConfirmed(t, s, event, user1, 2)
		entry := allocateWaitlisted(t, s, event, user2, 1)

		require.NoError(t, s.promo.Promote(ctx, event.ID))
		assert.Equal(t, model.WaitlistStatusPending, getWaitlistStatus(t, entry.ID))
	})

	t.Run("NoOp - cancelled event", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()
		s := newStack(t)

		event := createTestEvent(t, s, "Go Conference", 5)

		_, err := s.event.CancelEvent(ctx, event.EventID)
		require.NoError(t, err)

		require.NoError(t, s.promo.Promote(ctx, event.ID))
		assertNoPromotionNotice(t, s)
	})
}
