package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go-event-booking/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 併發配位下不可超賣：capacity C、N 個人同時各搶 1 位，
// 恰好 C 筆 CONFIRMED，其餘 N-C 筆進候補
func TestAllocateConcurrent(t *testing.T) {
	ctx := context.Background()

	cleanup := setupTestWithTruncate(t)
	defer cleanup()
	s := newStack(t)

	const (
		capacity   = 10
		numClients = 50
	)

	userIDs := make([]int, numClients)
	for i := range userIDs {
		userIDs[i] = createTestUser(t,
			fmt.Sprintf("User%d", i),
			fmt.Sprintf("user%d@example.com", i))
	}

	event := createTestEvent(t, s, "Go Conference", capacity)

	var wg sync.WaitGroup
	outcomes := make([]*model.AllocationOutcome, numClients)
	errs := make([]error, numClients)

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			outcomes[idx], errs[idx] = s.booking.Allocate(ctx, event.EventID, userIDs[idx], 1)
		}(i)
	}
	wg.Wait()

	confirmed := 0
	waitlisted := 0
	for i := 0; i < numClients; i++ {
		require.NoError(t, errs[i], "allocation %d failed", i)
		switch {
		case outcomes[i].Confirmed():
			confirmed++
		case outcomes[i].Waitlisted():
			waitlisted++
		default:
			t.Fatalf("allocation %d returned neither booking nor waitlist entry", i)
		}
	}

	assert.Equal(t, capacity, confirmed)
	assert.Equal(t, numClients-capacity, waitlisted)

	updated, err := s.events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, updated.BookedSeats)
	assertSeatInvariant(t, event.ID)

	entries, err := s.waitlist.ListByEventID(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, entries, numClients-capacity)
}

// 併發取消同一筆訂位：恰好一個成功，座位只歸還一次
func TestCancelBookingConcurrent(t *testing.T) {
	ctx := context.Background()

	cleanup := setupTestWithTruncate(t)
	defer cleanup()
	s := newStack(t)

	userID := createTestUser(t, "Alice", "alice@example.com")
	event := createTestEvent(t, s, "Go Conference", 5)
	booking := allocateConfirmed(t, s, event, userID, 3)

	const numClients = 5

	var wg sync.WaitGroup
	errs := make([]error, numClients)

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = s.booking.CancelBooking(ctx, booking.ID, userID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i := 0; i < numClients; i++ {
		if errs[i] == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)

	updated, err := s.events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.BookedSeats)
	assertSeatInvariant(t, event.ID)
}
