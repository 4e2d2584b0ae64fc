package repository

import (
	"context"
	"testing"

	"go-event-booking/internal/model"
	apperrors "go-event-booking/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_AddBookedSeats(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(testDB)

	t.Run("Success - increment within capacity", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createEventRow(t, "Go Conference", 10, 3)
		tx := beginTx(t)

		err := repo.AddBookedSeats(ctx, tx, event.ID, 5)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		updated, err := repo.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, updated.BookedSeats)
	})

	t.Run("Success - decrement to zero", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createEventRow(t, "Go Conference", 10, 4)
		tx := beginTx(t)

		err := repo.AddBookedSeats(ctx, tx, event.ID, -4)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		updated, err := repo.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, updated.BookedSeats)
	})

	t.Run("Failed - would exceed capacity", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createEventRow(t, "Go Conference", 10, 8)
		tx := beginTx(t)

		err := repo.AddBookedSeats(ctx, tx, event.ID, 3)
		assert.ErrorIs(t, err, apperrors.ErrSeatInvariantViolation)
	})

	t.Run("Failed - would go negative", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createEventRow(t, "Go Conference", 10, 2)
		tx := beginTx(t)

		err := repo.AddBookedSeats(ctx, tx, event.ID, -3)
		assert.ErrorIs(t, err, apperrors.ErrSeatInvariantViolation)
	})
}

func TestEventRepository_FindByEventID(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(testDB)

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createEventRow(t, "Go Conference", 10, 0)

		found, err := repo.FindByEventID(ctx, event.EventID)
		require.NoError(t, err)
		assert.Equal(t, event.ID, found.ID)
		assert.Equal(t, "Go Conference", found.Name)
	})

	t.Run("Failed - not found", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		_, err := repo.FindByEventID(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestEventRepository_MarkCancelled(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(testDB)

	t.Run("Success - resets booked seats", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createEventRow(t, "Go Conference", 10, 7)
		tx := beginTx(t)

		err := repo.MarkCancelled(ctx, tx, event.ID)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		updated, err := repo.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EventStatusCancelled, updated.Status)
		assert.Equal(t, 0, updated.BookedSeats)
	})

	t.Run("Failed - not found", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		tx := beginTx(t)

		err := repo.MarkCancelled(ctx, tx, 9999)
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(testDB)

	t.Run("Success - partial update", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createEventRow(t, "Go Conference", 10, 0)

		newName := "GopherCon"
		updated, err := repo.Update(ctx, event.ID, model.UpdateEventParams{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, "GopherCon", updated.Name)
		assert.Equal(t, event.Venue, updated.Venue)
		// capacity 不在可更新欄位內
		assert.Equal(t, event.Capacity, updated.Capacity)
	})

	t.Run("Failed - no fields", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		event := createEventRow(t, "Go Conference", 10, 0)

		_, err := repo.Update(ctx, event.ID, model.UpdateEventParams{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
