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

type WaitlistRepository interface {
	ListByEventID(ctx context.Context, eventID int) ([]*model.WaitlistEntry, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, entry *model.WaitlistEntry) (*model.WaitlistEntry, error)
	FindPendingByEventAndUser(ctx context.Context, tx pgx.Tx, eventID int, userID int) (*model.WaitlistEntry, error)
	FindOldestPending(ctx context.Context, tx pgx.Tx, eventID int) (*model.WaitlistEntry, error)
	MarkFulfilled(ctx context.Context, tx pgx.Tx, id int) error
	CancelAllPendingByEvent(ctx context.Context, tx pgx.Tx, eventID int) (int, error)
}

type WaitlistRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewWaitlistRepository(pool *pgxpool.Pool) WaitlistRepository {
	return &WaitlistRepositoryImpl{
		pool: pool,
	}
}

const waitlistColumns = `id, user_id, event_id, seats, status, created_at, updated_at`

func scanWaitlistEntry(row pgx.Row) (*model.WaitlistEntry, error) {
	var entry model.WaitlistEntry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EventID,
		&entry.Seats,
		&entry.Status,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *WaitlistRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, entry *model.WaitlistEntry) (*model.WaitlistEntry, error) {
	query := `
		INSERT INTO waitlist_entries (user_id, event_id, seats, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + waitlistColumns

	created, err := scanWaitlistEntry(tx.QueryRow(ctx, query,
		entry.UserID, entry.EventID, entry.Seats, model.WaitlistStatusPending,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	return created, nil
}

func (r *WaitlistRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.WaitlistEntry, error) {
	query := `
		SELECT ` + waitlistColumns + `
		FROM waitlist_entries
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*model.WaitlistEntry, 0)
	for rows.Next() {
		entry, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// FindPendingByEventAndUser 同一 (event, user) 重複請求時回傳既有的 PENDING 紀錄
func (r *WaitlistRepositoryImpl) FindPendingByEventAndUser(ctx context.Context, tx pgx.Tx, eventID int, userID int) (*model.WaitlistEntry, error) {
	query := `
		SELECT ` + waitlistColumns + `
		FROM waitlist_entries
		WHERE event_id = $1 AND user_id = $2 AND status = $3
	`

	entry, err := scanWaitlistEntry(tx.QueryRow(ctx, query, eventID, userID, model.WaitlistStatusPending))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrWaitlistEntryNotFound
		}
		return nil, err
	}

	return entry, nil
}

// FindOldestPending 取隊首：created_at 最早者優先，相同時以 id 決勝，
// 順序全序且決定性
func (r *WaitlistRepositoryImpl) FindOldestPending(ctx context.Context, tx pgx.Tx, eventID int) (*model.WaitlistEntry, error) {
	query := `
		SELECT ` + waitlistColumns + `
		FROM waitlist_entries
		WHERE event_id = $1 AND status = $2
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`

	entry, err := scanWaitlistEntry(tx.QueryRow(ctx, query, eventID, model.WaitlistStatusPending))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrWaitlistEntryNotFound
		}
		return nil, err
	}

	return entry, nil
}

func (r *WaitlistRepositoryImpl) MarkFulfilled(ctx context.Context, tx pgx.Tx, id int) error {
	query := `
		UPDATE waitlist_entries
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := tx.Exec(ctx, query,
		model.WaitlistStatusFulfilled, time.Now().UTC(), id, model.WaitlistStatusPending,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrWaitlistEntryNotFound
	}

	return nil
}

func (r *WaitlistRepositoryImpl) CancelAllPendingByEvent(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	query := `
		UPDATE waitlist_entries
		SET status = $1, updated_at = $2
		WHERE event_id = $3 AND status = $4
	`

	result, err := tx.Exec(ctx, query,
		model.WaitlistStatusCancelled, time.Now().UTC(), eventID, model.WaitlistStatusPending,
	)
	if err != nil {
		return 0, err
	}

	return int(result.RowsAffected()), nil
}
