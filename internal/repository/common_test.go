package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"go-event-booking/config"
	"go-event-booking/internal/database"
	"go-event-booking/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	cfg := config.LoadTestConfig()

	var err error
	testDB, err = database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize test database: %v", err)
	}

	if err := database.EnsureSchema(context.Background(), testDB); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	log.Println("Test database connected successfully")
	log.Println("Running repository tests...")

	code := m.Run()

	testDB.Close()
	log.Println("Test database closed")

	os.Exit(code)
}

func setupTestWithTruncate(t *testing.T) func() {
	t.Helper()
	ctx := context.Background()

	_, err := testDB.Exec(ctx, "TRUNCATE waitlist_entries, bookings, events, users RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}

	return func() {}
}

// beginTx 開一個測試交易，測試結束自動 rollback
func beginTx(t *testing.T) pgx.Tx {
	t.Helper()

	tx, err := testDB.BeginTx(context.Background(), pgx.TxOptions{})
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return tx
}

func createUserRow(t *testing.T, name, email string) int {
	t.Helper()

	var id int
	err := testDB.QueryRow(context.Background(),
		"INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id",
		name, email,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

func createEventRow(t *testing.T, name string, capacity, bookedSeats int) *model.Event {
	t.Helper()

	query := `
		INSERT INTO events (event_id, name, venue, starts_at, capacity, booked_seats, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + eventColumns

	event, err := scanEvent(testDB.QueryRow(context.Background(), query,
		uuid.New(), name, "Main Hall",
		time.Now().UTC().Add(72*time.Hour), capacity, bookedSeats, model.EventStatusActive,
	))
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}

	return event
}

// createWaitlistRow 指定 created_at 直接插入，FIFO 排序測試用
func createWaitlistRow(t *testing.T, eventID, userID, seats int, status model.WaitlistStatus, createdAt time.Time) int {
	t.Helper()

	var id int
	err := testDB.QueryRow(context.Background(),
		`INSERT INTO waitlist_entries (user_id, event_id, seats, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		userID, eventID, seats, status, createdAt,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test waitlist entry: %v", err)
	}

	return id
}
