package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS events (
		id SERIAL PRIMARY KEY,
		event_id UUID NOT NULL UNIQUE,
		name TEXT NOT NULL,
		venue TEXT NOT NULL,
		starts_at TIMESTAMPTZ NOT NULL,
		capacity INT NOT NULL CHECK (capacity > 0),
		booked_seats INT NOT NULL DEFAULT 0 CHECK (booked_seats >= 0 AND booked_seats <= capacity),
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS bookings (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id),
		event_id INT NOT NULL REFERENCES events(id),
		seats INT NOT NULL CHECK (seats > 0),
		status TEXT NOT NULL DEFAULT 'CONFIRMED',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_bookings_event_id ON bookings(event_id);
	CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id);

	CREATE TABLE IF NOT EXISTS waitlist_entries (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id),
		event_id INT NOT NULL REFERENCES events(id),
		seats INT NOT NULL CHECK (seats > 0),
		status TEXT NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_waitlist_event_status ON waitlist_entries(event_id, status, created_at, id);
`

// EnsureSchema 建立所有資料表（冪等），服務啟動與測試初始化共用
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
