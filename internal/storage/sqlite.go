package storage

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the local/dev user-record store, used when no Redis URL
// is configured.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			order_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			telegram TEXT NOT NULL DEFAULT '',
			amount REAL NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			paid_at TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at)`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteStore) SaveUser(ctx context.Context, user *User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (order_id, name, email, phone, telegram, amount, currency, status, paid_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(order_id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			telegram = excluded.telegram,
			amount = excluded.amount,
			currency = excluded.currency,
			status = excluded.status,
			paid_at = excluded.paid_at`,
		user.OrderID, user.Name, user.Email, user.Phone, user.Telegram,
		user.Amount, user.Currency, string(user.Status), user.PaidAt, user.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) GetUser(ctx context.Context, orderID string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT order_id, name, email, phone, telegram, amount, currency, status, paid_at, created_at
		 FROM users WHERE order_id = ?`, orderID)
	return scanUser(row)
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, orderID string, status Status) (*User, error) {
	user, err := s.GetUser(ctx, orderID)
	if err != nil {
		return nil, err
	}

	user.Status = status
	if status == StatusPaid {
		user.PaidAt = NowISO()
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET status = ?, paid_at = ? WHERE order_id = ?`,
		string(user.Status), user.PaidAt, orderID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_id, name, email, phone, telegram, amount, currency, status, paid_at, created_at
		 FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var status string
		err := rows.Scan(&u.OrderID, &u.Name, &u.Email, &u.Phone, &u.Telegram,
			&u.Amount, &u.Currency, &status, &u.PaidAt, &u.CreatedAt)
		if err != nil {
			return nil, err
		}
		u.Status = Status(status)
		users = append(users, u)
	}

	return users, rows.Err()
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT order_id, name, email, phone, telegram, amount, currency, status, paid_at, created_at
		 FROM users WHERE email = ? COLLATE NOCASE
		 ORDER BY created_at DESC LIMIT 1`, email)
	return scanUser(row)
}

func (s *SQLiteStore) GetUserByTelegram(ctx context.Context, handle string) (*User, error) {
	// Handle comparison strips a leading @ and ignores case, so matching is
	// done in Go over the full scan rather than in SQL.
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	normalized := NormalizeHandle(handle)
	for i := range users {
		if users[i].Telegram != "" && NormalizeHandle(users[i].Telegram) == normalized {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var status string
	err := row.Scan(&u.OrderID, &u.Name, &u.Email, &u.Phone, &u.Telegram,
		&u.Amount, &u.Currency, &status, &u.PaidAt, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Status = Status(status)
	return &u, nil
}
