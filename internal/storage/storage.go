package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

// Store is the user-record store. Records are keyed by order id; email and
// telegram lookups scan all records and return the most recently created
// match. There are no multi-key guarantees: concurrent status updates for
// the same order are last-write-wins.
type Store interface {
	SaveUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, orderID string) (*User, error)

	// UpdateStatus sets the status of an existing record and stamps PaidAt
	// when the new status is paid. Returns ErrNotFound for unknown orders.
	UpdateStatus(ctx context.Context, orderID string, status Status) (*User, error)

	// ListUsers returns all records, newest first.
	ListUsers(ctx context.Context) ([]User, error)

	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByTelegram(ctx context.Context, handle string) (*User, error)

	Close() error
}

// NormalizeHandle strips a leading @ and lowercases a telegram handle for
// comparison. No other platform username rules are applied.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(handle, "@"))
}

// NowISO returns the current UTC time in the fixed-width ISO-8601 form the
// records use. Fixed width keeps lexicographic order equal to time order.
func NowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
