package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors returned when a write references a row that does not exist.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownItem     = errors.New("unknown clothing item")
)

// newID returns a fresh opaque identifier.
func newID() string {
	return uuid.NewString()
}

// now returns the current time in UTC so stored timestamps sort lexically.
func now() time.Time {
	return time.Now().UTC()
}

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
