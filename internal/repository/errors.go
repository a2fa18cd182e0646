package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by every store when the requested row does not exist.
var ErrNotFound = errors.New("not found")

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
