// Package readmodel provides read-only queries over the SQLite cache of COB
// projections (patches and notifications). The cache is written by another
// process; this package never writes to it.
package readmodel

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DefaultBusyTimeout is how long a read waits for a writer's lock before
// failing.
const DefaultBusyTimeout = 3 * time.Second

// Options configures a Store.
type Options struct {
	// BusyTimeout bounds how long a query waits on a locked database.
	BusyTimeout time.Duration
	Logger      *zap.Logger
}

// Store is a read-only handle on the cache database. It is safe for
// concurrent use; every call prepares its own statement.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens the cache database at path in read-only mode.
func Open(path string, opts Options) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = DefaultBusyTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite", readOnlyDSN(path, opts.BusyTimeout))
	if err != nil {
		return nil, storageError("open sqlite db", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, storageError("ping sqlite db", err)
	}

	log.Debug("opened read model",
		zap.String("path", path),
		zap.Duration("busyTimeout", opts.BusyTimeout),
	)
	return &Store{db: db, log: log}, nil
}

func readOnlyDSN(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Set("mode", "ro")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	// file URIs need an absolute path; a relative one would parse as a host.
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: q.Encode()}
	return u.String()
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) query(ctx context.Context, op, query string, args ...any) (*sql.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(op, err)
	}
	return rows, nil
}

// placeholders returns n comma separated positional parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
