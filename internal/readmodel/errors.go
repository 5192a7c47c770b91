package readmodel

import (
	"errors"
	"fmt"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// StorageError is a failed query against the cache: a prepare, bind or read
// failure, or a lock that outlived the busy timeout.
type StorageError struct {
	Op  string
	Err error
	// Retryable is set when the database was locked; the same call may
	// succeed later.
	Retryable bool
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a StorageError caused by a locked
// database.
func IsRetryable(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr) && storageErr.Retryable
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err, Retryable: isBusy(err)}
}

func isBusy(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return true
	}
	return false
}
