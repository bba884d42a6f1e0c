package store

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
)

// SQLite primary result codes that mean another connection holds the lock.
const (
	sqliteBusy   = 5
	sqliteLocked = 6
)

// isConflict reports whether err is a lock contention error worth retrying.
// Driver errors are matched by result code, anything else by message.
func isConflict(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqliteBusy, sqliteLocked:
			return true
		}
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
