//go:build cgo

package sqlite

import (
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	registerDriver("sqlite3", driverInfo{
		dsn: func(path string) string {
			return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL&_txlock=immediate"
		},
	})
}
