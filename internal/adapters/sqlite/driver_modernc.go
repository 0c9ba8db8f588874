package sqlite

import (
	_ "modernc.org/sqlite"
)

func init() {
	registerDriver("sqlite", driverInfo{
		dsn: func(path string) string {
			return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"
		},
	})
}
