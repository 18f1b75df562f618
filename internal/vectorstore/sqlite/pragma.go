package sqlite

import (
	"fmt"
	"strings"
)

func isMemoryDSN(dsn string) bool {
	lower := strings.ToLower(dsn)
	return dsn == ":memory:" || strings.HasPrefix(lower, "file::memory:")
}

// withPragmas appends WAL and busy_timeout pragmas to file DSNs that do not set them.
func withPragmas(dsn string, busyTimeoutMS int) string {
	if dsn == "" || isMemoryDSN(dsn) {
		return dsn
	}
	lower := strings.ToLower(dsn)
	if !strings.Contains(lower, "_pragma=journal_mode") {
		dsn = addPragma(dsn, "journal_mode(WAL)")
	}
	if busyTimeoutMS > 0 && !strings.Contains(lower, "_pragma=busy_timeout") {
		dsn = addPragma(dsn, fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	}
	return dsn
}

func addPragma(dsn, pragma string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=" + pragma
}
