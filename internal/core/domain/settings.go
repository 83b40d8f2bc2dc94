package domain

import "time"

// DefaultLockRetry is the polling interval used while waiting for a cache lock.
const DefaultLockRetry = 100 * time.Millisecond

// Settings holds the resolved process configuration.
type Settings struct {
	// CacheFolder is the cache root. Empty means not configured.
	CacheFolder string
	// LogFile is an optional rotating log file.
	LogFile string
	// LogJSON switches the logger to JSON output.
	LogJSON bool
	// Trace logs finished compute and load spans.
	Trace bool
	// LockRetry is the polling interval for cache locks.
	LockRetry time.Duration
}
