package common

import "time"

// CacheInterface is the lookup cache the promotion services read through.
// Entries live for one game session at most; Flush is called whenever the
// host process restarts.
type CacheInterface interface {
	// Set stores value under key for duration
	Set(key string, value interface{}, duration time.Duration)

	// Get returns the value and true when key is present and unexpired
	Get(key string) (interface{}, bool)

	Flush()

	Close() error
}
