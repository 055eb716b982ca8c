package interfaces

import "io"

// Database defines the common interface for storage backends.
type Database interface {
	io.Closer // Close() error
}

// StatsProvider defines the interface for backends that expose statistics.
type StatsProvider interface {
	GetStats() (map[string]interface{}, error)
}

// CleanupProvider defines the interface for backends that support expiry cleanup.
type CleanupProvider interface {
	CleanupExpired() error
}
