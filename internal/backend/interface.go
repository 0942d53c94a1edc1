package backend

import (
	"context"

	"github.com/raj-kalepu/SpendWise/internal/records"
)

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// BackendResult contains the repository instance and optional cleanup function
type BackendResult struct {
	Repository records.Repository
	Cleanup    CleanupFunc
}

// Factory creates repositories based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// REST specific
	RESTBaseURL string
	RESTTimeout int // seconds, 0 means the client default

	// Memory backend specific
	SeedDemoData bool
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	RESTBackend   BackendType = "rest"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, RESTBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
