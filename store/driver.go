package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all store operations of each database driver.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	Migrate(ctx context.Context) error

	CreateStoryEntry(ctx context.Context, create *StoryEntry) (*StoryEntry, error)
	ListStoryEntries(ctx context.Context, find *FindStoryEntry) ([]*StoryEntry, error)

	// Diagnostics. The main request paths must keep working when these fail.
	Ping(ctx context.Context) error
	DatabaseName() string
	ListCollections(ctx context.Context) ([]string, error)
}
