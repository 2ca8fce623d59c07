package store

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/moodtales/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// CreateStoryEntry persists one entry. The public identifier and creation
// timestamp are assigned here so both drivers behave identically.
func (s *Store) CreateStoryEntry(ctx context.Context, create *StoryEntry) (*StoryEntry, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	return s.driver.CreateStoryEntry(ctx, create)
}

func (s *Store) ListStoryEntries(ctx context.Context, find *FindStoryEntry) ([]*StoryEntry, error) {
	return s.driver.ListStoryEntries(ctx, find)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.driver.Ping(ctx)
}

func (s *Store) DatabaseName() string {
	return s.driver.DatabaseName()
}

func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	return s.driver.ListCollections(ctx)
}
