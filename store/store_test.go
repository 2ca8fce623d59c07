package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/moodtales/internal/profile"
	"github.com/hrygo/moodtales/store"
	"github.com/hrygo/moodtales/store/db/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    ":memory:",
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = driver.Close()
	})

	s := store.New(driver, p)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestCreateStoryEntry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	entry, err := s.CreateStoryEntry(ctx, &store.StoryEntry{
		ImageData:    "data:image/png;base64,aGVsbG8=",
		Mood:         "happy",
		Expressions:  map[string]float64{"happy": 0.9, "neutral": 0.1},
		Story:        "a story",
		Illustration: "sunny",
	})
	require.NoError(t, err)
	require.NotEmpty(t, entry.UID)
	require.NotZero(t, entry.ID)
	require.NotZero(t, entry.CreatedTs)

	second, err := s.CreateStoryEntry(ctx, &store.StoryEntry{
		ImageData:    "data:image/png;base64,d29ybGQ=",
		Mood:         "sad",
		Expressions:  map[string]float64{},
		Story:        "another story",
		Illustration: "rainy",
	})
	require.NoError(t, err)
	require.NotEqual(t, entry.UID, second.UID)
}

func TestListStoryEntries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	moods := []string{"happy", "sad", "angry"}
	for i, mood := range moods {
		_, err := s.CreateStoryEntry(ctx, &store.StoryEntry{
			ImageData:    "data:image/png;base64,aGVsbG8=",
			Mood:         mood,
			Expressions:  map[string]float64{mood: 0.8},
			Story:        "story " + mood,
			Illustration: "cloud",
			CreatedTs:    int64(1000 + i),
		})
		require.NoError(t, err)
	}

	limit := 2
	entries, err := s.ListStoryEntries(ctx, &store.FindStoryEntry{Limit: &limit})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	require.Equal(t, "angry", entries[0].Mood)
	require.Equal(t, "sad", entries[1].Mood)
	require.Equal(t, map[string]float64{"angry": 0.8}, entries[0].Expressions)
}

func TestListStoryEntriesByUID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.CreateStoryEntry(ctx, &store.StoryEntry{
		ImageData:    "data:image/png;base64,aGVsbG8=",
		Mood:         "neutral",
		Expressions:  map[string]float64{"neutral": 1},
		Story:        "story",
		Illustration: "cloud",
	})
	require.NoError(t, err)

	entries, err := s.ListStoryEntries(ctx, &store.FindStoryEntry{UID: &created.UID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, created.ID, entries[0].ID)
	require.Equal(t, "story", entries[0].Story)
}

func TestDiagnostics(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Ping(ctx))

	collections, err := s.ListCollections(ctx)
	require.NoError(t, err)
	require.Contains(t, collections, "story_entry")
}
