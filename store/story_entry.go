package store

// StoryEntry is one generated story together with the request that produced
// it. Entries are created once and never mutated or deleted by this service.
type StoryEntry struct {
	// ID is the system generated unique identifier for the entry.
	// It should not be exposed to the public.
	ID int64
	// UID is the user friendly unique identifier for the entry.
	// This is what API clients see as "id".
	UID string

	// Standard fields
	CreatedTs int64

	// Domain specific fields
	ImageData    string
	Mood         string
	Expressions  map[string]float64
	Story        string
	Illustration string
}

type FindStoryEntry struct {
	ID  *int64
	UID *string

	// Limit caps the number of returned entries; entries come newest first.
	Limit *int
}
