package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/hrygo/moodtales/internal/profile"
	"github.com/hrygo/moodtales/store"
)

// APIV1Service wires the JSON API handlers to their shared dependencies.
type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Store:   store,
	}
}

// RegisterRoutes registers all API routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/", s.Root)
	e.GET("/api/hello", s.Hello)
	e.GET("/test", s.TestDatabase)
	e.POST("/api/generate-story", s.GenerateStory)
	e.GET("/api/stories", s.ListStories)
}

// truncateError keeps backend failure details short so internal error payloads
// never leak wholesale to API clients.
func truncateError(err error, limit int) string {
	msg := err.Error()
	if runes := []rune(msg); len(runes) > limit {
		return string(runes[:limit])
	}
	return msg
}
