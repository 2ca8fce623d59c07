package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/moodtales/store"
	"github.com/hrygo/moodtales/storygen"
)

const (
	// imageDataPrefix is the required prefix of the submitted data URL.
	imageDataPrefix = "data:image/"
	// errorDetailLimit caps the backend error text returned to clients.
	errorDetailLimit = 120
	// defaultListLimit is used when the limit query parameter is absent or invalid.
	defaultListLimit = 10
)

type MessageResponse struct {
	Message string `json:"message"`
}

type GenerateStoryRequest struct {
	// ImageData is the base64 data URL of the captured image.
	ImageData string `json:"image_data"`
	// Mood is the primary detected mood.
	Mood string `json:"mood"`
	// Expressions maps emotion names to confidence scores.
	Expressions map[string]float64 `json:"expressions"`
	// PromptHint is an optional user hint for the story.
	PromptHint string `json:"prompt_hint"`
}

type GenerateStoryResponse struct {
	ID           string `json:"id"`
	Mood         string `json:"mood"`
	Story        string `json:"story"`
	Illustration string `json:"illustration"`
}

// Story is the public shape of a persisted entry. The internal surrogate key
// never leaves the store layer; clients only see the opaque id.
type Story struct {
	ID           string             `json:"id"`
	ImageData    string             `json:"image_data"`
	Mood         string             `json:"mood"`
	Expressions  map[string]float64 `json:"expressions"`
	Story        string             `json:"story"`
	Illustration string             `json:"illustration"`
	CreatedTs    int64              `json:"created_ts"`
}

func (s *APIV1Service) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Mood Story Generator API is running"})
}

func (s *APIV1Service) Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Hello from the backend API!"})
}

func (s *APIV1Service) GenerateStory(c echo.Context) error {
	req := &GenerateStoryRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if !strings.HasPrefix(req.ImageData, imageDataPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "image_data must be a data URL starting with data:image/")
	}

	story := storygen.Story(req.Mood, req.PromptHint, req.Expressions)
	illustration := storygen.IllustrationKey(req.Mood)

	entry, err := s.Store.CreateStoryEntry(c.Request().Context(), &store.StoryEntry{
		ImageData:    req.ImageData,
		Mood:         req.Mood,
		Expressions:  req.Expressions,
		Story:        story,
		Illustration: illustration,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError,
			"Failed to store story: "+truncateError(err, errorDetailLimit))
	}

	return c.JSON(http.StatusOK, GenerateStoryResponse{
		ID:           entry.UID,
		Mood:         entry.Mood,
		Story:        entry.Story,
		Illustration: entry.Illustration,
	})
}

func (s *APIV1Service) ListStories(c echo.Context) error {
	limit := defaultListLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := s.Store.ListStoryEntries(c.Request().Context(), &store.FindStoryEntry{Limit: &limit})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError,
			"Failed to fetch stories: "+truncateError(err, errorDetailLimit))
	}

	stories := make([]*Story, 0, len(entries))
	for _, entry := range entries {
		stories = append(stories, convertStoryEntryFromStore(entry))
	}
	return c.JSON(http.StatusOK, stories)
}

func convertStoryEntryFromStore(entry *store.StoryEntry) *Story {
	return &Story{
		ID:           entry.UID,
		ImageData:    entry.ImageData,
		Mood:         entry.Mood,
		Expressions:  entry.Expressions,
		Story:        entry.Story,
		Illustration: entry.Illustration,
		CreatedTs:    entry.CreatedTs,
	}
}
