package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/moodtales/internal/profile"
	"github.com/hrygo/moodtales/store"
	"github.com/hrygo/moodtales/store/db/sqlite"
)

func newTestService(t *testing.T) (*echo.Echo, *store.Store) {
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

	e := echo.New()
	NewAPIV1Service(p, s).RegisterRoutes(e)
	return e, s
}

func doJSON(e *echo.Echo, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRootAndHello(t *testing.T) {
	e, _ := newTestService(t)

	for path, want := range map[string]string{
		"/":          "Mood Story Generator API is running",
		"/api/hello": "Hello from the backend API!",
	} {
		rec := doJSON(e, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, want, resp.Message)
	}
}

func TestGenerateStory(t *testing.T) {
	e, s := newTestService(t)

	rec := doJSON(e, http.MethodPost, "/api/generate-story", map[string]any{
		"image_data":  "data:image/png;base64,aGVsbG8=",
		"mood":        "happy",
		"expressions": map[string]float64{"happy": 0.9, "neutral": 0.06, "sad": 0.04},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateStoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "happy", resp.Mood)
	require.Equal(t, "sunny", resp.Illustration)
	require.True(t, strings.HasPrefix(resp.Story, "Sunlight spilled across the scene"))
	require.Contains(t, resp.Story, "Mood palette today: happy, neutral, sad.")
	require.NotContains(t, resp.Story, "A note from you:")

	// Exactly one document persisted, and its id matches the response.
	entries, err := s.ListStoryEntries(context.Background(), &store.FindStoryEntry{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, resp.ID, entries[0].UID)
	require.Equal(t, resp.Story, entries[0].Story)
	require.Equal(t, "data:image/png;base64,aGVsbG8=", entries[0].ImageData)
}

func TestGenerateStoryWithHint(t *testing.T) {
	e, _ := newTestService(t)

	rec := doJSON(e, http.MethodPost, "/api/generate-story", map[string]any{
		"image_data":  "data:image/jpeg;base64,aGVsbG8=",
		"mood":        "surprised",
		"expressions": map[string]float64{"surprised": 0.8},
		"prompt_hint": "  a quiet morning  ",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateStoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "spark", resp.Illustration)
	require.Contains(t, resp.Story, "A note from you: a quiet morning")
}

func TestGenerateStoryRejectsBadImageData(t *testing.T) {
	e, s := newTestService(t)

	rec := doJSON(e, http.MethodPost, "/api/generate-story", map[string]any{
		"image_data":  "nonsense",
		"mood":        "happy",
		"expressions": map[string]float64{"happy": 0.9},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing persisted on rejection.
	entries, err := s.ListStoryEntries(context.Background(), &store.FindStoryEntry{})
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestGenerateStoryUnknownMood(t *testing.T) {
	e, _ := newTestService(t)

	rec := doJSON(e, http.MethodPost, "/api/generate-story", map[string]any{
		"image_data":  "data:image/png;base64,aGVsbG8=",
		"mood":        "bewildered",
		"expressions": map[string]float64{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateStoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "cloud", resp.Illustration)
	require.True(t, strings.HasPrefix(resp.Story, "Balanced and unhurried"))
	require.Contains(t, resp.Story, "Mood palette today: bewildered.")
}

func TestListStories(t *testing.T) {
	e, _ := newTestService(t)

	for _, mood := range []string{"happy", "sad", "angry"} {
		rec := doJSON(e, http.MethodPost, "/api/generate-story", map[string]any{
			"image_data":  "data:image/png;base64,aGVsbG8=",
			"mood":        mood,
			"expressions": map[string]float64{mood: 0.7},
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(e, http.MethodGet, "/api/stories?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw, 2)
	for _, doc := range raw {
		require.Contains(t, doc, "id")
		require.NotEmpty(t, doc["id"])
		// The surrogate key stays internal.
		require.NotContains(t, doc, "uid")
		require.NotContains(t, doc, "ID")
	}
}

func TestListStoriesDefaultLimit(t *testing.T) {
	e, _ := newTestService(t)

	rec := doJSON(e, http.MethodGet, "/api/stories?limit=bogus", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Empty(t, raw)
}

func TestDiagnosticEndpoint(t *testing.T) {
	e, _ := newTestService(t)

	rec := doJSON(e, http.MethodGet, "/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DiagnosticResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "✅ Running", resp.Backend)
	require.Equal(t, "✅ Connected & Working", resp.Database)
	require.Equal(t, "Connected", resp.ConnectionStatus)
	require.Contains(t, resp.Collections, "story_entry")
}

func TestBackendFailureSurfacesAsInternalError(t *testing.T) {
	e, s := newTestService(t)
	// Kill the store connection so every database call fails.
	require.NoError(t, s.GetDriver().Close())

	rec := doJSON(e, http.MethodPost, "/api/generate-story", map[string]any{
		"image_data":  "data:image/png;base64,aGVsbG8=",
		"mood":        "happy",
		"expressions": map[string]float64{"happy": 0.9},
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	detail, ok := resp["message"].(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(detail, "Failed to store story: "))
	require.LessOrEqual(t, len([]rune(strings.TrimPrefix(detail, "Failed to store story: "))), 120)

	rec = doJSON(e, http.MethodGet, "/api/stories", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp = map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	detail, ok = resp["message"].(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(detail, "Failed to fetch stories: "))
	require.LessOrEqual(t, len([]rune(strings.TrimPrefix(detail, "Failed to fetch stories: "))), 120)

	// Diagnostics degrade to data, never to an error status.
	rec = doJSON(e, http.MethodGet, "/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var diag DiagnosticResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &diag))
	require.Equal(t, "✅ Running", diag.Backend)
	require.NotEqual(t, "✅ Connected & Working", diag.Database)
}

func TestDiagnosticDatabaseURLReflectsEnv(t *testing.T) {
	e, _ := newTestService(t)

	t.Setenv("DATABASE_URL", "")
	rec := doJSON(e, http.MethodGet, "/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DiagnosticResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.DatabaseURL)
	require.Equal(t, "❌ Not Set", *resp.DatabaseURL)

	t.Setenv("DATABASE_URL", "postgres://localhost/moodtales")
	rec = doJSON(e, http.MethodGet, "/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp = DiagnosticResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.DatabaseURL)
	require.Equal(t, "✅ Set", *resp.DatabaseURL)
}

func TestDiagnosticEndpointWithoutStore(t *testing.T) {
	e := echo.New()
	NewAPIV1Service(&profile.Profile{}, nil).RegisterRoutes(e)

	rec := doJSON(e, http.MethodGet, "/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DiagnosticResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "❌ Not Available", resp.Database)
	require.Equal(t, "Not Connected", resp.ConnectionStatus)
	require.Nil(t, resp.DatabaseURL)
}
