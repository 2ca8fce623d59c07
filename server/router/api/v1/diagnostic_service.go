package v1

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

// diagnosticErrorLimit caps error text embedded in the diagnostic payload.
const diagnosticErrorLimit = 50

// maxDiagnosticCollections caps the number of reported collection names.
const maxDiagnosticCollections = 10

// DiagnosticResponse reports backend and database health. Failures are encoded
// in the field values so health checkers can always parse a 200 response.
type DiagnosticResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      *string  `json:"database_url"`
	DatabaseName     *string  `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// TestDatabase inspects database connectivity. It never returns an error
// status; every failure is surfaced as a descriptive string in the body.
func (s *APIV1Service) TestDatabase(c echo.Context) error {
	resp := &DiagnosticResponse{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if s.Store == nil {
		return c.JSON(http.StatusOK, resp)
	}

	ctx := c.Request().Context()
	if err := s.Store.Ping(ctx); err != nil {
		resp.Database = "❌ Error: " + truncateError(err, diagnosticErrorLimit)
		return c.JSON(http.StatusOK, resp)
	}

	resp.Database = "✅ Available"
	resp.ConnectionStatus = "Connected"

	// Report the deployment env var itself; the profile DSN is always filled
	// with a local default for sqlite, which would make this field meaningless.
	dsnStatus := "❌ Not Set"
	if os.Getenv("DATABASE_URL") != "" {
		dsnStatus = "✅ Set"
	}
	resp.DatabaseURL = &dsnStatus

	name := s.Store.DatabaseName()
	if name == "" {
		name = "✅ Connected"
	}
	resp.DatabaseName = &name

	collections, err := s.Store.ListCollections(ctx)
	if err != nil {
		resp.Database = "⚠️  Connected but Error: " + truncateError(err, diagnosticErrorLimit)
		return c.JSON(http.StatusOK, resp)
	}
	if len(collections) > maxDiagnosticCollections {
		collections = collections[:maxDiagnosticCollections]
	}
	resp.Collections = collections
	resp.Database = "✅ Connected & Working"

	return c.JSON(http.StatusOK, resp)
}
