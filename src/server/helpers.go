package server

import (
	"errors"
	"net/http"
	"strings"

	"token-pulse/src/analysis"
	"token-pulse/src/helpers"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------

func parseSortParams(field, direction string) (analysis.SortField, analysis.SortDirection, error) {
	f, err := analysis.ParseSortField(field)
	if err != nil {
		return "", "", helpers.NewValidationError("%v", err)
	}
	d, err := analysis.ParseSortDirection(direction)
	if err != nil {
		return "", "", helpers.NewValidationError("%v", err)
	}
	return f, d, nil
}

// -----------------------------------------------------------------------------

// statusFor maps error kinds to HTTP status codes.
func statusFor(err error) int {
	var validationErr *helpers.ValidationError
	var databaseErr *helpers.DatabaseError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &databaseErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// -----------------------------------------------------------------------------

// splitList parses a comma separated query value, dropping blanks.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
