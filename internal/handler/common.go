package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeoutSeconds = 5

// jsonDetail writes the shared error/message envelope {"detail": "..."}.
func jsonDetail(c echo.Context, status int, detail string) error {
	return c.JSON(status, echo.Map{"detail": detail})
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getGroup extracts the group claim JWTAuth stored in context.
func getGroup(c echo.Context) string {
	if g, ok := c.Get("group").(string); ok {
		return g
	}
	return ""
}

// isStaff reports whether the caller belongs to a staff group.
func isStaff(c echo.Context) bool {
	return model.IsStaff(getGroup(c))
}

// paramUint parses a numeric path parameter. A non-numeric value responds
// with notFoundMsg so malformed ids look like missing resources.
func paramUint(c echo.Context, name, notFoundMsg string) (uint64, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, jsonDetail(c, http.StatusNotFound, notFoundMsg)
	}
	return n, nil
}

// queryInt parses an optional integer query parameter, falling back to def
// when absent or malformed.
func queryInt(c echo.Context, name string, def int) int {
	if s := c.QueryParam(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}
