package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireGroup returns a middleware function that enforces that the
// authenticated user belongs to one of the specified groups.  The groups
// accepted should correspond to the values stored in the JWT's "group"
// claim.  If the user's group is not in the allowed set, the request
// is aborted with a 403 Forbidden response.  It assumes a previous
// middleware has extracted the group into the context under the key
// "group".
func RequireGroup(groups ...string) echo.MiddlewareFunc {
    // Build a set of allowed groups for constant‑time lookups.  The map
    // value is a boolean and is always true when present.
    allowed := make(map[string]bool, len(groups))
    for _, g := range groups {
        allowed[g] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Retrieve the group from context.  It should have been
            // stored by JWTAuth middleware as a string.  If not
            // present or of wrong type, treat as missing.
            v := c.Get("group")
            group, ok := v.(string)
            if !ok || !allowed[group] {
                // If group is missing or not allowed, return 403
                return c.JSON(http.StatusForbidden, echo.Map{"detail": "You don't have permission to perform this action."})
            }
            // Otherwise call the next handler in the chain
            return next(c)
        }
    }
}
