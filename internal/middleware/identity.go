package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string identifier for the authenticated user,
// or "anon" when the request carries no valid token.  JWTAuth stores the
// subject as uint64; a string value is tolerated for routes that sit in
// front of JWTAuth in the chain.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case string:
		if v != "" {
			return v
		}
	}
	return "anon"
}
