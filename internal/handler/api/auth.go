package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/labstack/echo/v4"
)

// passwordMatches compares sha256(request password) against the configured
// hex hash. The password arrives as a query parameter or the
// X-Admin-Password header.
func passwordMatches(c echo.Context, hash string) bool {
	password := c.QueryParam("password")
	if password == "" {
		password = c.Request().Header.Get("X-Admin-Password")
	}
	sum := sha256.Sum256([]byte(password))
	given := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(given), []byte(hash)) == 1
}
