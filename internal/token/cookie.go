package token

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookieName carries the signed access token.
	SessionCookieName = "jwt"
	// RefreshCookieName carries the opaque refresh token.
	RefreshCookieName = "refresh_token"
)

// SetSessionCookie binds the access token to an HTTP-only, same-site
// strict cookie. Secure is off only for plain-HTTP development.
func SetSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

// SetRefreshCookie binds the refresh token with the same attributes.
func SetRefreshCookie(c *fiber.Ctx, token string, expiresAt time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

// ClearSessionCookies instructs the client to drop both cookies by
// overwriting them with already-expired empty values.
func ClearSessionCookies(c *fiber.Ctx, secure bool) {
	expired := time.Unix(0, 0)
	for _, name := range []string{SessionCookieName, RefreshCookieName} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteStrictMode,
			Path:     "/",
		})
	}
}
