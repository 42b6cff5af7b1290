package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"cartify/internal/auth"
	"cartify/internal/middleware"
)

// RefreshTokenCookie carries the refresh token.
const RefreshTokenCookie = "refreshtoken"

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	Secure bool
}

func (cc CookieConfig) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (cc CookieConfig) setSession(c echo.Context, pair *auth.TokenPair) {
	c.SetCookie(cc.cookie(middleware.AccessTokenCookie, pair.AccessToken, pair.AccessExpiresAt))
	c.SetCookie(cc.cookie(RefreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt))
}

func (cc CookieConfig) clearSession(c echo.Context) {
	for _, name := range []string{middleware.AccessTokenCookie, RefreshTokenCookie} {
		ck := cc.cookie(name, "", time.Unix(0, 0))
		ck.MaxAge = -1
		c.SetCookie(ck)
	}
}
