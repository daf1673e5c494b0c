package handler

import (
	"auth-service/service"
	"net/http"
	"time"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	Domain string
	Secure bool
}

func (c CookieConfig) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// setSessionCookies writes both tokens; each cookie lives as long as its token.
func (c CookieConfig) setSessionCookies(w http.ResponseWriter, tokens service.TokenPair) {
	http.SetCookie(w, c.cookie(AccessTokenCookie, tokens.AccessToken, service.AccessTokenTTL))
	http.SetCookie(w, c.cookie(RefreshTokenCookie, tokens.RefreshToken, service.RefreshTokenTTL))
}

func (c CookieConfig) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		ck := c.cookie(name, "", 0)
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
		http.SetCookie(w, ck)
	}
}
