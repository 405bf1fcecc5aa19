package handler

import (
	"net/http"
	"time"

	"github.com/go-auth-nosql/internal/transport/http/middleware"
)

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	// Production enables Secure and cross-site (SameSite=None) delivery.
	Production bool
	MaxAge     time.Duration
}

func (c CookieConfig) sameSite() http.SameSite {
	if c.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

func (c CookieConfig) set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Production,
		SameSite: c.sameSite(),
		MaxAge:   int(c.MaxAge / time.Second),
		Expires:  time.Now().Add(c.MaxAge),
	})
}

func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Production,
		SameSite: c.sameSite(),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
