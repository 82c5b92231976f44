package utils

import (
	"net/http"
	"time"
)

type CookieOptions struct {
	Domain string
	Debug  bool
}

// SetTokenCookie writes an httpOnly token cookie living as long as the token.
func SetTokenCookie(w http.ResponseWriter, name, value string, lifetime time.Duration, options CookieOptions) {
	sameSite := http.SameSiteNoneMode
	if options.Debug {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   options.Domain,
		MaxAge:   int(lifetime.Seconds()),
		Expires:  time.Now().Add(lifetime),
		HttpOnly: true,
		Secure:   !options.Debug,
		SameSite: sameSite,
	})
}

func ClearCookie(w http.ResponseWriter, name string, options CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   options.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}
