package storefront

import (
	"net/http"
	"time"

	"github.com/joao-fontenele/aurana-storefront/internal/codes"
)

const (
	CookieName   = "customer_code"
	cookieMaxAge = 30 * 24 * time.Hour
)

// The cookie carries the bare code and is not signed, so any client can
// present any code.
func (h *Handler) setCodeCookie(w http.ResponseWriter, code string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		Expires:  time.Now().Add(cookieMaxAge),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// cookieCode returns the code from the request cookie, or "" when the
// cookie is missing or malformed.
func cookieCode(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil || !codes.Valid(c.Value) {
		return ""
	}
	return c.Value
}
