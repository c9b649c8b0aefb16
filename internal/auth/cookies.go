package auth

import (
	"net/http"
	"time"
)

// CookieConfig holds cookie configuration settings
type CookieConfig struct {
	Name     string
	Domain   string // Empty string = current host only
	Secure   bool   // HTTPS only
	SameSite string // "strict", "lax", or "none"
}

// setSessionCookie writes the HttpOnly cookie carrying the session id
func setSessionCookie(w http.ResponseWriter, sessionID string, ttl time.Duration, config CookieConfig) {
	maxAge := int(ttl / time.Second)
	http.SetCookie(w, &http.Cookie{
		Name:     config.Name,
		Value:    sessionID,
		Path:     "/",
		Domain:   config.Domain,
		Expires:  time.Now().Add(ttl),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	})
}

// clearSessionCookie expires the session cookie in the browser
func clearSessionCookie(w http.ResponseWriter, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.Name,
		Value:    "",
		Path:     "/",
		Domain:   config.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	})
}

// sessionIDFromCookie returns the session id sent by the client, if any
func sessionIDFromCookie(r *http.Request, config CookieConfig) (string, bool) {
	cookie, err := r.Cookie(config.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func parseSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
