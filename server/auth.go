// ABOUTME: Bearer token authentication middleware for the dashboard API.
// ABOUTME: Supports Authorization header and clusterlens_token cookie for browser sessions.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// AuthMiddleware returns an http.Handler middleware that validates bearer
// tokens on /api/* routes. Health checks and the login endpoint pass through
// unprotected. For browser sessions, the middleware also accepts a
// clusterlens_token cookie (set by the /login endpoint).
func AuthMiddleware(token string) func(http.Handler) http.Handler {
	expected := "Bearer " + token
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			// Exempt paths that don't need auth
			if path == "/" || path == "/health" || path == "/login" {
				next.ServeHTTP(w, r)
				return
			}

			needsAuth := strings.HasPrefix(path, "/api/") || path == "/api"
			if !needsAuth {
				next.ServeHTTP(w, r)
				return
			}

			// Check Authorization header (API clients)
			auth := r.Header.Get("Authorization")
			if subtle.ConstantTimeCompare([]byte(auth), []byte(expected)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			// Check cookie (browser sessions)
			if cookie, err := r.Cookie("clusterlens_token"); err == nil {
				if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(token)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		})
	}
}

// LoginHandler validates a token query parameter and sets a session cookie.
// GET /login?token=xxx validates and sets the cookie, then redirects to /.
// GET /login without a token shows a minimal login prompt.
func LoginHandler(expectedToken string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`<!DOCTYPE html><html><head><title>clusterlens — Login</title></head><body style="font-family:sans-serif;display:flex;justify-content:center;align-items:center;height:100vh;margin:0;background:#101820;color:#e0e0e0"><div style="text-align:center"><h1>clusterlens</h1><p>Authentication required.</p><p style="color:#888">Append <code>?token=YOUR_TOKEN</code> to this URL.</p></div></body></html>`))
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`<!DOCTYPE html><html><head><title>clusterlens — Login</title></head><body style="font-family:sans-serif;display:flex;justify-content:center;align-items:center;height:100vh;margin:0;background:#101820;color:#e0e0e0"><div style="text-align:center"><h1>clusterlens</h1><p style="color:#ff6b6b">Invalid token.</p></div></body></html>`))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "clusterlens_token",
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteStrictMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
