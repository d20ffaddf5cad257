package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/imadgeboyega/kiekky-web/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// loggingMiddleware logs all requests
func (app *App) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		app.logger.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		app.logger.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func noCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}

// currentSession resolves the cookie to a live session. Sessions whose token
// has expired are logged out on the way.
func (app *App) currentSession(r *http.Request) (*session.Session, bool) {
	id := app.getSessionID(r)
	if id == "" {
		return nil, false
	}

	s, err := app.sessions.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			app.logger.Printf("⚠️  Failed to load session: %v", err)
		}
		return nil, false
	}

	if s.Credential.Expired(time.Now()) {
		app.logger.Printf("🔒 Token for %q expired, ending session", s.Credential.Username())
		if err := app.sessions.Logout(r.Context(), id); err != nil {
			app.logger.Printf("⚠️  %v", err)
		}
		return nil, false
	}

	return s, true
}

// requireAuth sends visitors without a usable credential to the login page
func (app *App) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noCache(w)

		s, ok := app.currentSession(r)
		if !ok {
			app.clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, s)
		next(w, r.WithContext(ctx))
	}
}

// requireGuest keeps signed-in users away from login and register
func (app *App) requireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noCache(w)

		if _, ok := app.currentSession(r); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// sessionFrom returns the session placed in the context by requireAuth.
func sessionFrom(r *http.Request) *session.Session {
	s, _ := r.Context().Value(sessionKey).(*session.Session)
	return s
}
