package web

import "net/http"

func (app *App) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     app.cfg.SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(app.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   app.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (app *App) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     app.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   app.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (app *App) getSessionID(r *http.Request) string {
	cookie, err := r.Cookie(app.cfg.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
