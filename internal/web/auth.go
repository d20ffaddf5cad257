package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/imadgeboyega/kiekky-web/internal/api"
	"github.com/imadgeboyega/kiekky-web/internal/common/utils"
)

type loginForm struct {
	Username string `validate:"required,max=50"`
	Password string `validate:"required"`
}

type registerForm struct {
	Username string `validate:"required,alphanum,min=3,max=30"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func (app *App) loginPage(w http.ResponseWriter, r *http.Request) {
	app.render(w, http.StatusOK, "login.page.html", &HTMLData{Title: "Log in"})
}

func (app *App) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := loginForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	}
	data := &HTMLData{Title: "Log in", FormData: map[string]string{"username": form.Username}}

	if err := utils.ValidateStruct(form); err != nil {
		data.FormError = err.Error()
		app.render(w, http.StatusUnprocessableEntity, "login.page.html", data)
		return
	}

	app.logger.Printf("🔐 Login attempt for %q", form.Username)

	cred, err := app.auth.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		app.logger.Printf("❌ Login failed for %q: %v", form.Username, err)
		data.FormError = credentialError(err, "Invalid username or password")
		app.render(w, http.StatusUnauthorized, "login.page.html", data)
		return
	}

	app.startSession(w, r, cred, "login.page.html", data)
}

func (app *App) registerPage(w http.ResponseWriter, r *http.Request) {
	app.render(w, http.StatusOK, "register.page.html", &HTMLData{Title: "Sign up"})
}

func (app *App) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := registerForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	data := &HTMLData{
		Title:    "Sign up",
		FormData: map[string]string{"username": form.Username, "email": form.Email},
	}

	if err := utils.ValidateStruct(form); err != nil {
		data.FormError = err.Error()
		app.render(w, http.StatusUnprocessableEntity, "register.page.html", data)
		return
	}

	app.logger.Printf("📝 Registering %q", form.Username)

	cred, err := app.auth.Register(r.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		app.logger.Printf("❌ Registration failed for %q: %v", form.Username, err)
		data.FormError = credentialError(err, "Registration failed")
		app.render(w, http.StatusBadRequest, "register.page.html", data)
		return
	}

	app.startSession(w, r, cred, "register.page.html", data)
}

func (app *App) startSession(w http.ResponseWriter, r *http.Request, cred api.Session, page string, data *HTMLData) {
	s, err := app.sessions.Create(r.Context(), cred.Token)
	if err != nil {
		app.logger.Printf("❌ Failed to create session: %v", err)
		data.FormError = "Could not start a session, please try again"
		app.render(w, http.StatusInternalServerError, page, data)
		return
	}

	app.setSessionCookie(w, s.ID)
	app.logger.Printf("✅ Session started for %q", cred.Username())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *App) logout(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if err := app.sessions.Logout(r.Context(), s.ID); err != nil {
		app.logger.Printf("⚠️  %v", err)
	}
	app.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// credentialError picks the message shown on the form. The API's own message
// is used for client errors; anything else gets the fallback.
func credentialError(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
