// Package web is the browser-facing HTTP surface: it maps page loads and
// form posts onto the per-session root controller.
package web

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/imadgeboyega/kiekky-web/internal/api"
	"github.com/imadgeboyega/kiekky-web/internal/config"
	"github.com/imadgeboyega/kiekky-web/internal/session"
)

// Authenticator obtains credentials from the API.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (api.Session, error)
	Register(ctx context.Context, username, email, password string) (api.Session, error)
}

type App struct {
	cfg       *config.Config
	auth      Authenticator
	sessions  *session.Manager
	logger    *log.Logger
	templates map[string]*template.Template
	started   time.Time
}

func NewApp(cfg *config.Config, auth Authenticator, sessions *session.Manager, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	templates, err := parseTemplates(cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:       cfg,
		auth:      auth,
		sessions:  sessions,
		logger:    logger,
		templates: templates,
		started:   time.Now(),
	}, nil
}

func (app *App) serverError(w http.ResponseWriter, err error) {
	app.logger.Printf("❌ %s\n%s", err.Error(), debug.Stack())
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// back finishes every form post. Failures were already logged by the views,
// so the next page load simply shows the unchanged state.
func back(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
