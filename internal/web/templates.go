package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/imadgeboyega/kiekky-web/internal/api"
	"github.com/imadgeboyega/kiekky-web/internal/feed"
	"github.com/imadgeboyega/kiekky-web/internal/profile"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"login.page.html", "register.page.html", "feed.page.html", "profile.page.html"}

// HTMLData is everything a page template can read.
type HTMLData struct {
	Title     string
	FormError string
	FormData  map[string]string

	Username      string
	HeaderQuery   string
	HeaderResults []api.UserSummary

	Feed    *feed.State
	Profile *profile.State
}

type resultList struct {
	Scope string
	Users []api.UserSummary
}

func templateFuncs(apiBaseURL string) template.FuncMap {
	base := strings.TrimRight(apiBaseURL, "/")
	return template.FuncMap{
		// image paths from the API are relative to its origin
		"imageURL": func(path string) string {
			if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
				return path
			}
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			return base + path
		},
		"initial": func(username string) string {
			for _, r := range username {
				return string(unicode.ToUpper(r))
			}
			return "?"
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"formatDate": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006, 15:04")
		},
		"results": func(scope string, users []api.UserSummary) resultList {
			return resultList{Scope: scope, Users: users}
		},
		"summary": func(username string, picture *string) api.UserSummary {
			return api.UserSummary{Username: username, ProfilePicture: picture}
		},
	}
}

func parseTemplates(apiBaseURL string) (map[string]*template.Template, error) {
	cache := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		ts, err := template.New(page).Funcs(templateFuncs(apiBaseURL)).ParseFS(templateFS,
			"templates/base.layout.html",
			"templates/*.partial.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		cache[page] = ts
	}
	return cache, nil
}

// render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (app *App) render(w http.ResponseWriter, status int, page string, data *HTMLData) {
	ts, ok := app.templates[page]
	if !ok {
		app.serverError(w, fmt.Errorf("template %s does not exist", page))
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
