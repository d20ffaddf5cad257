package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/kiekky-web/internal/common/utils"
	"github.com/imadgeboyega/kiekky-web/internal/navigation"
	"github.com/imadgeboyega/kiekky-web/internal/search"
)

// healthCheck returns server health status
func (app *App) healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.SuccessResponse(w, map[string]interface{}{
		"status":          "healthy",
		"timestamp":       time.Now().Format(time.RFC3339),
		"uptime":          time.Since(app.started).String(),
		"active_sessions": app.sessions.Len(),
	}, http.StatusOK)
}

// home activates the root controller and renders whichever view is current.
func (app *App) home(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	root := s.Root

	root.Activate(r.Context())

	header := root.HeaderSearch()
	data := &HTMLData{
		Username:      s.Credential.Username(),
		HeaderQuery:   header.Query(),
		HeaderResults: header.Results(),
	}

	view, username := root.Current()
	if view == navigation.ViewProfile {
		st := root.Profile().State()
		data.Title = username
		data.Profile = &st
		app.render(w, http.StatusOK, "profile.page.html", data)
		return
	}

	st := root.Feed().State()
	data.Title = "Feed"
	data.Feed = &st
	app.render(w, http.StatusOK, "feed.page.html", data)
}

// searchBox picks the feed box or the header box from the scope field.
func searchBox(r *http.Request) *search.Box {
	root := sessionFrom(r).Root
	if r.PostForm.Get("scope") == "header" {
		return root.HeaderSearch()
	}
	return root.Feed().Search()
}

func (app *App) submitSearch(w http.ResponseWriter, r *http.Request) {
	if err := app.parseForm(w, r); err != nil {
		app.logger.Printf("⚠️  Bad search form: %v", err)
		back(w, r)
		return
	}
	box := searchBox(r)
	box.SetQuery(r.PostForm.Get("query"))
	box.Submit(r.Context())
	back(w, r)
}

func (app *App) selectSearchResult(w http.ResponseWriter, r *http.Request) {
	if err := app.parseForm(w, r); err != nil {
		app.logger.Printf("⚠️  Bad search form: %v", err)
		back(w, r)
		return
	}
	searchBox(r).Select(r.PostForm.Get("username"))
	back(w, r)
}

// postID reads the {id} route variable; ok is false for anything that is not
// a positive integer.
func (app *App) postID(r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		app.logger.Printf("⚠️  Invalid post ID %q", raw)
		return 0, false
	}
	return id, true
}
