package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Feed

func (app *App) createPost(w http.ResponseWriter, r *http.Request) {
	feed := sessionFrom(r).Root.Feed()

	if err := app.parseForm(w, r); err != nil {
		app.logger.Printf("⚠️  Bad post form: %v", err)
		back(w, r)
		return
	}

	feed.SetCaption(r.PostForm.Get("caption"))

	image, err := app.readUpload(r, "image")
	if err != nil {
		app.logger.Printf("⚠️  Image rejected: %v", err)
	} else if image != nil {
		feed.SelectImage(image)
	}

	feed.SubmitPost(r.Context())
	back(w, r)
}

func (app *App) likePost(w http.ResponseWriter, r *http.Request) {
	if id, ok := app.postID(r); ok {
		sessionFrom(r).Root.Feed().Like(r.Context(), id)
	}
	back(w, r)
}

func (app *App) commentOnPost(w http.ResponseWriter, r *http.Request) {
	id, ok := app.postID(r)
	if !ok {
		back(w, r)
		return
	}
	if err := app.parseForm(w, r); err != nil {
		app.logger.Printf("⚠️  Bad comment form: %v", err)
		back(w, r)
		return
	}

	feed := sessionFrom(r).Root.Feed()
	feed.SetCommentDraft(id, r.PostForm.Get("text"))
	feed.Comment(r.Context(), id)
	back(w, r)
}

func (app *App) showAuthor(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Root.Feed().ShowAuthor(mux.Vars(r)["username"])
	back(w, r)
}

// Profile

func (app *App) profileBack(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Root.Profile().Back()
	back(w, r)
}

func (app *App) follow(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Root.Profile().Follow(r.Context())
	back(w, r)
}

func (app *App) openEdit(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Root.Profile().OpenEdit()
	back(w, r)
}

func (app *App) submitEdit(w http.ResponseWriter, r *http.Request) {
	profile := sessionFrom(r).Root.Profile()

	if err := app.parseForm(w, r); err != nil {
		app.logger.Printf("⚠️  Bad profile form: %v", err)
		back(w, r)
		return
	}

	profile.SetDraft(r.PostForm.Get("full_name"), r.PostForm.Get("bio"), r.PostForm.Get("website"))

	picture, err := app.readUpload(r, "profile_picture")
	if err != nil {
		app.logger.Printf("⚠️  Profile picture rejected: %v", err)
	} else if picture != nil {
		profile.SelectPicture(picture)
	}

	profile.SubmitEdit(r.Context())
	back(w, r)
}

func (app *App) cancelEdit(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Root.Profile().CancelEdit()
	back(w, r)
}

func (app *App) selectPost(w http.ResponseWriter, r *http.Request) {
	if id, ok := app.postID(r); ok {
		sessionFrom(r).Root.Profile().SelectPost(id)
	}
	back(w, r)
}

func (app *App) closePost(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Root.Profile().ClosePost()
	back(w, r)
}
