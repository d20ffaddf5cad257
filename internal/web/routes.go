package web

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imadgeboyega/kiekky-web/internal/common/utils"
)

// Routes builds the router. Every form post answers with a redirect to /.
func (app *App) Routes() http.Handler {
	router := mux.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(app.loggingMiddleware)
	router.Use(middleware.Recoverer)

	router.HandleFunc("/health", app.healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Guests
	router.HandleFunc("/login", app.requireGuest(app.loginPage)).Methods("GET")
	router.HandleFunc("/login", app.requireGuest(app.login)).Methods("POST")
	router.HandleFunc("/register", app.requireGuest(app.registerPage)).Methods("GET")
	router.HandleFunc("/register", app.requireGuest(app.register)).Methods("POST")

	// Signed in
	router.HandleFunc("/logout", app.requireAuth(app.logout)).Methods("POST")
	router.HandleFunc("/", app.requireAuth(app.home)).Methods("GET")

	router.HandleFunc("/posts", app.requireAuth(app.createPost)).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}/like", app.requireAuth(app.likePost)).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}/comment", app.requireAuth(app.commentOnPost)).Methods("POST")
	router.HandleFunc("/search", app.requireAuth(app.submitSearch)).Methods("POST")
	router.HandleFunc("/search/select", app.requireAuth(app.selectSearchResult)).Methods("POST")
	router.HandleFunc("/users/{username}", app.requireAuth(app.showAuthor)).Methods("POST")

	router.HandleFunc("/profile/back", app.requireAuth(app.profileBack)).Methods("POST")
	router.HandleFunc("/profile/follow", app.requireAuth(app.follow)).Methods("POST")
	router.HandleFunc("/profile/edit", app.requireAuth(app.openEdit)).Methods("POST")
	router.HandleFunc("/profile/edit/submit", app.requireAuth(app.submitEdit)).Methods("POST")
	router.HandleFunc("/profile/edit/cancel", app.requireAuth(app.cancelEdit)).Methods("POST")
	router.HandleFunc("/profile/posts/close", app.requireAuth(app.closePost)).Methods("POST")
	router.HandleFunc("/profile/posts/{id:[0-9]+}", app.requireAuth(app.selectPost)).Methods("POST")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.ErrorResponse(w, "Not found", http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.ErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return router
}
