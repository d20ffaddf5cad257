// Package navigation holds the root controller: which view is showing and
// for which user.
package navigation

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/imadgeboyega/kiekky-web/internal/api"
	"github.com/imadgeboyega/kiekky-web/internal/feed"
	"github.com/imadgeboyega/kiekky-web/internal/profile"
	"github.com/imadgeboyega/kiekky-web/internal/search"
)

// ViewName is one of the two root states.
type ViewName string

const (
	ViewFeed    ViewName = "feed"
	ViewProfile ViewName = "profile"
)

// API is everything the views behind the root need from the REST client.
type API interface {
	feed.API
	profile.API
}

// Root is a two-state machine, feed (initial) and profile. The only
// transitions are feed -> profile with a username and profile -> feed.
type Root struct {
	logger *log.Logger

	feed    *feed.View
	profile *profile.View
	search  *search.Box

	mu       sync.Mutex
	view     ViewName
	username string
}

// New builds the root controller and its views for one signed-in user.
func New(client API, sess api.Session, logger *log.Logger) *Root {
	if logger == nil {
		logger = log.Default()
	}
	r := &Root{logger: logger, view: ViewFeed}
	r.feed = feed.NewView(client, sess, r, logger)
	r.profile = profile.NewView(client, sess, r.Back, logger)
	r.search = search.NewBox("header", client, sess, r, logger)
	return r
}

func (r *Root) Feed() *feed.View { return r.feed }

func (r *Root) Profile() *profile.View { return r.profile }

// HeaderSearch is the top-level search box shown above the feed.
func (r *Root) HeaderSearch() *search.Box { return r.search }

// Current returns the active view and the selected username (empty on feed).
func (r *Root) Current() (ViewName, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view, r.username
}

// ShowProfile moves from feed to profile. It returns false, and changes
// nothing, when already on a profile or when username is empty.
func (r *Root) ShowProfile(username string) bool {
	username = strings.TrimSpace(username)
	if username == "" {
		r.logger.Printf("⚠️  Ignoring navigation to an empty username")
		return false
	}

	r.mu.Lock()
	if r.view != ViewFeed {
		current := r.username
		r.mu.Unlock()
		r.logger.Printf("⚠️  Ignoring navigation to %q while viewing %q", username, current)
		return false
	}
	r.view = ViewProfile
	r.username = username
	r.mu.Unlock()

	r.feed.Deactivate()
	r.search.Clear()
	return true
}

// Back moves from profile to feed and clears the selected username.
func (r *Root) Back() {
	r.mu.Lock()
	if r.view != ViewProfile {
		r.mu.Unlock()
		return
	}
	r.view = ViewFeed
	r.username = ""
	r.mu.Unlock()

	r.profile.Deactivate()
}

// Activate loads whichever view is current.
func (r *Root) Activate(ctx context.Context) {
	view, username := r.Current()
	switch view {
	case ViewProfile:
		r.profile.Activate(ctx, username)
	default:
		r.feed.Activate(ctx)
	}
}
