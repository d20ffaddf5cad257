// Package search is the user-search box used by the feed and by the page header.
package search

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/imadgeboyega/kiekky-web/internal/api"
	"github.com/imadgeboyega/kiekky-web/internal/metrics"
)

// API is the part of the REST client the box needs.
type API interface {
	SearchUsers(ctx context.Context, sess api.Session, query string) ([]api.UserSummary, error)
}

// Navigator switches the UI to a user's profile.
type Navigator interface {
	ShowProfile(username string) bool
}

// Box holds a query draft and the last result list.
type Box struct {
	name   string
	client API
	sess   api.Session
	nav    Navigator
	logger *log.Logger

	mu         sync.Mutex
	query      string
	results    []api.UserSummary
	generation uint64 // bumped by every Submit, Select and Clear
}

// NewBox creates a search box. name labels its log lines and metrics.
func NewBox(name string, client API, sess api.Session, nav Navigator, logger *log.Logger) *Box {
	if logger == nil {
		logger = log.Default()
	}
	return &Box{name: name, client: client, sess: sess, nav: nav, logger: logger}
}

func (b *Box) SetQuery(q string) {
	b.mu.Lock()
	b.query = q
	b.mu.Unlock()
}

func (b *Box) Query() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

// Results returns a copy of the current result list.
func (b *Box) Results() []api.UserSummary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.UserSummary(nil), b.results...)
}

// Submit runs the search for the current query. A blank query clears the
// results without calling the API. Failures are logged and leave the box as it was.
// Results that come back after a later Submit, Select or Clear are dropped.
func (b *Box) Submit(ctx context.Context) {
	b.mu.Lock()
	b.generation++
	gen := b.generation
	query := strings.TrimSpace(b.query)
	if query == "" {
		b.results = nil
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	users, err := b.client.SearchUsers(ctx, b.sess, query)
	if err != nil {
		b.logger.Printf("❌ %s search %q failed: %v", b.name, query, err)
		metrics.RecordAction(b.name, "search", false)
		return
	}
	metrics.RecordAction(b.name, "search", true)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.generation != gen {
		metrics.RecordStaleResponse(b.name)
		return
	}
	b.results = users
}

// Select picks a result: the query and results are cleared and the
// navigator is asked to show that user's profile.
func (b *Box) Select(username string) {
	b.mu.Lock()
	b.query = ""
	b.results = nil
	b.generation++
	nav := b.nav
	b.mu.Unlock()

	if nav == nil {
		return
	}
	if !nav.ShowProfile(username) {
		b.logger.Printf("⚠️  %s search: could not open profile %q", b.name, username)
	}
}

// Clear drops the draft and results.
func (b *Box) Clear() {
	b.mu.Lock()
	b.query = ""
	b.results = nil
	b.generation++
	b.mu.Unlock()
}
