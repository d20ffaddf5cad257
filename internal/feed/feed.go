// internal/feed/feed.go
// Feed view: post list, post creation, likes, comments, user search

package feed

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/imadgeboyega/kiekky-web/internal/api"
	"github.com/imadgeboyega/kiekky-web/internal/common/utils"
	"github.com/imadgeboyega/kiekky-web/internal/metrics"
	"github.com/imadgeboyega/kiekky-web/internal/search"
)

const viewName = "feed"

// reuseWindow is how long a refetch made by an action stands in for the
// activation of the page load that follows it.
const reuseWindow = 5 * time.Second

// API is the part of the REST client the feed uses.
type API interface {
	search.API
	ListPosts(ctx context.Context, sess api.Session) ([]api.Post, error)
	CreatePost(ctx context.Context, sess api.Session, post api.NewPost) error
	LikePost(ctx context.Context, sess api.Session, postID int64) error
	CommentOnPost(ctx context.Context, sess api.Session, postID int64, text string) error
}

type postDraft struct {
	Caption string      `validate:"max=2200"`
	Image   *api.Upload `validate:"required"`
}

type commentDraft struct {
	Text string `validate:"required,max=1000"`
}

// View is the feed screen of one signed-in user. All network failures are
// logged and leave the view exactly as it was before the call.
type View struct {
	client API
	sess   api.Session
	nav    search.Navigator
	logger *log.Logger
	search *search.Box

	mu            sync.Mutex
	generation    uint64
	loaded        bool
	posts         []api.Post
	caption       string
	image         *api.Upload
	commentDrafts map[int64]string

	// set when an action refetched the feed, consumed by the next Activate
	refreshedAt time.Time
}

// State is a point-in-time copy of the view for rendering.
type State struct {
	Loaded        bool
	Posts         []api.Post
	Caption       string
	ImageName     string
	CommentDrafts map[int64]string
	SearchQuery   string
	SearchResults []api.UserSummary
}

func NewView(client API, sess api.Session, nav search.Navigator, logger *log.Logger) *View {
	if logger == nil {
		logger = log.Default()
	}
	return &View{
		client:        client,
		sess:          sess,
		nav:           nav,
		logger:        logger,
		search:        search.NewBox("feed", client, sess, nav, logger),
		commentDrafts: make(map[int64]string),
	}
}

// Search is the feed's user-search box.
func (v *View) Search() *search.Box { return v.search }

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	drafts := make(map[int64]string, len(v.commentDrafts))
	for id, text := range v.commentDrafts {
		drafts[id] = text
	}
	st := State{
		Loaded:        v.loaded,
		Posts:         append([]api.Post(nil), v.posts...),
		Caption:       v.caption,
		CommentDrafts: drafts,
		SearchQuery:   v.search.Query(),
		SearchResults: v.search.Results(),
	}
	if v.image != nil {
		st.ImageName = v.image.Filename
	}
	return st
}

// Activate starts a new activation and loads the feed. When an action has
// just refetched the feed, that result is reused instead of fetching again.
func (v *View) Activate(ctx context.Context) {
	v.mu.Lock()
	v.generation++
	reuse := !v.refreshedAt.IsZero() && time.Since(v.refreshedAt) < reuseWindow
	v.refreshedAt = time.Time{}
	v.mu.Unlock()

	if reuse {
		return
	}
	v.refresh(ctx)
}

// Deactivate is called when the user navigates away. Drafts are discarded and
// responses still in flight will be dropped.
func (v *View) Deactivate() {
	v.mu.Lock()
	v.generation++
	v.caption = ""
	v.image = nil
	v.commentDrafts = make(map[int64]string)
	v.refreshedAt = time.Time{}
	v.mu.Unlock()

	v.search.Clear()
}

// refresh refetches the feed, keeping the old list on failure. It reports
// whether the new list was applied.
func (v *View) refresh(ctx context.Context) bool {
	v.mu.Lock()
	gen := v.generation
	v.mu.Unlock()

	posts, err := v.client.ListPosts(ctx, v.sess)
	if err != nil {
		v.logger.Printf("❌ Error fetching posts: %v", err)
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		metrics.RecordStaleResponse(viewName)
		return false
	}
	v.posts = posts
	v.loaded = true
	return true
}

// refreshAfterAction refetches after a mutation and lets the next activation
// reuse the result.
func (v *View) refreshAfterAction(ctx context.Context) {
	if !v.refresh(ctx) {
		return
	}
	v.mu.Lock()
	v.refreshedAt = time.Now()
	v.mu.Unlock()
}

func (v *View) SetCaption(caption string) {
	v.mu.Lock()
	v.caption = caption
	v.mu.Unlock()
}

// SelectImage sets the image of the post draft; nil clears it.
func (v *View) SelectImage(image *api.Upload) {
	v.mu.Lock()
	v.image = image
	v.mu.Unlock()
}

// SubmitPost sends the draft. On success the draft is cleared and the feed
// refetched; on failure nothing changes.
func (v *View) SubmitPost(ctx context.Context) {
	v.mu.Lock()
	draft := postDraft{Caption: v.caption, Image: v.image}
	v.mu.Unlock()

	if err := utils.ValidateStruct(draft); err != nil {
		v.logger.Printf("⚠️  Post not submitted: %v", err)
		metrics.RecordAction(viewName, "create_post", false)
		return
	}

	err := v.client.CreatePost(ctx, v.sess, api.NewPost{Caption: draft.Caption, Image: draft.Image})
	if err != nil {
		v.logger.Printf("❌ Error creating post: %v", err)
		metrics.RecordAction(viewName, "create_post", false)
		return
	}
	metrics.RecordAction(viewName, "create_post", true)

	// a draft edited while the request was in flight is kept
	v.mu.Lock()
	if v.caption == draft.Caption && v.image == draft.Image {
		v.caption = ""
		v.image = nil
	}
	v.mu.Unlock()

	v.refreshAfterAction(ctx)
}

// Like sends a like for postID then refetches the whole feed. There is no
// optimistic update.
func (v *View) Like(ctx context.Context, postID int64) {
	if err := v.client.LikePost(ctx, v.sess, postID); err != nil {
		v.logger.Printf("❌ Error liking post %d: %v", postID, err)
		metrics.RecordAction(viewName, "like", false)
		return
	}
	metrics.RecordAction(viewName, "like", true)

	v.refreshAfterAction(ctx)
}

// SetCommentDraft stores the comment draft of one post.
func (v *View) SetCommentDraft(postID int64, text string) {
	v.mu.Lock()
	if text == "" {
		delete(v.commentDrafts, postID)
	} else {
		v.commentDrafts[postID] = text
	}
	v.mu.Unlock()
}

func (v *View) CommentDraft(postID int64) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.commentDrafts[postID]
}

// Comment sends the draft of postID. Drafts of other posts are untouched.
func (v *View) Comment(ctx context.Context, postID int64) {
	v.mu.Lock()
	draft := commentDraft{Text: strings.TrimSpace(v.commentDrafts[postID])}
	v.mu.Unlock()

	if err := utils.ValidateStruct(draft); err != nil {
		v.logger.Printf("⚠️  Comment on post %d not submitted: %v", postID, err)
		metrics.RecordAction(viewName, "comment", false)
		return
	}

	if err := v.client.CommentOnPost(ctx, v.sess, postID, draft.Text); err != nil {
		v.logger.Printf("❌ Error commenting on post %d: %v", postID, err)
		metrics.RecordAction(viewName, "comment", false)
		return
	}
	metrics.RecordAction(viewName, "comment", true)

	v.mu.Lock()
	if strings.TrimSpace(v.commentDrafts[postID]) == draft.Text {
		delete(v.commentDrafts, postID)
	}
	v.mu.Unlock()

	v.refreshAfterAction(ctx)
}

// ShowAuthor opens the profile of a post's author.
func (v *View) ShowAuthor(username string) {
	if v.nav == nil {
		return
	}
	if !v.nav.ShowProfile(username) {
		v.logger.Printf("⚠️  Could not open profile %q", username)
	}
}
