// internal/profile/view.go
// Profile view: stats, post grid, follow, edit modal, post detail overlay

package profile

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/imadgeboyega/kiekky-web/internal/api"
	"github.com/imadgeboyega/kiekky-web/internal/common/utils"
	"github.com/imadgeboyega/kiekky-web/internal/metrics"
)

const viewName = "profile"

// reuseWindow is how long a refetch made by follow or edit stands in for the
// activation of the page load that follows it.
const reuseWindow = 5 * time.Second

// API is the part of the REST client the profile view uses.
type API interface {
	GetProfile(ctx context.Context, sess api.Session, username string) (*api.Profile, error)
	GetUserPosts(ctx context.Context, sess api.Session, username string) ([]api.Post, error)
	FollowUser(ctx context.Context, sess api.Session, username string) error
	UpdateProfile(ctx context.Context, sess api.Session, update api.ProfileUpdate) error
}

// EditDraft is the content of the edit modal.
type EditDraft struct {
	FullName string      `validate:"max=100"`
	Bio      string      `validate:"max=500"`
	Website  string      `validate:"omitempty,url"`
	Picture  *api.Upload `validate:"-"`
}

// update keeps only the non-empty fields.
func (d EditDraft) update() api.ProfileUpdate {
	var u api.ProfileUpdate
	if s := strings.TrimSpace(d.FullName); s != "" {
		u.FullName = &s
	}
	if s := strings.TrimSpace(d.Bio); s != "" {
		u.Bio = &s
	}
	if s := strings.TrimSpace(d.Website); s != "" {
		u.Website = &s
	}
	if d.Picture != nil {
		u.ProfilePicture = d.Picture
	}
	return u
}

// View shows one user's profile. Network failures are logged and leave the
// view as it was.
type View struct {
	client API
	sess   api.Session
	back   func()
	logger *log.Logger

	mu         sync.Mutex
	generation uint64
	username   string
	profile    *api.Profile
	posts      []api.Post
	editing    bool
	draft      EditDraft
	selected   int64

	// set when an action refetched the profile, consumed by the next Activate
	refreshedAt time.Time
}

// State is a point-in-time copy of the view for rendering.
type State struct {
	Username     string
	Profile      *api.Profile
	Posts        []api.Post
	IsOwn        bool
	Editing      bool
	Draft        EditDraft
	PictureName  string
	SelectedPost *api.Post
}

// NewView creates the view. back is called by Back and is supplied by the
// root controller.
func NewView(client API, sess api.Session, back func(), logger *log.Logger) *View {
	if logger == nil {
		logger = log.Default()
	}
	return &View{client: client, sess: sess, back: back, logger: logger}
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := State{
		Username: v.username,
		Posts:    append([]api.Post(nil), v.posts...),
		IsOwn:    v.isOwnLocked(),
		Editing:  v.editing,
		Draft:    v.draft,
	}
	if v.profile != nil {
		p := *v.profile
		st.Profile = &p
	}
	if v.draft.Picture != nil {
		st.PictureName = v.draft.Picture.Filename
	}
	if v.selected != 0 {
		for i := range v.posts {
			if v.posts[i].ID == v.selected {
				p := v.posts[i]
				st.SelectedPost = &p
				break
			}
		}
	}
	return st
}

// IsOwn reports whether the viewed profile belongs to the signed-in user.
func (v *View) IsOwn() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.isOwnLocked()
}

func (v *View) isOwnLocked() bool {
	return v.username != "" && v.username == v.sess.Username()
}

// Activate loads the profile and the posts of username concurrently. Each
// part is replaced only if its own request succeeded.
func (v *View) Activate(ctx context.Context, username string) {
	v.mu.Lock()
	if username != v.username {
		v.resetLocked()
		v.username = username
	}
	v.generation++
	gen := v.generation
	reuse := !v.refreshedAt.IsZero() && time.Since(v.refreshedAt) < reuseWindow
	v.refreshedAt = time.Time{}
	v.mu.Unlock()

	if reuse {
		return
	}

	var (
		g       errgroup.Group
		profile *api.Profile
		posts   []api.Post
		postsOK bool
	)
	g.Go(func() error {
		p, err := v.client.GetProfile(ctx, v.sess, username)
		if err != nil {
			v.logger.Printf("❌ Error fetching profile %q: %v", username, err)
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		p, err := v.client.GetUserPosts(ctx, v.sess, username)
		if err != nil {
			v.logger.Printf("❌ Error fetching posts of %q: %v", username, err)
			return err
		}
		posts, postsOK = p, true
		return nil
	})
	ok := g.Wait() == nil

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		metrics.RecordStaleResponse(viewName)
		return
	}
	if profile != nil {
		v.profile = profile
	}
	if postsOK {
		v.posts = posts
	}
	metrics.RecordAction(viewName, "activate", ok)
}

// Deactivate is called when the user goes back to the feed.
func (v *View) Deactivate() {
	v.mu.Lock()
	v.generation++
	v.resetLocked()
	v.mu.Unlock()
}

func (v *View) resetLocked() {
	v.username = ""
	v.profile = nil
	v.posts = nil
	v.editing = false
	v.draft = EditDraft{}
	v.selected = 0
	v.refreshedAt = time.Time{}
}

// refreshProfile refetches the profile after follow or edit. The posts
// cannot have changed, so the next activation reuses both.
func (v *View) refreshProfile(ctx context.Context) {
	v.mu.Lock()
	gen, username := v.generation, v.username
	v.mu.Unlock()

	profile, err := v.client.GetProfile(ctx, v.sess, username)
	if err != nil {
		v.logger.Printf("❌ Error fetching profile %q: %v", username, err)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		metrics.RecordStaleResponse(viewName)
		return
	}
	v.profile = profile
	v.refreshedAt = time.Now()
}

// Follow sends a follow for the viewed user and refetches the profile so the
// counts come from the server. Not available on one's own profile.
func (v *View) Follow(ctx context.Context) {
	v.mu.Lock()
	username, own := v.username, v.isOwnLocked()
	v.mu.Unlock()

	if username == "" || own {
		v.logger.Printf("⚠️  Follow ignored for %q", username)
		return
	}

	if err := v.client.FollowUser(ctx, v.sess, username); err != nil {
		v.logger.Printf("❌ Error following %q: %v", username, err)
		metrics.RecordAction(viewName, "follow", false)
		return
	}
	metrics.RecordAction(viewName, "follow", true)

	v.refreshProfile(ctx)
}

// OpenEdit opens the edit modal seeded from the current profile. The picture
// starts empty. Only available on one's own, loaded profile.
func (v *View) OpenEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.isOwnLocked() || v.profile == nil {
		v.logger.Printf("⚠️  Edit ignored for %q", v.username)
		return
	}
	v.editing = true
	v.draft = EditDraft{
		FullName: v.profile.FullName,
		Bio:      v.profile.Bio,
		Website:  v.profile.Website,
	}
}

// SetDraft replaces the text fields of the edit draft, keeping the picture.
func (v *View) SetDraft(fullName, bio, website string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.editing {
		return
	}
	v.draft.FullName = fullName
	v.draft.Bio = bio
	v.draft.Website = website
}

func (v *View) SelectPicture(picture *api.Upload) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.editing {
		return
	}
	v.draft.Picture = picture
}

func (v *View) CancelEdit() {
	v.mu.Lock()
	v.editing = false
	v.draft = EditDraft{}
	v.mu.Unlock()
}

// SubmitEdit sends the non-empty fields of the draft. On success the modal
// closes and the profile is refetched; on failure the modal stays open.
func (v *View) SubmitEdit(ctx context.Context) {
	v.mu.Lock()
	if !v.editing {
		v.mu.Unlock()
		return
	}
	draft := v.draft
	v.mu.Unlock()

	if err := utils.ValidateStruct(draft); err != nil {
		v.logger.Printf("⚠️  Profile edit not submitted: %v", err)
		metrics.RecordAction(viewName, "edit", false)
		return
	}

	update := draft.update()
	if update.Empty() {
		v.CancelEdit()
		return
	}

	if err := v.client.UpdateProfile(ctx, v.sess, update); err != nil {
		v.logger.Printf("❌ Error updating profile: %v", err)
		metrics.RecordAction(viewName, "edit", false)
		return
	}
	metrics.RecordAction(viewName, "edit", true)

	v.CancelEdit()
	v.refreshProfile(ctx)
}

// SelectPost opens the read-only detail overlay for one of the shown posts.
func (v *View) SelectPost(postID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range v.posts {
		if p.ID == postID {
			v.selected = postID
			return
		}
	}
}

func (v *View) ClosePost() {
	v.mu.Lock()
	v.selected = 0
	v.mu.Unlock()
}

// Back returns to the feed through the root controller.
func (v *View) Back() {
	if v.back != nil {
		v.back()
	}
}
