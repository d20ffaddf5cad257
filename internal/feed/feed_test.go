package feed

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/imadgeboyega/kiekky-web/internal/api"
)

type fakeAPI struct {
	mu sync.Mutex

	posts    []api.Post
	listErr  error
	onList   func()
	onCreate func()

	lists    int
	created  []api.NewPost
	likes    []int64
	comments map[int64][]string
	searches []string
	users    []api.UserSummary

	mutateErr error
}

func (f *fakeAPI) ListPosts(ctx context.Context, sess api.Session) ([]api.Post, error) {
	f.mu.Lock()
	f.lists++
	posts, err, hook := f.posts, f.listErr, f.onList
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return posts, err
}

func (f *fakeAPI) CreatePost(ctx context.Context, sess api.Session, post api.NewPost) error {
	f.created = append(f.created, post)
	if f.onCreate != nil {
		f.onCreate()
	}
	return f.mutateErr
}

func (f *fakeAPI) LikePost(ctx context.Context, sess api.Session, postID int64) error {
	f.likes = append(f.likes, postID)
	return f.mutateErr
}

func (f *fakeAPI) CommentOnPost(ctx context.Context, sess api.Session, postID int64, text string) error {
	if f.comments == nil {
		f.comments = make(map[int64][]string)
	}
	f.comments[postID] = append(f.comments[postID], text)
	return f.mutateErr
}

func (f *fakeAPI) SearchUsers(ctx context.Context, sess api.Session, query string) ([]api.UserSummary, error) {
	f.searches = append(f.searches, query)
	return f.users, nil
}

type fakeNav struct{ shown []string }

func (n *fakeNav) ShowProfile(username string) bool {
	n.shown = append(n.shown, username)
	return true
}

func newView(client *fakeAPI) (*View, *fakeNav, *bytes.Buffer) {
	var logs bytes.Buffer
	nav := &fakeNav{}
	return NewView(client, api.NewSession("tok"), nav, log.New(&logs, "", 0)), nav, &logs
}

func samplePosts() []api.Post {
	return []api.Post{
		{ID: 2, Caption: "newest", User: api.UserSummary{Username: "bob"}},
		{ID: 1, Caption: "oldest", User: api.UserSummary{Username: "amy"}},
	}
}

func TestActivateKeepsAPIOrder(t *testing.T) {
	client := &fakeAPI{posts: samplePosts()}
	v, _, _ := newView(client)

	v.Activate(context.Background())

	st := v.State()
	if !st.Loaded || len(st.Posts) != 2 || st.Posts[0].ID != 2 || st.Posts[1].ID != 1 {
		t.Fatalf("State() = %+v", st)
	}
}

func TestSubmitPostClearsDraftAndRefetches(t *testing.T) {
	client := &fakeAPI{posts: samplePosts()}
	v, _, _ := newView(client)

	v.SetCaption("beach day")
	v.SelectImage(&api.Upload{Filename: "beach.jpg", ContentType: "image/jpeg", Data: []byte("x")})
	v.SubmitPost(context.Background())

	if len(client.created) != 1 {
		t.Fatalf("create requests = %d, want 1", len(client.created))
	}
	if got := client.created[0]; got.Caption != "beach day" || got.Image == nil || got.Image.Filename != "beach.jpg" {
		t.Errorf("created = %+v", got)
	}
	st := v.State()
	if st.Caption != "" || st.ImageName != "" {
		t.Errorf("draft not cleared: caption=%q image=%q", st.Caption, st.ImageName)
	}
	if client.lists != 1 {
		t.Errorf("feed fetches = %d, want 1", client.lists)
	}
}

func TestSubmitPostRequiresImage(t *testing.T) {
	client := &fakeAPI{}
	v, _, logs := newView(client)

	v.SetCaption("no picture")
	v.SubmitPost(context.Background())

	if len(client.created) != 0 {
		t.Error("post without image was sent")
	}
	if v.State().Caption != "no picture" {
		t.Error("caption draft lost")
	}
	if !strings.Contains(logs.String(), "Image is required") {
		t.Errorf("validation not logged: %q", logs.String())
	}
}

func TestSubmitPostFailureKeepsDraft(t *testing.T) {
	client := &fakeAPI{mutateErr: errors.New("boom")}
	v, _, _ := newView(client)

	v.SetCaption("keep me")
	v.SelectImage(&api.Upload{Filename: "a.png", Data: []byte("x")})
	v.SubmitPost(context.Background())

	st := v.State()
	if st.Caption != "keep me" || st.ImageName != "a.png" {
		t.Errorf("draft changed after failure: %+v", st)
	}
	if client.lists != 0 {
		t.Errorf("feed refetched after failure: %d", client.lists)
	}
}

func TestLikeRefetchesExactlyOnce(t *testing.T) {
	client := &fakeAPI{posts: samplePosts()}
	v, _, _ := newView(client)

	v.Like(context.Background(), 7)

	if len(client.likes) != 1 || client.likes[0] != 7 {
		t.Errorf("likes = %v, want [7]", client.likes)
	}
	if client.lists != 1 {
		t.Errorf("feed fetches = %d, want 1", client.lists)
	}
}

func TestLikeFailureDoesNotRefetch(t *testing.T) {
	client := &fakeAPI{mutateErr: errors.New("offline")}
	v, _, logs := newView(client)

	v.Like(context.Background(), 7)

	if client.lists != 0 {
		t.Errorf("feed fetches = %d, want 0", client.lists)
	}
	if !strings.Contains(logs.String(), "offline") {
		t.Errorf("failure not logged: %q", logs.String())
	}
}

func TestCommentDraftsArePerPost(t *testing.T) {
	client := &fakeAPI{posts: samplePosts()}
	v, _, _ := newView(client)

	v.SetCommentDraft(1, "first!")
	v.SetCommentDraft(2, "  lovely  ")
	v.Comment(context.Background(), 2)

	if got := client.comments[2]; len(got) != 1 || got[0] != "lovely" {
		t.Errorf("comments on 2 = %v", got)
	}
	if len(client.comments[1]) != 0 {
		t.Errorf("post 1 got a comment: %v", client.comments[1])
	}
	if v.CommentDraft(2) != "" {
		t.Error("draft of post 2 not cleared")
	}
	if v.CommentDraft(1) != "first!" {
		t.Errorf("draft of post 1 = %q, want untouched", v.CommentDraft(1))
	}
	if client.lists != 1 {
		t.Errorf("feed fetches = %d, want 1", client.lists)
	}
}

func TestEmptyCommentIsNotSent(t *testing.T) {
	client := &fakeAPI{}
	v, _, _ := newView(client)

	v.SetCommentDraft(1, "   ")
	v.Comment(context.Background(), 1)

	if len(client.comments) != 0 {
		t.Errorf("blank comment sent: %v", client.comments)
	}
}

func TestFailedFetchKeepsPreviousPosts(t *testing.T) {
	client := &fakeAPI{posts: samplePosts()}
	v, _, _ := newView(client)
	v.Activate(context.Background())

	client.listErr = errors.New("network down")
	client.posts = nil
	v.Activate(context.Background())

	if st := v.State(); len(st.Posts) != 2 || st.Posts[0].Caption != "newest" {
		t.Errorf("posts after failed fetch = %+v", st.Posts)
	}
}

func TestStaleResponseIsDropped(t *testing.T) {
	client := &fakeAPI{posts: samplePosts()}
	v, _, _ := newView(client)
	// the user leaves the feed while the fetch is in flight
	client.onList = v.Deactivate

	v.Activate(context.Background())

	if st := v.State(); st.Loaded || len(st.Posts) != 0 {
		t.Errorf("stale response applied: %+v", st)
	}
}

func TestDeactivateDiscardsDrafts(t *testing.T) {
	client := &fakeAPI{}
	v, _, _ := newView(client)

	v.SetCaption("draft")
	v.SelectImage(&api.Upload{Filename: "a.png"})
	v.SetCommentDraft(3, "hey")
	v.Search().SetQuery("al")
	v.Deactivate()

	st := v.State()
	if st.Caption != "" || st.ImageName != "" || len(st.CommentDrafts) != 0 || st.SearchQuery != "" {
		t.Errorf("drafts survived deactivation: %+v", st)
	}
}

func TestSearchSelectAndAuthorNavigate(t *testing.T) {
	client := &fakeAPI{users: []api.UserSummary{{Username: "alice"}}}
	v, nav, _ := newView(client)

	v.Search().SetQuery("ali")
	v.Search().Submit(context.Background())
	if st := v.State(); len(st.SearchResults) != 1 {
		t.Fatalf("search results = %+v", st.SearchResults)
	}
	v.Search().Select("alice")
	v.ShowAuthor("bob")

	if len(nav.shown) != 2 || nav.shown[0] != "alice" || nav.shown[1] != "bob" {
		t.Errorf("navigation = %v", nav.shown)
	}
	if st := v.State(); st.SearchQuery != "" || len(st.SearchResults) != 0 {
		t.Errorf("search not cleared: %+v", st)
	}
}

func TestPageLoadAfterActionReusesRefetch(t *testing.T) {
	client := &fakeAPI{posts: samplePosts()}
	v, _, _ := newView(client)
	v.Activate(context.Background())

	v.Like(context.Background(), 7)
	v.Activate(context.Background())

	if client.lists != 2 {
		t.Errorf("feed fetches = %d, want 2 (initial load + one for the like)", client.lists)
	}

	// the reuse is consumed by one activation only
	v.Activate(context.Background())
	if client.lists != 3 {
		t.Errorf("feed fetches = %d, want 3", client.lists)
	}
}

func TestPageLoadAfterFailedActionFetches(t *testing.T) {
	client := &fakeAPI{posts: samplePosts(), mutateErr: errors.New("offline")}
	v, _, _ := newView(client)

	v.Like(context.Background(), 7)
	v.Activate(context.Background())

	if client.lists != 1 {
		t.Errorf("feed fetches = %d, want 1", client.lists)
	}
}

func TestSubmitPostKeepsDraftEditedInFlight(t *testing.T) {
	client := &fakeAPI{posts: samplePosts()}
	v, _, _ := newView(client)

	v.SetCaption("first")
	v.SelectImage(&api.Upload{Filename: "a.png", Data: []byte("x")})
	client.onCreate = func() { v.SetCaption("second") }
	v.SubmitPost(context.Background())

	if len(client.created) != 1 || client.created[0].Caption != "first" {
		t.Fatalf("created = %+v", client.created)
	}
	if st := v.State(); st.Caption != "second" || st.ImageName != "a.png" {
		t.Errorf("draft edited during submit was cleared: %+v", st)
	}
}
