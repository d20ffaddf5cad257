package profile

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/imadgeboyega/kiekky-web/internal/api"
)

type fakeAPI struct {
	mu sync.Mutex

	profiles map[string]*api.Profile
	posts    map[string][]api.Post

	profileErr error
	postsErr   error
	followErr  error
	updateErr  error

	profileFetches int
	follows        []string
	updates        []api.ProfileUpdate

	onProfile func()
}

func (f *fakeAPI) GetProfile(ctx context.Context, sess api.Session, username string) (*api.Profile, error) {
	f.mu.Lock()
	f.profileFetches++
	err, hook := f.profileErr, f.onProfile
	var p *api.Profile
	if src, ok := f.profiles[username]; ok {
		cp := *src
		p = &cp
	}
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (f *fakeAPI) GetUserPosts(ctx context.Context, sess api.Session, username string) ([]api.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postsErr != nil {
		return nil, f.postsErr
	}
	return f.posts[username], nil
}

func (f *fakeAPI) FollowUser(ctx context.Context, sess api.Session, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.follows = append(f.follows, username)
	if f.followErr == nil {
		f.profiles[username].FollowersCount++
	}
	return f.followErr
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, sess api.Session, update api.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	return f.updateErr
}

func sessionFor(t *testing.T, username string) api.Session {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return api.NewSession(token)
}

func newFake() *fakeAPI {
	return &fakeAPI{
		profiles: map[string]*api.Profile{
			"alice": {Username: "alice", FullName: "Alice A", Bio: "hi", Website: "https://alice.dev", FollowersCount: 3},
			"bob":   {Username: "bob", FullName: "Bob B", FollowersCount: 10},
		},
		posts: map[string][]api.Post{
			"alice": {{ID: 11, Caption: "a1"}, {ID: 12, Caption: "a2"}},
			"bob":   {{ID: 21, Caption: "b1"}},
		},
	}
}

func newView(t *testing.T, client *fakeAPI, me string) (*View, *int, *bytes.Buffer) {
	var logs bytes.Buffer
	backs := 0
	v := NewView(client, sessionFor(t, me), func() { backs++ }, log.New(&logs, "", 0))
	return v, &backs, &logs
}

func TestActivateLoadsProfileAndPosts(t *testing.T) {
	v, _, _ := newView(t, newFake(), "alice")

	v.Activate(context.Background(), "bob")

	st := v.State()
	if st.Username != "bob" || st.Profile == nil || st.Profile.FullName != "Bob B" {
		t.Fatalf("State() = %+v", st)
	}
	if len(st.Posts) != 1 || st.Posts[0].ID != 21 {
		t.Errorf("posts = %+v", st.Posts)
	}
	if st.IsOwn {
		t.Error("bob's profile reported as own")
	}
}

func TestFollowRefetchesProfile(t *testing.T) {
	client := newFake()
	v, _, _ := newView(t, client, "alice")
	v.Activate(context.Background(), "bob")
	fetches := client.profileFetches

	v.Follow(context.Background())

	if len(client.follows) != 1 || client.follows[0] != "bob" {
		t.Fatalf("follows = %v", client.follows)
	}
	if client.profileFetches != fetches+1 {
		t.Errorf("profile fetches = %d, want %d", client.profileFetches, fetches+1)
	}
	if got := v.State().Profile.FollowersCount; got != 11 {
		t.Errorf("FollowersCount = %d, want server value 11", got)
	}
}

func TestFollowOwnProfileIgnored(t *testing.T) {
	client := newFake()
	v, _, _ := newView(t, client, "alice")
	v.Activate(context.Background(), "alice")

	v.Follow(context.Background())

	if len(client.follows) != 0 {
		t.Errorf("follow sent for own profile: %v", client.follows)
	}
}

func TestEditOnlyOnOwnProfile(t *testing.T) {
	v, _, _ := newView(t, newFake(), "alice")
	v.Activate(context.Background(), "bob")

	v.OpenEdit()

	if v.State().Editing {
		t.Error("edit modal opened on another user's profile")
	}
}

func TestEditSeedsDraftFromProfile(t *testing.T) {
	v, _, _ := newView(t, newFake(), "alice")
	v.Activate(context.Background(), "alice")

	v.OpenEdit()

	st := v.State()
	if !st.Editing {
		t.Fatal("edit modal not open")
	}
	want := EditDraft{FullName: "Alice A", Bio: "hi", Website: "https://alice.dev"}
	if st.Draft != want || st.PictureName != "" {
		t.Errorf("draft = %+v, want %+v", st.Draft, want)
	}
}

func TestSubmitEditSendsOnlyFilledFields(t *testing.T) {
	client := newFake()
	client.profiles["alice"] = &api.Profile{Username: "alice"}
	v, _, _ := newView(t, client, "alice")
	v.Activate(context.Background(), "alice")
	v.OpenEdit()
	fetches := client.profileFetches

	v.SetDraft("", "new bio", "")
	v.SubmitEdit(context.Background())

	if len(client.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(client.updates))
	}
	u := client.updates[0]
	if u.Bio == nil || *u.Bio != "new bio" {
		t.Errorf("bio = %v", u.Bio)
	}
	if u.FullName != nil || u.Website != nil || u.ProfilePicture != nil {
		t.Errorf("blank fields sent: %+v", u)
	}
	if v.State().Editing {
		t.Error("modal still open after successful submit")
	}
	if client.profileFetches != fetches+1 {
		t.Errorf("profile fetches = %d, want %d", client.profileFetches, fetches+1)
	}
}

func TestSubmitEditFailureKeepsModal(t *testing.T) {
	client := newFake()
	client.updateErr = errors.New("500")
	v, _, _ := newView(t, client, "alice")
	v.Activate(context.Background(), "alice")
	v.OpenEdit()
	v.SetDraft("Alice", "changed", "")
	v.SelectPicture(&api.Upload{Filename: "me.png"})

	v.SubmitEdit(context.Background())

	st := v.State()
	if !st.Editing || st.Draft.Bio != "changed" || st.PictureName != "me.png" {
		t.Errorf("state after failed submit = %+v", st)
	}
}

func TestSubmitEditRejectsBadWebsite(t *testing.T) {
	client := newFake()
	v, _, _ := newView(t, client, "alice")
	v.Activate(context.Background(), "alice")
	v.OpenEdit()
	v.SetDraft("Alice", "", "not a url")

	v.SubmitEdit(context.Background())

	if len(client.updates) != 0 {
		t.Error("invalid website sent")
	}
	if !v.State().Editing {
		t.Error("modal closed on validation failure")
	}
}

func TestFailedFetchKeepsPreviousData(t *testing.T) {
	client := newFake()
	v, _, logs := newView(t, client, "alice")
	v.Activate(context.Background(), "bob")

	client.profileErr = errors.New("timeout")
	client.postsErr = errors.New("timeout")
	v.Activate(context.Background(), "bob")

	st := v.State()
	if st.Profile == nil || st.Profile.FullName != "Bob B" || len(st.Posts) != 1 {
		t.Errorf("data changed after failed fetch: %+v", st)
	}
	if logs.Len() == 0 {
		t.Error("failure not logged")
	}
}

func TestPartialFailureAppliesSuccessfulPart(t *testing.T) {
	client := newFake()
	client.postsErr = errors.New("posts down")
	v, _, _ := newView(t, client, "alice")

	v.Activate(context.Background(), "bob")

	st := v.State()
	if st.Profile == nil || st.Profile.Username != "bob" {
		t.Errorf("profile not applied: %+v", st.Profile)
	}
	if len(st.Posts) != 0 {
		t.Errorf("posts = %+v, want none", st.Posts)
	}
}

func TestSwitchingUserClearsOldData(t *testing.T) {
	client := newFake()
	v, _, _ := newView(t, client, "alice")
	v.Activate(context.Background(), "bob")

	client.profileErr = errors.New("down")
	client.postsErr = errors.New("down")
	v.Activate(context.Background(), "alice")

	st := v.State()
	if st.Profile != nil || len(st.Posts) != 0 || st.Username != "alice" {
		t.Errorf("bob's data shown for alice: %+v", st)
	}
}

func TestStaleActivationDropped(t *testing.T) {
	client := newFake()
	v, _, _ := newView(t, client, "alice")
	client.onProfile = v.Deactivate

	v.Activate(context.Background(), "bob")

	if st := v.State(); st.Profile != nil || st.Username != "" {
		t.Errorf("stale response applied: %+v", st)
	}
}

func TestPostOverlay(t *testing.T) {
	v, _, _ := newView(t, newFake(), "alice")
	v.Activate(context.Background(), "alice")

	v.SelectPost(99)
	if v.State().SelectedPost != nil {
		t.Error("unknown post opened")
	}

	v.SelectPost(12)
	if sp := v.State().SelectedPost; sp == nil || sp.Caption != "a2" {
		t.Fatalf("SelectedPost = %+v", sp)
	}

	v.ClosePost()
	if v.State().SelectedPost != nil {
		t.Error("overlay still open")
	}
}

func TestBackInvokesCallback(t *testing.T) {
	v, backs, _ := newView(t, newFake(), "alice")

	v.Back()

	if *backs != 1 {
		t.Errorf("back callback calls = %d, want 1", *backs)
	}
}

func TestPageLoadAfterFollowReusesRefetch(t *testing.T) {
	client := newFake()
	v, _, _ := newView(t, client, "alice")
	v.Activate(context.Background(), "bob")

	v.Follow(context.Background())
	v.Activate(context.Background(), "bob")

	if client.profileFetches != 2 {
		t.Errorf("profile fetches = %d, want 2 (initial load + one for the follow)", client.profileFetches)
	}
	if got := v.State().Profile.FollowersCount; got != 11 {
		t.Errorf("FollowersCount = %d, want 11", got)
	}

	v.Activate(context.Background(), "bob")
	if client.profileFetches != 3 {
		t.Errorf("profile fetches = %d, want 3", client.profileFetches)
	}
}
