// internal/api/users.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrEmptyUpdate is returned when a profile update carries no field.
var ErrEmptyUpdate = errors.New("api: profile update has no fields")

func userPath(username, suffix string) string {
	return "/api/users/" + url.PathEscape(username) + suffix
}

func (c *Client) GetProfile(ctx context.Context, sess Session, username string) (*Profile, error) {
	var profile Profile
	err := c.do(ctx, sess, request{
		op:     "get_profile",
		method: http.MethodGet,
		path:   userPath(username, "/profile"),
	}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) GetUserPosts(ctx context.Context, sess Session, username string) ([]Post, error) {
	var posts []Post
	err := c.do(ctx, sess, request{
		op:     "get_user_posts",
		method: http.MethodGet,
		path:   userPath(username, "/posts"),
	}, &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateProfile sends only the fields set on update.
func (c *Client) UpdateProfile(ctx context.Context, sess Session, update ProfileUpdate) error {
	if update.Empty() {
		return ErrEmptyUpdate
	}

	f := newForm()
	if update.FullName != nil {
		f.field("full_name", *update.FullName)
	}
	if update.Bio != nil {
		f.field("bio", *update.Bio)
	}
	if update.Website != nil {
		f.field("website", *update.Website)
	}
	if update.ProfilePicture != nil {
		f.file("profile_picture", update.ProfilePicture)
	}
	body, contentType, err := f.finish()
	if err != nil {
		return fmt.Errorf("update_profile: %w", err)
	}

	return c.do(ctx, sess, request{
		op:          "update_profile",
		method:      http.MethodPut,
		path:        "/api/users/profile",
		body:        body,
		contentType: contentType,
	}, nil)
}

// FollowUser sends a follow command. The API toggles follow/unfollow.
func (c *Client) FollowUser(ctx context.Context, sess Session, username string) error {
	return c.do(ctx, sess, request{
		op:     "follow_user",
		method: http.MethodPost,
		path:   userPath(username, "/follow"),
	}, nil)
}

// SearchUsers finds users whose username contains query.
func (c *Client) SearchUsers(ctx context.Context, sess Session, query string) ([]UserSummary, error) {
	var users []UserSummary
	err := c.do(ctx, sess, request{
		op:     "search_users",
		method: http.MethodGet,
		path:   "/api/users/search?query=" + url.QueryEscape(query),
	}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}
