// internal/api/posts.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoImage is returned when a post is submitted without an image.
var ErrNoImage = errors.New("api: post requires an image")

// ListPosts returns the feed visible to the session's user, in API order.
func (c *Client) ListPosts(ctx context.Context, sess Session) ([]Post, error) {
	var posts []Post
	err := c.do(ctx, sess, request{op: "list_posts", method: http.MethodGet, path: "/api/posts"}, &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost uploads an image with its caption. The caption may be empty.
func (c *Client) CreatePost(ctx context.Context, sess Session, post NewPost) error {
	if post.Image == nil {
		return ErrNoImage
	}

	f := newForm()
	f.field("caption", post.Caption)
	f.file("image", post.Image)
	body, contentType, err := f.finish()
	if err != nil {
		return fmt.Errorf("create_post: %w", err)
	}

	return c.do(ctx, sess, request{
		op:          "create_post",
		method:      http.MethodPost,
		path:        "/api/posts",
		body:        body,
		contentType: contentType,
	}, nil)
}

// LikePost sends a like command. The API toggles: liking twice unlikes.
func (c *Client) LikePost(ctx context.Context, sess Session, postID int64) error {
	return c.do(ctx, sess, request{
		op:     "like_post",
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/posts/%d/like", postID),
	}, nil)
}

func (c *Client) CommentOnPost(ctx context.Context, sess Session, postID int64, text string) error {
	f := newForm()
	f.field("text", text)
	body, contentType, err := f.finish()
	if err != nil {
		return fmt.Errorf("comment_post: %w", err)
	}

	return c.do(ctx, sess, request{
		op:          "comment_post",
		method:      http.MethodPost,
		path:        fmt.Sprintf("/api/posts/%d/comment", postID),
		body:        body,
		contentType: contentType,
	}, nil)
}
