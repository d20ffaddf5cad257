// internal/api/models.go
package api

import "time"

// Post is a feed entry as returned by the API. The client never edits it.
type Post struct {
	ID        int64       `json:"id"`
	Caption   string      `json:"caption"`
	ImageURL  string      `json:"image_url"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
	User      UserSummary `json:"user"`
	Likes     []Like      `json:"likes"`
	Comments  []Comment   `json:"comments"`
}

// LikesCount and CommentsCount are what the grid overlay and feed buttons show.
func (p Post) LikesCount() int    { return len(p.Likes) }
func (p Post) CommentsCount() int { return len(p.Comments) }

type Like struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id,omitempty"`
}

type Comment struct {
	ID        int64       `json:"id"`
	Text      string      `json:"text"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
	User      UserSummary `json:"user"`
}

type UserSummary struct {
	Username       string  `json:"username"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// Profile is a user's public metadata with aggregate counts.
type Profile struct {
	Username       string  `json:"username"`
	FullName       string  `json:"full_name"`
	Bio            string  `json:"bio"`
	Website        string  `json:"website"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	PostsCount     int     `json:"posts_count"`
	FollowersCount int     `json:"followers_count"`
	FollowingCount int     `json:"following_count"`
}

// Upload is a file picked in the browser, held in memory until it is sent.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (u *Upload) Size() int { return len(u.Data) }

// NewPost is the multipart payload for post creation.
type NewPost struct {
	Caption string
	Image   *Upload
}

// ProfileUpdate carries only the fields to change; nil fields are not sent.
type ProfileUpdate struct {
	FullName       *string
	Bio            *string
	Website        *string
	ProfilePicture *Upload
}

// Empty reports whether no field would be sent.
func (u ProfileUpdate) Empty() bool {
	return u.FullName == nil && u.Bio == nil && u.Website == nil && u.ProfilePicture == nil
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
