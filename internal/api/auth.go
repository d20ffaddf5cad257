// internal/api/auth.go
// Credential acquisition against the API's token endpoints

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var errNoToken = errors.New("response carried no access token")

// Login exchanges a username and password for a Session.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	return c.token(ctx, "login", "/api/token", form)
}

// Register creates an account and returns a Session for it.
func (c *Client) Register(ctx context.Context, username, email, password string) (Session, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("email", email)
	form.Set("password", password)
	return c.token(ctx, "register", "/api/register", form)
}

func (c *Client) token(ctx context.Context, op, path string, form url.Values) (Session, error) {
	var resp TokenResponse
	err := c.do(ctx, Session{}, request{
		op:          op,
		method:      http.MethodPost,
		path:        path,
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &resp)
	if err != nil {
		return Session{}, err
	}
	if resp.AccessToken == "" {
		return Session{}, fmt.Errorf("%s: %w", op, errNoToken)
	}
	return NewSession(resp.AccessToken), nil
}
