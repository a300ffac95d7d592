package api

import (
	"context"
	"net/http"

	"wellness-portal/pkg"
)

// Signup registers an account.  It never establishes a session: the caller
// still has to log in.
func (c *Client) Signup(ctx context.Context, email, password string, role pkg.Role) (*pkg.Message, error) {
	var res pkg.Message
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/auth/signup",
		body:     pkg.Credentials{Email: email, Password: password, Role: role},
		fallback: "Signup failed",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Login authenticates and returns the bearer token issued by the backend.
// The token is not stored anywhere; it is up to the caller to keep it.
func (c *Client) Login(ctx context.Context, email, password string) (*pkg.Token, error) {
	var res pkg.Token
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     pkg.Credentials{Email: email, Password: password},
		fallback: "Login failed",
	}, &res)
	if err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, &Error{StatusCode: http.StatusOK, Message: "Login failed: no access token returned"}
	}
	return &res, nil
}

// Health reports whether the backend is reachable.
func (c *Client) Health(ctx context.Context) (*pkg.Message, error) {
	var res pkg.Message
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/health",
		fallback: "Backend not reachable",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
