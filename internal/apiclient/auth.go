package apiclient

import (
	"context"
	"net/http"
)

// SessionInfo is the backend's view of the current session.
type SessionInfo struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResp struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
}

// SignIn exchanges credentials for a session token. Token issuance and
// validation are the provider's business; the token is opaque here.
func (c *Client) SignIn(ctx context.Context, email, password string) (SessionInfo, error) {
	var out signInResp
	if err := c.do(ctx, http.MethodPost, "/signin", credentialsReq{Email: email, Password: password}, &out); err != nil {
		return SessionInfo{}, err
	}
	return SessionInfo{AccessToken: out.AccessToken, UserID: out.UserID, Email: out.Email}, nil
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/signup", credentialsReq{Email: email, Password: password}, nil)
}

// SignOut invalidates the session server-side.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/signout", nil, nil)
}

type sessionResp struct {
	Session SessionInfo `json:"session"`
}

// GetSession validates the current token and returns the session it belongs
// to. ErrUnauthorized means the token is expired or revoked.
func (c *Client) GetSession(ctx context.Context) (SessionInfo, error) {
	var out sessionResp
	if err := c.do(ctx, http.MethodGet, "/session", nil, &out); err != nil {
		return SessionInfo{}, err
	}
	return out.Session, nil
}
