package client

import (
	"context"
	"net/url"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

type userResponse struct {
	User domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	var resp userResponse
	if err := c.post(ctx, "/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, "/register", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.get(ctx, "/logout", nil, nil)
}

// Me returns the profile behind the current credential cookie.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var resp userResponse
	if err := c.get(ctx, "/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, "/password/forgot", map[string]string{"email": email}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) ResetPassword(ctx context.Context, token string, req ResetPasswordRequest) (string, error) {
	var resp messageResponse
	if err := c.put(ctx, "/password/reset/"+url.PathEscape(token), req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	var resp messageResponse
	if err := c.get(ctx, "/verify-email/"+url.PathEscape(token), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, "/verify-email/resend", map[string]string{"email": email}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
