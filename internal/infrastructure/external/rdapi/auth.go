package rdapi

import (
	"context"

	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

// Login authenticates with the backend; the session cookie lands in the jar
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.post(ctx, "/auth/login", body, nil)
}

// VerifyToken returns the user behind the current session cookie
func (c *Client) VerifyToken(ctx context.Context) (*entity.User, error) {
	var resp struct {
		User entity.User `json:"user"`
	}
	if err := c.get(ctx, "/auth/verify-token", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout ends the backend session
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", struct{}{}, nil)
}

// ChangePassword sets a new password for the logged-in user
func (c *Client) ChangePassword(ctx context.Context, newPassword string) error {
	return c.post(ctx, "/auth/change-password", map[string]string{"new_password": newPassword}, nil)
}
