package backend

import (
	"context"
	"net/http"

	"neighborly/models"
)

// Signup registers a new account; the backend emails an OTP.
func (c *Client) Signup(ctx context.Context, form models.SignupForm) (*models.SignupResult, error) {
	var out models.SignupResult
	if err := c.send(ctx, http.MethodPost, "", "/auth/signup", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP confirms the emailed code. The backend may answer with a token.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*models.AuthResult, error) {
	body := map[string]string{"email": email, "otp": code}
	var out models.AuthResult
	if err := c.send(ctx, http.MethodPost, "", "/auth/verify-otp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendOTP asks the backend to issue a fresh code.
func (c *Client) ResendOTP(ctx context.Context, email string) error {
	return c.send(ctx, http.MethodPost, "", "/auth/resend-otp", map[string]string{"email": email}, nil)
}

func (c *Client) Login(ctx context.Context, form models.LoginForm) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.send(ctx, http.MethodPost, "", "/auth/login", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
