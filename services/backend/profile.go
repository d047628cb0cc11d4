package backend

import (
	"context"
	"net/http"
	"net/url"

	"neighborly/models"
)

func userPath(userID, suffix string) string {
	return "/users/" + url.PathEscape(userID) + suffix
}

func (c *Client) GetProfile(ctx context.Context, token, userID string) (*models.Profile, error) {
	var out models.Profile
	if err := c.get(ctx, token, userPath(userID, "/profile"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token, userID string, upd *models.ProfileUpdate) (*models.Profile, error) {
	var out models.Profile
	if err := c.send(ctx, http.MethodPatch, token, userPath(userID, "/profile"), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangePassword(ctx context.Context, token, userID string, form models.PasswordChangeForm) error {
	return c.send(ctx, http.MethodPost, token, userPath(userID, "/password"), form, nil)
}

func (c *Client) GetSkills(ctx context.Context, token, userID string) ([]string, error) {
	var out struct {
		Skills []string `json:"skills"`
	}
	if err := c.get(ctx, token, userPath(userID, "/skills"), &out); err != nil {
		return nil, err
	}
	return out.Skills, nil
}

// SetSkills replaces the user's whole skill list.
func (c *Client) SetSkills(ctx context.Context, token, userID string, skills []string) ([]string, error) {
	body := map[string][]string{"skills": skills}
	var out struct {
		Skills []string `json:"skills"`
	}
	if err := c.send(ctx, http.MethodPut, token, userPath(userID, "/skills"), body, &out); err != nil {
		return nil, err
	}
	if out.Skills == nil {
		return skills, nil
	}
	return out.Skills, nil
}
