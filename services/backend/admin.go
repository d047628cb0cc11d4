package backend

import (
	"context"
	"net/http"
	"net/url"

	"neighborly/models"
)

func (c *Client) AdminListUsers(ctx context.Context, token string) ([]models.User, error) {
	var out struct {
		Users []models.User `json:"users"`
	}
	if err := c.get(ctx, token, "/admin/users", &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) AdminListTasks(ctx context.Context, token string) ([]models.Task, error) {
	var out struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := c.get(ctx, token, "/admin/tasks", &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) AdminSetUserStatus(ctx context.Context, token, userID, status string) (*models.User, error) {
	var out models.User
	path := "/admin/users/" + url.PathEscape(userID) + "/status"
	if err := c.send(ctx, http.MethodPatch, token, path, models.UserStatusUpdate{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
