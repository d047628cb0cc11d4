package backend

import (
	"context"
	"net/http"
	"net/url"

	"neighborly/models"
)

func (c *Client) ListTasks(ctx context.Context, token string) ([]models.Task, error) {
	var out struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := c.get(ctx, token, "/tasks", &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, token, taskID string) (*models.Task, error) {
	var out models.Task
	if err := c.get(ctx, token, "/tasks/"+url.PathEscape(taskID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, token string, form models.TaskForm) (*models.Task, error) {
	var out models.Task
	if err := c.send(ctx, http.MethodPost, token, "/tasks", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AcceptTask(ctx context.Context, token, taskID string) (*models.Task, error) {
	var out models.Task
	if err := c.send(ctx, http.MethodPost, token, "/tasks/"+url.PathEscape(taskID)+"/accept", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
