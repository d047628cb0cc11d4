package tasks

import (
	"context"
	"errors"

	"neighborly/models"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrForbiddenRole   = errors.New("your role cannot perform this action")
	ErrNotVerified     = errors.New("verify your email before accepting tasks")
	ErrTaskNotOpen     = errors.New("task is no longer open")
	ErrUnauthenticated = errors.New("sign in required")
)

// TaskBackend is the slice of the backend API behind the task screens.
type TaskBackend interface {
	ListTasks(ctx context.Context, token string) ([]models.Task, error)
	GetTask(ctx context.Context, token, taskID string) (*models.Task, error)
	CreateTask(ctx context.Context, token string, form models.TaskForm) (*models.Task, error)
	AcceptTask(ctx context.Context, token, taskID string) (*models.Task, error)
}

type TaskService interface {
	List(ctx context.Context, appCtx *models.AppContext, filter models.TaskFilter) ([]models.Task, error)
	Get(ctx context.Context, appCtx *models.AppContext, taskID string) (*models.Task, error)
	Post(ctx context.Context, appCtx *models.AppContext, form models.TaskForm) (*models.Task, error)
	Accept(ctx context.Context, appCtx *models.AppContext, taskID string) (*models.Task, error)
}

// DefaultTaskService is the production implementation.
type DefaultTaskService struct {
	Backend TaskBackend
}
