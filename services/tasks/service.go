package tasks

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"neighborly/models"
	"neighborly/services/backend"
	"neighborly/utils"

	"go.uber.org/zap"
)

func requireAuth(appCtx *models.AppContext) error {
	if !appCtx.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

func mapNotFound(err error) error {
	if backend.StatusOf(err) == http.StatusNotFound {
		return ErrTaskNotFound
	}
	return err
}

func (s *DefaultTaskService) List(ctx context.Context, appCtx *models.AppContext, filter models.TaskFilter) ([]models.Task, error) {
	if err := requireAuth(appCtx); err != nil {
		return nil, err
	}
	all, err := s.Backend.ListTasks(ctx, appCtx.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return Apply(all, filter), nil
}

func (s *DefaultTaskService) Get(ctx context.Context, appCtx *models.AppContext, taskID string) (*models.Task, error) {
	if err := requireAuth(appCtx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(taskID) == "" {
		return nil, ErrTaskNotFound
	}
	task, err := s.Backend.GetTask(ctx, appCtx.Token, taskID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return task, nil
}

// Post publishes a task on behalf of a poster. The form must come from
// models.NewTaskForm(...).Build so it is already validated.
func (s *DefaultTaskService) Post(ctx context.Context, appCtx *models.AppContext, form models.TaskForm) (*models.Task, error) {
	if err := requireAuth(appCtx); err != nil {
		return nil, err
	}
	if appCtx.Role != models.RolePoster {
		return nil, ErrForbiddenRole
	}
	task, err := s.Backend.CreateTask(ctx, appCtx.Token, form)
	if err != nil {
		utils.GetLogger().Error("Failed to post task", zap.String("userID", appCtx.UserID), zap.Error(err))
		return nil, fmt.Errorf("failed to post task: %w", err)
	}
	utils.GetLogger().Info("Task posted", zap.String("taskID", task.ID), zap.String("userID", appCtx.UserID))
	return task, nil
}

// Accept assigns an open task to the calling neighbor.
func (s *DefaultTaskService) Accept(ctx context.Context, appCtx *models.AppContext, taskID string) (*models.Task, error) {
	if err := requireAuth(appCtx); err != nil {
		return nil, err
	}
	if appCtx.Role != models.RoleNeighbor {
		return nil, ErrForbiddenRole
	}
	if !appCtx.Verified {
		return nil, ErrNotVerified
	}

	current, err := s.Get(ctx, appCtx, taskID)
	if err != nil {
		return nil, err
	}
	if current.Status != models.TaskOpen {
		return nil, ErrTaskNotOpen
	}

	task, err := s.Backend.AcceptTask(ctx, appCtx.Token, taskID)
	if err != nil {
		if backend.StatusOf(err) == http.StatusConflict {
			return nil, ErrTaskNotOpen
		}
		return nil, fmt.Errorf("failed to accept task: %w", mapNotFound(err))
	}
	utils.GetLogger().Info("Task accepted", zap.String("taskID", taskID), zap.String("userID", appCtx.UserID))
	return task, nil
}
