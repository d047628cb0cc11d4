package admin

import (
	"context"
	"fmt"
	"strings"

	"neighborly/models"
	"neighborly/utils"

	"go.uber.org/zap"
)

func requireAdmin(appCtx *models.AppContext) error {
	if !appCtx.Authenticated() || appCtx.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (a *DefaultAdminService) ListUsers(ctx context.Context, appCtx *models.AppContext) ([]models.User, error) {
	if err := requireAdmin(appCtx); err != nil {
		return nil, err
	}
	users, err := a.Backend.AdminListUsers(ctx, appCtx.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (a *DefaultAdminService) ListTasks(ctx context.Context, appCtx *models.AppContext) ([]models.Task, error) {
	if err := requireAdmin(appCtx); err != nil {
		return nil, err
	}
	tasks, err := a.Backend.AdminListTasks(ctx, appCtx.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// SetUserStatus (un)suspends an account. Admins cannot suspend themselves.
// Suspending also signs the user out everywhere.
func (a *DefaultAdminService) SetUserStatus(ctx context.Context, appCtx *models.AppContext, userID, status string) (*models.User, error) {
	if err := requireAdmin(appCtx); err != nil {
		return nil, err
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status != models.UserStatusActive && status != models.UserStatusSuspended {
		return nil, ErrInvalidStatus
	}
	if userID == "" {
		return nil, &models.FormError{Field: "userId", Message: "user id is required"}
	}
	if userID == appCtx.UserID && status == models.UserStatusSuspended {
		return nil, &models.FormError{Field: "userId", Message: "you cannot suspend your own account"}
	}

	user, err := a.Backend.AdminSetUserStatus(ctx, appCtx.Token, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	logger := utils.GetLogger()
	logger.Info("User status changed",
		zap.String("adminID", appCtx.UserID),
		zap.String("userID", userID),
		zap.String("status", status),
	)

	if status == models.UserStatusSuspended && a.Sessions != nil {
		revoked, err := a.Sessions.DeleteByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("user suspended but sessions were not revoked: %w", err)
		}
		logger.Info("Revoked sessions of suspended user", zap.String("userID", userID), zap.Int64("count", revoked))
	}
	return user, nil
}

func (a *DefaultAdminService) Overview(ctx context.Context, appCtx *models.AppContext) (*models.AdminOverview, error) {
	users, err := a.ListUsers(ctx, appCtx)
	if err != nil {
		return nil, err
	}
	tasks, err := a.ListTasks(ctx, appCtx)
	if err != nil {
		return nil, err
	}
	return &models.AdminOverview{Users: users, Tasks: tasks}, nil
}
