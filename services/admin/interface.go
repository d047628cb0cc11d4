package admin

import (
	"context"
	"errors"

	"neighborly/models"
)

var (
	ErrForbidden     = errors.New("admin access required")
	ErrInvalidStatus = errors.New("status must be active or suspended")
)

// AdminBackend is the slice of the backend API behind the admin screens.
type AdminBackend interface {
	AdminListUsers(ctx context.Context, token string) ([]models.User, error)
	AdminListTasks(ctx context.Context, token string) ([]models.Task, error)
	AdminSetUserStatus(ctx context.Context, token, userID, status string) (*models.User, error)
}

// SessionRevoker drops the signed-in contexts of a user.
type SessionRevoker interface {
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type AdminService interface {
	ListUsers(ctx context.Context, appCtx *models.AppContext) ([]models.User, error)
	ListTasks(ctx context.Context, appCtx *models.AppContext) ([]models.Task, error)
	SetUserStatus(ctx context.Context, appCtx *models.AppContext, userID, status string) (*models.User, error)
	Overview(ctx context.Context, appCtx *models.AppContext) (*models.AdminOverview, error)

	GetLegalSections() []models.LegalSection
	GetLegalSectionsFor(role string) []models.LegalSection
}

// DefaultAdminService is the production implementation.
type DefaultAdminService struct {
	Backend  AdminBackend
	Sessions SessionRevoker
}
