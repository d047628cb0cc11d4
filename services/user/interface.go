package user

import (
	"context"

	"neighborly/models"
)

// ProfileBackend is the slice of the backend API behind the settings screens.
type ProfileBackend interface {
	GetProfile(ctx context.Context, token, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, token, userID string, upd *models.ProfileUpdate) (*models.Profile, error)
	ChangePassword(ctx context.Context, token, userID string, form models.PasswordChangeForm) error
	GetSkills(ctx context.Context, token, userID string) ([]string, error)
	SetSkills(ctx context.Context, token, userID string, skills []string) ([]string, error)
}

type UserService interface {
	// Profile & settings
	GetProfile(ctx context.Context, appCtx *models.AppContext) (*models.Profile, error)
	UpdateProfile(ctx context.Context, appCtx *models.AppContext, upd *models.ProfileUpdate) (*models.Profile, error)
	ChangePassword(ctx context.Context, appCtx *models.AppContext, form models.PasswordChangeForm) error

	// Skills
	ListSkills(ctx context.Context, appCtx *models.AppContext) ([]string, error)
	AddSkill(ctx context.Context, appCtx *models.AppContext, name string) ([]string, error)
	RemoveSkill(ctx context.Context, appCtx *models.AppContext, name string) ([]string, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Backend ProfileBackend
}
