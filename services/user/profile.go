package user

import (
	"context"
	"errors"
	"fmt"

	"neighborly/models"
	"neighborly/utils"

	"go.uber.org/zap"
)

// ErrUnauthenticated is returned when the context carries no backend token.
var ErrUnauthenticated = errors.New("sign in required")

func requireAuth(appCtx *models.AppContext) error {
	if !appCtx.Authenticated() || appCtx.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}

func (s *DefaultUserService) GetProfile(ctx context.Context, appCtx *models.AppContext) (*models.Profile, error) {
	if err := requireAuth(appCtx); err != nil {
		return nil, err
	}
	profile, err := s.Backend.GetProfile(ctx, appCtx.Token, appCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile sends only the fields set on upd.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, appCtx *models.AppContext, upd *models.ProfileUpdate) (*models.Profile, error) {
	if err := requireAuth(appCtx); err != nil {
		return nil, err
	}
	if upd == nil {
		upd = models.NewProfileUpdate()
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	profile, err := s.Backend.UpdateProfile(ctx, appCtx.Token, appCtx.UserID, upd)
	if err != nil {
		utils.GetLogger().Error("Failed to update profile", zap.String("userID", appCtx.UserID), zap.Error(err))
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func (s *DefaultUserService) ChangePassword(ctx context.Context, appCtx *models.AppContext, form models.PasswordChangeForm) error {
	if err := requireAuth(appCtx); err != nil {
		return err
	}
	if form.CurrentPassword == "" {
		return &models.FormError{Field: "currentPassword", Message: "current password is required"}
	}
	if err := VerifyPasswordComplexity(form.NewPassword); err != nil {
		return &models.FormError{Field: "newPassword", Message: err.Error()}
	}
	if form.NewPassword == form.CurrentPassword {
		return &models.FormError{Field: "newPassword", Message: "new password must differ from the current one"}
	}
	if err := s.Backend.ChangePassword(ctx, appCtx.Token, appCtx.UserID, form); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	utils.GetLogger().Info("Password changed", zap.String("userID", appCtx.UserID))
	return nil
}
