package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"neighborly/models"
	"neighborly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTTL        = 24 * time.Hour
	defaultPendingTTL = 30 * time.Minute
)

func (s *DefaultSessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultSessionService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New().String()
}

func (s *DefaultSessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return defaultTTL
}

func (s *DefaultSessionService) pendingTTL() time.Duration {
	if s.PendingTTL > 0 {
		return s.PendingTTL
	}
	return defaultPendingTTL
}

// authenticate copies the backend identity and token into appCtx. Expiry
// follows the token's exp claim when it lies in the future.
func (s *DefaultSessionService) authenticate(appCtx *models.AppContext, res *models.AuthResult) {
	now := s.now()
	appCtx.Token = res.Token
	if res.User.ID != "" {
		appCtx.UserID = res.User.ID
	}
	if res.User.Email != "" {
		appCtx.Email = res.User.Email
	}
	if res.User.Name != "" {
		appCtx.Name = res.User.Name
	}
	if res.User.Role != "" {
		appCtx.Role = res.User.Role
	}
	appCtx.Verified = appCtx.Verified || res.User.Verified
	appCtx.ExpiresAt = now.Add(s.ttl())

	claims, err := utils.ParseTokenClaims(res.Token)
	if err != nil {
		utils.GetLogger().Debug("Token claims unreadable, using session TTL", zap.Error(err))
		return
	}
	if appCtx.UserID == "" {
		appCtx.UserID = claims.Subject
	}
	if appCtx.Role == "" {
		appCtx.Role = claims.Role
	}
	if claims.ExpiresAt.After(now) {
		appCtx.ExpiresAt = claims.ExpiresAt
	}
}

// Signup registers the account with the backend and opens an unverified
// context. The backend emails the OTP.
func (s *DefaultSessionService) Signup(ctx context.Context, form models.SignupForm) (*models.FlowResponse, error) {
	if err := ValidateSignup(&form); err != nil {
		return nil, err
	}

	res, err := s.Backend.Signup(ctx, form)
	if err != nil {
		utils.GetLogger().Error("Signup failed", zap.String("email", form.Email), zap.Error(err))
		return nil, fmt.Errorf("signup failed: %w", err)
	}

	appCtx := &models.AppContext{
		ID:        s.newID(),
		UserID:    res.UserID,
		Email:     form.Email,
		Name:      form.Name,
		Role:      form.Role,
		ExpiresAt: s.now().Add(s.pendingTTL()),
	}
	if err := s.Repo.Upsert(ctx, appCtx); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Signup pending OTP", zap.String("sessionID", appCtx.ID), zap.String("email", form.Email))
	msg := res.Message
	if msg == "" {
		msg = "Check your email for a verification code"
	}
	return &models.FlowResponse{Code: models.FlowOTPPending, SessionID: appCtx.ID, Message: msg, Context: appCtx}, nil
}

func (s *DefaultSessionService) VerifyOTP(ctx context.Context, sessionID, code string) (*models.FlowResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, formError("otp", "verification code is required")
	}
	appCtx, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res, err := s.Backend.VerifyOTP(ctx, appCtx.Email, code)
	if err != nil {
		return nil, fmt.Errorf("otp verification failed: %w", err)
	}

	appCtx.Verified = true
	if res != nil && res.Token != "" {
		s.authenticate(appCtx, res)
	}
	if err := s.Save(ctx, appCtx); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("OTP verified", zap.String("sessionID", appCtx.ID), zap.Bool("authenticated", appCtx.Authenticated()))
	return &models.FlowResponse{Code: models.FlowOTPVerified, SessionID: appCtx.ID, Message: "Email verified", Context: appCtx}, nil
}

func (s *DefaultSessionService) ResendOTP(ctx context.Context, sessionID string) error {
	appCtx, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if appCtx.Verified {
		return nil
	}
	if err := s.Backend.ResendOTP(ctx, appCtx.Email); err != nil {
		return fmt.Errorf("failed to resend otp: %w", err)
	}
	return nil
}

// Login always issues a fresh session ID and drops previousID, if any.
// An unverified account gets a context with flow code 100 so the client can
// route to the OTP screen.
func (s *DefaultSessionService) Login(ctx context.Context, previousID string, form models.LoginForm) (*models.FlowResponse, error) {
	if err := ValidateLogin(&form); err != nil {
		return nil, err
	}

	res, err := s.Backend.Login(ctx, form)
	if err != nil {
		utils.GetLogger().Warn("Login failed", zap.String("email", form.Email), zap.Error(err))
		return nil, fmt.Errorf("login failed: %w", err)
	}

	appCtx := &models.AppContext{ID: s.newID(), Email: form.Email}
	s.authenticate(appCtx, res)
	if err := s.Repo.Upsert(ctx, appCtx); err != nil {
		return nil, err
	}
	if previousID != "" {
		if err := s.Clear(ctx, previousID); err != nil && !errors.Is(err, ErrSessionNotFound) {
			utils.GetLogger().Warn("Failed to drop previous session", zap.String("sessionID", previousID), zap.Error(err))
		}
	}

	if !appCtx.Verified {
		return &models.FlowResponse{Code: models.FlowOTPPending, SessionID: appCtx.ID, Message: "Verify your email to continue", Context: appCtx}, nil
	}
	return &models.FlowResponse{Code: models.FlowComplete, SessionID: appCtx.ID, Context: appCtx}, nil
}

// Logout is idempotent.
func (s *DefaultSessionService) Logout(ctx context.Context, sessionID string) error {
	if err := s.Clear(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// Load returns the stored context. An expired context is removed and
// reported as ErrSessionExpired.
func (s *DefaultSessionService) Load(ctx context.Context, sessionID string) (*models.AppContext, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	appCtx, err := s.Repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if appCtx.Expired(s.now()) {
		if err := s.Repo.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
			utils.GetLogger().Warn("Failed to drop expired session", zap.String("sessionID", sessionID), zap.Error(err))
		}
		return nil, ErrSessionExpired
	}
	return appCtx, nil
}

func (s *DefaultSessionService) Save(ctx context.Context, appCtx *models.AppContext) error {
	if appCtx == nil || appCtx.ID == "" {
		return errors.New("cannot save a context without an id")
	}
	return s.Repo.Upsert(ctx, appCtx)
}

func (s *DefaultSessionService) Clear(ctx context.Context, sessionID string) error {
	return s.Repo.Delete(ctx, sessionID)
}
