package session

import (
	"context"
	"errors"
	"time"

	sessionRepo "neighborly/database/repository/session"
	"neighborly/models"
)

var (
	ErrSessionNotFound = sessionRepo.ErrSessionNotFound
	ErrSessionExpired  = errors.New("session expired")
	ErrNotVerified     = errors.New("email address not verified")
)

// AuthBackend is the part of the backend API that issues accounts and tokens.
type AuthBackend interface {
	Signup(ctx context.Context, form models.SignupForm) (*models.SignupResult, error)
	VerifyOTP(ctx context.Context, email, code string) (*models.AuthResult, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, form models.LoginForm) (*models.AuthResult, error)
}

type SessionService interface {
	// Auth flow
	Signup(ctx context.Context, form models.SignupForm) (*models.FlowResponse, error)
	VerifyOTP(ctx context.Context, sessionID, code string) (*models.FlowResponse, error)
	ResendOTP(ctx context.Context, sessionID string) error
	Login(ctx context.Context, previousID string, form models.LoginForm) (*models.FlowResponse, error)
	Logout(ctx context.Context, sessionID string) error

	// Lifecycle hooks
	Load(ctx context.Context, sessionID string) (*models.AppContext, error)
	Save(ctx context.Context, appCtx *models.AppContext) error
	Clear(ctx context.Context, sessionID string) error
}

// DefaultSessionService keeps application contexts in Repo and delegates
// identity to Backend.
type DefaultSessionService struct {
	Repo    sessionRepo.SessionRepository
	Backend AuthBackend
	// TTL applies when the backend token carries no usable exp claim.
	TTL time.Duration
	// PendingTTL bounds an unverified signup.
	PendingTTL time.Duration
	Now        func() time.Time
	NewID      func() string
}
