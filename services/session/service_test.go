package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sessionRepo "neighborly/database/repository/session"
	"neighborly/models"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	items map[string]models.AppContext
}

func newMemRepo() *memRepo { return &memRepo{items: map[string]models.AppContext{}} }

func (m *memRepo) GetByID(ctx context.Context, id string) (*models.AppContext, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	return &c, nil
}

func (m *memRepo) Upsert(ctx context.Context, appCtx *models.AppContext) error {
	m.items[appCtx.ID] = *appCtx
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sessionRepo.ErrSessionNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	for id, c := range m.items {
		if c.UserID == userID {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *memRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeAuth struct {
	signups  []models.SignupForm
	resent   []string
	otp      string
	token    string
	verified bool
	loginErr error
}

func (f *fakeAuth) Signup(ctx context.Context, form models.SignupForm) (*models.SignupResult, error) {
	f.signups = append(f.signups, form)
	return &models.SignupResult{UserID: "u1"}, nil
}

func (f *fakeAuth) VerifyOTP(ctx context.Context, email, code string) (*models.AuthResult, error) {
	if code != f.otp {
		return nil, errors.New("invalid code")
	}
	return &models.AuthResult{Token: f.token, User: models.User{ID: "u1", Email: email, Verified: true}}, nil
}

func (f *fakeAuth) ResendOTP(ctx context.Context, email string) error {
	f.resent = append(f.resent, email)
	return nil
}

func (f *fakeAuth) Login(ctx context.Context, form models.LoginForm) (*models.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.AuthResult{Token: f.token, User: models.User{ID: "u1", Email: form.Email, Role: models.RoleNeighbor, Verified: f.verified}}, nil
}

var clock = time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": models.RoleNeighbor,
		"exp":  exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func newService(auth *fakeAuth) (*DefaultSessionService, *memRepo) {
	repo := newMemRepo()
	n := 0
	return &DefaultSessionService{
		Repo:    repo,
		Backend: auth,
		TTL:     time.Hour,
		Now:     func() time.Time { return clock },
		NewID: func() string {
			n++
			return fmt.Sprintf("sess-%d", n)
		},
	}, repo
}

func validSignup() models.SignupForm {
	return models.SignupForm{Name: " Wanjiru ", Email: "Wanjiru@Example.com", Phone: "0700000000", Password: "Str0ng-Pass", Role: "Neighbor"}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*models.SignupForm)
		field string
	}{
		{"valid", func(*models.SignupForm) {}, ""},
		{"missing name", func(f *models.SignupForm) { f.Name = "  " }, "name"},
		{"bad email", func(f *models.SignupForm) { f.Email = "not-an-email" }, "email"},
		{"email without domain dot", func(f *models.SignupForm) { f.Email = "a@localhost" }, "email"},
		{"weak password", func(f *models.SignupForm) { f.Password = "password" }, "password"},
		{"admin role", func(f *models.SignupForm) { f.Role = "admin" }, "role"},
		{"missing role", func(f *models.SignupForm) { f.Role = "" }, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validSignup()
			tt.edit(&form)
			err := ValidateSignup(&form)
			if tt.field == "" {
				require.NoError(t, err)
				assert.Equal(t, "wanjiru@example.com", form.Email)
				assert.Equal(t, models.RoleNeighbor, form.Role)
				return
			}
			var formErr *models.FormError
			require.ErrorAs(t, err, &formErr)
			assert.Equal(t, tt.field, formErr.Field)
		})
	}
}

func TestSignupThenVerify(t *testing.T) {
	token := signToken(t, clock.Add(6*time.Hour))
	auth := &fakeAuth{otp: "123456", token: token}
	svc, repo := newService(auth)
	ctx := context.Background()

	flow, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	assert.Equal(t, models.FlowOTPPending, flow.Code)
	assert.Equal(t, "sess-1", flow.SessionID)
	require.Len(t, auth.signups, 1)

	stored := repo.items["sess-1"]
	assert.False(t, stored.Verified)
	assert.False(t, stored.Authenticated())
	assert.Equal(t, clock.Add(defaultPendingTTL), stored.ExpiresAt)

	_, err = svc.VerifyOTP(ctx, "sess-1", "000000")
	require.Error(t, err)
	assert.False(t, repo.items["sess-1"].Verified)

	flow, err = svc.VerifyOTP(ctx, "sess-1", " 123456 ")
	require.NoError(t, err)
	assert.Equal(t, models.FlowOTPVerified, flow.Code)

	stored = repo.items["sess-1"]
	assert.True(t, stored.Verified)
	assert.Equal(t, token, stored.Token)
	assert.Equal(t, time.Unix(clock.Add(6*time.Hour).Unix(), 0), stored.ExpiresAt)
}

func TestVerifyOTPRequiresCode(t *testing.T) {
	svc, _ := newService(&fakeAuth{})
	_, err := svc.VerifyOTP(context.Background(), "sess-1", " ")
	var formErr *models.FormError
	require.ErrorAs(t, err, &formErr)
	assert.Equal(t, "otp", formErr.Field)
}

func TestResendOTP(t *testing.T) {
	auth := &fakeAuth{}
	svc, _ := newService(auth)
	ctx := context.Background()

	flow, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	require.NoError(t, svc.ResendOTP(ctx, flow.SessionID))
	assert.Equal(t, []string{"wanjiru@example.com"}, auth.resent)

	assert.ErrorIs(t, svc.ResendOTP(ctx, "missing"), ErrSessionNotFound)
}

func TestLoginUsesSessionTTLWithoutExpClaim(t *testing.T) {
	svc, repo := newService(&fakeAuth{token: "opaque-token", verified: true})
	ctx := context.Background()
	repo.items["old"] = models.AppContext{ID: "old", Token: "stale"}

	flow, err := svc.Login(ctx, "old", models.LoginForm{Email: " Ann@Example.com ", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, models.FlowComplete, flow.Code)
	assert.NotEqual(t, "old", flow.SessionID)

	stored := repo.items[flow.SessionID]
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, "ann@example.com", stored.Email)
	assert.Equal(t, models.RoleNeighbor, stored.Role)
	assert.Equal(t, clock.Add(time.Hour), stored.ExpiresAt)
	assert.NotContains(t, repo.items, "old")
}

func TestLoginUnverifiedAccount(t *testing.T) {
	svc, _ := newService(&fakeAuth{token: "opaque-token"})
	flow, err := svc.Login(context.Background(), "", models.LoginForm{Email: "ann@example.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, models.FlowOTPPending, flow.Code)
	assert.False(t, flow.Context.Verified)
}

func TestLoginFailure(t *testing.T) {
	svc, repo := newService(&fakeAuth{loginErr: errors.New("invalid credentials")})
	_, err := svc.Login(context.Background(), "", models.LoginForm{Email: "ann@example.com", Password: "x"})
	assert.ErrorContains(t, err, "invalid credentials")
	assert.Empty(t, repo.items)
}

func TestLoadExpiredSession(t *testing.T) {
	svc, repo := newService(&fakeAuth{})
	repo.items["s"] = models.AppContext{ID: "s", ExpiresAt: clock.Add(-time.Minute)}

	_, err := svc.Load(context.Background(), "s")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.NotContains(t, repo.items, "s")
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, repo := newService(&fakeAuth{})
	repo.items["s"] = models.AppContext{ID: "s"}
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, "s"))
	require.NoError(t, svc.Logout(ctx, "s"))
	assert.Empty(t, repo.items)
}
