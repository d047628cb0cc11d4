package user

import (
	"context"
	"errors"
	"testing"

	"neighborly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileBackend struct {
	profile   models.Profile
	skills    []string
	setCalls  int
	passwords []models.PasswordChangeForm
	lastPatch *models.ProfileUpdate
	err       error
}

func (f *fakeProfileBackend) GetProfile(ctx context.Context, token, userID string) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := f.profile
	return &p, nil
}

func (f *fakeProfileBackend) UpdateProfile(ctx context.Context, token, userID string, upd *models.ProfileUpdate) (*models.Profile, error) {
	f.lastPatch = upd
	if upd.Name != nil {
		f.profile.Name = *upd.Name
	}
	if upd.Bio != nil {
		f.profile.Bio = *upd.Bio
	}
	p := f.profile
	return &p, nil
}

func (f *fakeProfileBackend) ChangePassword(ctx context.Context, token, userID string, form models.PasswordChangeForm) error {
	f.passwords = append(f.passwords, form)
	return f.err
}

func (f *fakeProfileBackend) GetSkills(ctx context.Context, token, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.skills...), nil
}

func (f *fakeProfileBackend) SetSkills(ctx context.Context, token, userID string, skills []string) ([]string, error) {
	f.setCalls++
	f.skills = append([]string(nil), skills...)
	return skills, nil
}

func signedIn() *models.AppContext {
	return &models.AppContext{ID: "s1", UserID: "u1", Token: "tok", Role: models.RoleNeighbor, Verified: true}
}

func TestVerifyPasswordComplexity(t *testing.T) {
	tests := []struct {
		pw      string
		wantErr string
	}{
		{"Sh0rt!", "at least 8"},
		{"lowercase1!", "uppercase"},
		{"UPPERCASE1!", "lowercase"},
		{"NoNumbers!", "number"},
		{"NoSymbols12", "symbol"},
		{"Val1d-Passw0rd", ""},
	}
	for _, tt := range tests {
		err := VerifyPasswordComplexity(tt.pw)
		if tt.wantErr == "" {
			assert.NoError(t, err, tt.pw)
			continue
		}
		require.Error(t, err, tt.pw)
		assert.Contains(t, err.Error(), tt.wantErr)
	}
}

func TestNormalizeSkill(t *testing.T) {
	skill, err := NormalizeSkill("  Garden   Design ")
	require.NoError(t, err)
	assert.Equal(t, "garden design", skill)

	_, err = NormalizeSkill("   ")
	var formErr *models.FormError
	require.ErrorAs(t, err, &formErr)
	assert.Equal(t, "skill", formErr.Field)

	_, err = NormalizeSkill("this skill name is far too long to be accepted here")
	require.ErrorAs(t, err, &formErr)
}

func TestAddSkillDedupes(t *testing.T) {
	backend := &fakeProfileBackend{skills: []string{"plumbing"}}
	svc := &DefaultUserService{Backend: backend}
	ctx := context.Background()

	skills, err := svc.AddSkill(ctx, signedIn(), " Painting ")
	require.NoError(t, err)
	assert.Equal(t, []string{"plumbing", "painting"}, skills)

	skills, err = svc.AddSkill(ctx, signedIn(), "PLUMBING")
	require.NoError(t, err)
	assert.Equal(t, []string{"plumbing", "painting"}, skills)
	assert.Equal(t, 1, backend.setCalls)
}

func TestRemoveSkill(t *testing.T) {
	backend := &fakeProfileBackend{skills: []string{"plumbing", "Painting"}}
	svc := &DefaultUserService{Backend: backend}
	ctx := context.Background()

	skills, err := svc.RemoveSkill(ctx, signedIn(), "painting")
	require.NoError(t, err)
	assert.Equal(t, []string{"plumbing"}, skills)

	skills, err = svc.RemoveSkill(ctx, signedIn(), "welding")
	require.NoError(t, err)
	assert.Equal(t, []string{"plumbing"}, skills)
	assert.Equal(t, 1, backend.setCalls)
}

func TestSkillsRequireSignIn(t *testing.T) {
	svc := &DefaultUserService{Backend: &fakeProfileBackend{}}
	_, err := svc.ListSkills(context.Background(), &models.AppContext{ID: "anon"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdateProfileSendsOnlySetFields(t *testing.T) {
	backend := &fakeProfileBackend{profile: models.Profile{ID: "u1", Name: "Ann", Bio: "old"}}
	svc := &DefaultUserService{Backend: backend}

	profile, err := svc.UpdateProfile(context.Background(), signedIn(), models.NewProfileUpdate().WithBio(" new bio "))
	require.NoError(t, err)
	assert.Equal(t, "Ann", profile.Name)
	assert.Equal(t, "new bio", profile.Bio)
	assert.Nil(t, backend.lastPatch.Name)

	_, err = svc.UpdateProfile(context.Background(), signedIn(), models.NewProfileUpdate())
	var formErr *models.FormError
	assert.ErrorAs(t, err, &formErr)
}

func TestChangePassword(t *testing.T) {
	backend := &fakeProfileBackend{}
	svc := &DefaultUserService{Backend: backend}
	ctx := context.Background()

	err := svc.ChangePassword(ctx, signedIn(), models.PasswordChangeForm{CurrentPassword: "Old-Passw0rd", NewPassword: "weak"})
	var formErr *models.FormError
	require.ErrorAs(t, err, &formErr)
	assert.Equal(t, "newPassword", formErr.Field)
	assert.Empty(t, backend.passwords)

	err = svc.ChangePassword(ctx, signedIn(), models.PasswordChangeForm{CurrentPassword: "Old-Passw0rd", NewPassword: "N3w-Passw0rd"})
	require.NoError(t, err)
	assert.Len(t, backend.passwords, 1)

	backend.err = errors.New("backend down")
	err = svc.ChangePassword(ctx, signedIn(), models.PasswordChangeForm{CurrentPassword: "Old-Passw0rd", NewPassword: "N3w-Passw0rd"})
	assert.ErrorContains(t, err, "backend down")
}
