package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	draftRepo "neighborly/database/repository/draft"
	"neighborly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDraftRepo is an in-memory DraftRepository for tests.
type fakeDraftRepo struct {
	drafts map[string]*models.AvailabilityDraft
	// expireOnUpdate drops the draft on the next n Update calls, as a TTL would.
	expireOnUpdate int
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[string]*models.AvailabilityDraft)}
}

func clone(d *models.AvailabilityDraft) *models.AvailabilityDraft {
	c := *d
	c.Slots = append([]models.AvailabilitySlot(nil), d.Slots...)
	return &c
}

func (f *fakeDraftRepo) Get(_ context.Context, providerID string) (*models.AvailabilityDraft, error) {
	d, ok := f.drafts[providerID]
	if !ok {
		return nil, draftRepo.ErrDraftNotFound
	}
	return clone(d), nil
}

func (f *fakeDraftRepo) Put(_ context.Context, draft *models.AvailabilityDraft) error {
	f.drafts[draft.ProviderID] = clone(draft)
	return nil
}

func (f *fakeDraftRepo) Update(_ context.Context, providerID string, fn draftRepo.MutateFunc) (*models.AvailabilityDraft, error) {
	if f.expireOnUpdate > 0 {
		f.expireOnUpdate--
		delete(f.drafts, providerID)
	}
	d, ok := f.drafts[providerID]
	if !ok {
		return nil, draftRepo.ErrDraftNotFound
	}
	work := clone(d)
	changed, err := fn(work)
	if err != nil {
		return nil, err
	}
	if changed {
		work.Version++
		work.Dirty = true
		f.drafts[providerID] = clone(work)
	}
	return work, nil
}

func (f *fakeDraftRepo) Delete(_ context.Context, providerID string) error {
	delete(f.drafts, providerID)
	return nil
}

// fakeScheduleBackend records saves and serves a fixed schedule.
type fakeScheduleBackend struct {
	stored    models.DaySchedule
	saved     []models.SaveScheduleRequest
	fetches   int
	fetchErr  error
	saveErr   error
	lastToken string
}

func (f *fakeScheduleBackend) GetSchedule(_ context.Context, token, _ string) (models.DaySchedule, error) {
	f.fetches++
	f.lastToken = token
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.stored, nil
}

func (f *fakeScheduleBackend) SaveSchedule(_ context.Context, token string, req models.SaveScheduleRequest) error {
	f.lastToken = token
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, req)
	return nil
}

func newTestService() (*DefaultAvailabilityService, *fakeDraftRepo, *fakeScheduleBackend) {
	drafts := newFakeDraftRepo()
	backend := &fakeScheduleBackend{stored: models.DaySchedule{}}
	svc := &DefaultAvailabilityService{
		Drafts:   drafts,
		Backend:  backend,
		Location: time.UTC,
		Now:      func() time.Time { return now },
	}
	return svc, drafts, backend
}

func TestLoadFetchesOnceThenUsesDraft(t *testing.T) {
	svc, _, backend := newTestService()
	backend.stored = models.DaySchedule{
		"2030-06-04": {{StartTime: at(9, 0).Unix(), EndTime: at(10, 0).Unix()}},
	}
	ctx := context.Background()

	d, err := svc.Load(ctx, "tok", "p1")
	require.NoError(t, err)
	assert.Len(t, d.Slots, 1)
	assert.Equal(t, "tok", backend.lastToken)

	_, err = svc.Load(ctx, "tok", "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.fetches)
}

func TestLoadPropagatesFetchError(t *testing.T) {
	svc, drafts, backend := newTestService()
	backend.fetchErr = errors.New("backend down")

	_, err := svc.Load(context.Background(), "tok", "p1")
	assert.ErrorIs(t, err, backend.fetchErr)
	assert.Empty(t, drafts.drafts)
}

func TestSelectThenSave(t *testing.T) {
	svc, drafts, backend := newTestService()
	ctx := context.Background()

	res, err := svc.Select(ctx, "tok", "p1", models.SelectionRequest{Start: at(10, 0), End: at(12, 0)})
	require.NoError(t, err)
	assert.Equal(t, models.SelectionAdded, res.Action)
	assert.Equal(t, 1, res.Draft.Version)

	schedule, err := svc.Save(ctx, "tok", "p1")
	require.NoError(t, err)
	assert.Equal(t, []models.HourBucket{
		{StartTime: at(10, 0).Unix(), EndTime: at(11, 0).Unix()},
		{StartTime: at(11, 0).Unix(), EndTime: at(12, 0).Unix()},
	}, schedule["2030-06-04"])
	require.Len(t, backend.saved, 1)
	assert.Equal(t, "p1", backend.saved[0].ProviderID)
	assert.NotContains(t, drafts.drafts, "p1", "draft is cleared after a successful save")
}

func TestSelectReloadsDraftThatExpiredMidEdit(t *testing.T) {
	svc, drafts, backend := newTestService()
	drafts.expireOnUpdate = 1
	ctx := context.Background()

	res, err := svc.Select(ctx, "tok", "p1", models.SelectionRequest{Start: at(10, 0), End: at(11, 0)})
	require.NoError(t, err)
	assert.Equal(t, models.SelectionAdded, res.Action)
	assert.Len(t, drafts.drafts["p1"].Slots, 1)
	assert.Equal(t, 2, backend.fetches)
}

func TestRemoveSlotGivesUpAfterOneReload(t *testing.T) {
	svc, drafts, backend := newTestService()
	drafts.expireOnUpdate = 2

	_, err := svc.RemoveSlot(context.Background(), "tok", "p1", "missing")
	assert.ErrorIs(t, err, draftRepo.ErrDraftNotFound)
	assert.Equal(t, 2, backend.fetches)
}

func TestSelectInPastLeavesDraftUnchanged(t *testing.T) {
	svc, drafts, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Select(ctx, "tok", "p1", models.SelectionRequest{Start: now.Add(-time.Hour), End: now})
	require.NoError(t, err)
	assert.Equal(t, models.SelectionIgnored, res.Action)
	assert.Equal(t, 0, drafts.drafts["p1"].Version)
}

func TestFailedSaveKeepsDraft(t *testing.T) {
	svc, drafts, backend := newTestService()
	ctx := context.Background()
	_, err := svc.Select(ctx, "tok", "p1", models.SelectionRequest{Start: at(10, 0), End: at(11, 0)})
	require.NoError(t, err)

	backend.saveErr = errors.New("503")
	_, err = svc.Save(ctx, "tok", "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.saveErr)
	require.Contains(t, drafts.drafts, "p1")
	assert.Len(t, drafts.drafts["p1"].Slots, 1)
}

func TestSaveWithoutDraft(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Save(context.Background(), "tok", "p1")
	assert.ErrorIs(t, err, draftRepo.ErrDraftNotFound)
}

func TestRemoveSlot(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	res, err := svc.Select(ctx, "tok", "p1", models.SelectionRequest{Start: at(10, 0), End: at(11, 0)})
	require.NoError(t, err)

	d, err := svc.RemoveSlot(ctx, "tok", "p1", res.Added.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Slots)

	_, err = svc.RemoveSlot(ctx, "tok", "p1", res.Added.ID)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestDiscard(t *testing.T) {
	svc, drafts, backend := newTestService()
	ctx := context.Background()
	_, err := svc.Load(ctx, "tok", "p1")
	require.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, "p1"))
	assert.Empty(t, drafts.drafts)

	_, err = svc.Load(ctx, "tok", "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.fetches)
}
