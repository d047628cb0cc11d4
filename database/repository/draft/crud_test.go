package draftRepo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"neighborly/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (DraftRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDraftRepo(client, time.Hour), mr
}

func TestDraftPutGetDelete(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "p1")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	draft := &models.AvailabilityDraft{
		ProviderID: "p1",
		Slots:      []models.AvailabilitySlot{models.NewAvailabilitySlot(start, start.Add(time.Hour))},
	}
	require.NoError(t, repo.Put(ctx, draft))
	assert.Equal(t, time.Hour, mr.TTL("draft:p1"))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got.Slots, 1)
	assert.True(t, got.Slots[0].Start.Equal(start))

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.Get(ctx, "p1")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraftUpdate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, &models.AvailabilityDraft{ProviderID: "p1"}))

	updated, err := repo.Update(ctx, "p1", func(d *models.AvailabilityDraft) (bool, error) {
		start := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
		d.Slots = append(d.Slots, models.NewAvailabilitySlot(start, start.Add(time.Hour)))
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)
	assert.True(t, updated.Dirty)

	unchanged, err := repo.Update(ctx, "p1", func(d *models.AvailabilityDraft) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, unchanged.Version)

	stored, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, stored.Slots, 1)
	assert.Equal(t, 1, stored.Version)
}

func TestDraftUpdateMissingAndFailing(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, "ghost", func(d *models.AvailabilityDraft) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, ErrDraftNotFound)

	require.NoError(t, repo.Put(ctx, &models.AvailabilityDraft{ProviderID: "p1"}))
	boom := errors.New("boom")
	_, err = repo.Update(ctx, "p1", func(d *models.AvailabilityDraft) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestDraftConcurrentUpdatesAreNotLost(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, &models.AvailabilityDraft{ProviderID: "p1"}))

	const writers = 8
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := base.Add(time.Duration(i) * time.Hour)
			_, errs[i] = repo.Update(ctx, "p1", func(d *models.AvailabilityDraft) (bool, error) {
				d.Slots = append(d.Slots, models.NewAvailabilitySlot(start, start.Add(time.Hour)))
				return true, nil
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrDraftContention)
	}

	stored, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, stored.Slots, succeeded)
	assert.Equal(t, succeeded, stored.Version)
	assert.Positive(t, succeeded)
}

func TestDraftUpdateHonoursCancelledContext(t *testing.T) {
	repo, _ := newTestRepo(t)
	require.NoError(t, repo.Put(context.Background(), &models.AvailabilityDraft{ProviderID: "p1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.Update(ctx, "p1", func(d *models.AvailabilityDraft) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryBackoffGrows(t *testing.T) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		wait := retryBackoff(attempt)
		assert.GreaterOrEqual(t, wait, updateRetryWait<<attempt)
		assert.Less(t, wait, 2*(updateRetryWait<<attempt))
	}
}
