package availability

import (
	"context"
	"errors"
	"fmt"

	draftRepo "neighborly/database/repository/draft"
	"neighborly/models"
	"neighborly/utils"

	"go.uber.org/zap"
)

// Load returns the pending draft, fetching the stored schedule from the
// backend when there is none.
func (s *DefaultAvailabilityService) Load(ctx context.Context, token, providerID string) (*models.AvailabilityDraft, error) {
	draft, err := s.Drafts.Get(ctx, providerID)
	if err == nil {
		return draft, nil
	}
	if !errors.Is(err, draftRepo.ErrDraftNotFound) {
		return nil, err
	}
	return s.Reload(ctx, token, providerID)
}

// Reload replaces any pending draft with the backend's current schedule.
// Slots in the past are dropped.
func (s *DefaultAvailabilityService) Reload(ctx context.Context, token, providerID string) (*models.AvailabilityDraft, error) {
	schedule, err := s.Backend.GetSchedule(ctx, token, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	now := s.now()
	draft := &models.AvailabilityDraft{
		ProviderID: providerID,
		Slots:      SlotsFromSchedule(schedule, now, s.location()),
		LoadedAt:   now,
	}
	if draft.Slots == nil {
		draft.Slots = []models.AvailabilitySlot{}
	}
	if err := s.Drafts.Put(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// update loads the draft and applies fn to it. A draft that expires between
// the load and the write is reloaded from the backend once.
func (s *DefaultAvailabilityService) update(ctx context.Context, token, providerID string, fn draftRepo.MutateFunc) (*models.AvailabilityDraft, error) {
	if _, err := s.Load(ctx, token, providerID); err != nil {
		return nil, err
	}
	draft, err := s.Drafts.Update(ctx, providerID, fn)
	if !errors.Is(err, draftRepo.ErrDraftNotFound) {
		return draft, err
	}
	utils.GetLogger().Debug("Availability draft expired mid-edit, reloading", zap.String("providerID", providerID))
	if _, err := s.Reload(ctx, token, providerID); err != nil {
		return nil, err
	}
	return s.Drafts.Update(ctx, providerID, fn)
}

// Select applies a calendar drag selection to the draft.
func (s *DefaultAvailabilityService) Select(ctx context.Context, token, providerID string, req models.SelectionRequest) (*models.SelectionResult, error) {
	loc := s.location()
	start, end := req.Start.In(loc), req.End.In(loc)
	var sel Selection
	draft, err := s.update(ctx, token, providerID, func(d *models.AvailabilityDraft) (bool, error) {
		e := NewEditor(d.Slots)
		sel = e.Select(start, end, s.now())
		if !sel.Changed() {
			return false, nil
		}
		d.Slots = e.Slots()
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Debug("Availability selection applied",
		zap.String("providerID", providerID),
		zap.String("action", sel.Action),
		zap.Int("slots", len(draft.Slots)),
	)
	return &models.SelectionResult{
		Action:  sel.Action,
		Added:   sel.Added,
		Removed: sel.Removed,
		Draft:   draft,
	}, nil
}

// RemoveSlot deletes a rendered slot by identity.
func (s *DefaultAvailabilityService) RemoveSlot(ctx context.Context, token, providerID, slotID string) (*models.AvailabilityDraft, error) {
	return s.update(ctx, token, providerID, func(d *models.AvailabilityDraft) (bool, error) {
		e := NewEditor(d.Slots)
		if !e.Remove(slotID) {
			return false, ErrSlotNotFound
		}
		d.Slots = e.Slots()
		return true, nil
	})
}

// Save expands the draft into hourly buckets and replaces the neighbor's
// stored schedule. A failed save leaves the draft untouched.
func (s *DefaultAvailabilityService) Save(ctx context.Context, token, providerID string) (models.DaySchedule, error) {
	logger := utils.GetLogger()

	draft, err := s.Drafts.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	schedule := ExpandToBuckets(draft.Slots, s.location())

	req := models.SaveScheduleRequest{ProviderID: providerID, Schedule: schedule}
	if err := s.Backend.SaveSchedule(ctx, token, req); err != nil {
		return nil, fmt.Errorf("failed to save schedule for %s: %w", providerID, err)
	}

	if err := s.Drafts.Delete(ctx, providerID); err != nil {
		logger.Warn("Saved schedule but could not clear draft", zap.String("providerID", providerID), zap.Error(err))
	}
	logger.Info("Availability saved", zap.String("providerID", providerID), zap.Int("days", len(schedule)))
	return schedule, nil
}

// Discard drops the pending draft without saving it.
func (s *DefaultAvailabilityService) Discard(ctx context.Context, providerID string) error {
	return s.Drafts.Delete(ctx, providerID)
}
