package availability

import (
	"context"
	"errors"
	"time"

	draftRepo "neighborly/database/repository/draft"
	"neighborly/models"
)

// ErrSlotNotFound is returned when click-to-delete names an unknown slot.
var ErrSlotNotFound = errors.New("availability slot not found")

// ScheduleBackend is the part of the marketplace backend that stores schedules.
type ScheduleBackend interface {
	GetSchedule(ctx context.Context, token, providerID string) (models.DaySchedule, error)
	SaveSchedule(ctx context.Context, token string, req models.SaveScheduleRequest) error
}

type AvailabilityService interface {
	Load(ctx context.Context, token, providerID string) (*models.AvailabilityDraft, error)
	Reload(ctx context.Context, token, providerID string) (*models.AvailabilityDraft, error)
	Select(ctx context.Context, token, providerID string, req models.SelectionRequest) (*models.SelectionResult, error)
	RemoveSlot(ctx context.Context, token, providerID, slotID string) (*models.AvailabilityDraft, error)
	Save(ctx context.Context, token, providerID string) (models.DaySchedule, error)
	Discard(ctx context.Context, providerID string) error
}

// DefaultAvailabilityService keeps each neighbor's calendar draft between
// requests and pushes it to the backend on save.
type DefaultAvailabilityService struct {
	Drafts   draftRepo.DraftRepository
	Backend  ScheduleBackend
	Location *time.Location
	Now      func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultAvailabilityService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}
