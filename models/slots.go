package models

import (
	"fmt"
	"time"
)

// SlotTitle is the display label given to every availability slot.
const SlotTitle = "Available"

// AvailabilitySlot is one contiguous interval during which a neighbor is bookable.
// Start is inclusive, End is exclusive.
type AvailabilitySlot struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Title string    `json:"title"`
}

// SlotID derives the deterministic identity of a slot from its bounds.
func SlotID(start, end time.Time) string {
	return fmt.Sprintf("%d-%d", start.Unix(), end.Unix())
}

// NewAvailabilitySlot builds a slot with its derived ID and default title.
func NewAvailabilitySlot(start, end time.Time) AvailabilitySlot {
	return AvailabilitySlot{
		ID:    SlotID(start, end),
		Start: start,
		End:   end,
		Title: SlotTitle,
	}
}

// HourBucket is the wire form of one hour of availability.
type HourBucket struct {
	StartTime int64 `json:"startTime"`
	EndTime   int64 `json:"endTime"`
}

// DaySchedule groups hour buckets by calendar date (YYYY-MM-DD).
type DaySchedule map[string][]HourBucket

// AvailabilityDraft is a neighbor's unsaved calendar state.
type AvailabilityDraft struct {
	ProviderID string             `json:"providerId"`
	Slots      []AvailabilitySlot `json:"slots"`
	Version    int                `json:"version"`
	Dirty      bool               `json:"dirty"`
	LoadedAt   time.Time          `json:"loadedAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// SelectionRequest is a raw drag selection from the calendar.
type SelectionRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// SelectionResult reports what a selection did to the draft.
type SelectionResult struct {
	Action  string             `json:"action"` // "added", "removed" or "ignored"
	Added   *AvailabilitySlot  `json:"added,omitempty"`
	Removed []AvailabilitySlot `json:"removed,omitempty"`
	Draft   *AvailabilityDraft `json:"draft"`
}

// Selection actions.
const (
	SelectionAdded   = "added"
	SelectionRemoved = "removed"
	SelectionIgnored = "ignored"
)

// SaveScheduleRequest is the payload sent to the backend on save.
type SaveScheduleRequest struct {
	ProviderID string      `json:"providerId"`
	Schedule   DaySchedule `json:"schedule"`
}

// ScheduleResponse is the backend's stored schedule for a provider.
type ScheduleResponse struct {
	ProviderID string      `json:"providerId"`
	Schedule   DaySchedule `json:"schedule"`
}
