package availability

import (
	"sort"
	"time"

	"neighborly/models"
)

// Editor applies calendar gestures to a set of availability slots.
// The zero value is an empty calendar.
type Editor struct {
	slots []models.AvailabilitySlot
}

// NewEditor starts an editor from an existing, non-overlapping slot set.
func NewEditor(slots []models.AvailabilitySlot) *Editor {
	e := &Editor{slots: make([]models.AvailabilitySlot, len(slots))}
	copy(e.slots, slots)
	e.sort()
	return e
}

// Slots returns the retained slots ordered by start.
func (e *Editor) Slots() []models.AvailabilitySlot {
	out := make([]models.AvailabilitySlot, len(e.slots))
	copy(out, e.slots)
	return out
}

func (e *Editor) sort() {
	sort.Slice(e.slots, func(i, j int) bool {
		return e.slots[i].Start.Before(e.slots[j].Start)
	})
}

// Selection is the outcome of one Select call.
type Selection struct {
	Action  string
	Added   *models.AvailabilitySlot
	Removed []models.AvailabilitySlot
}

// Changed reports whether the selection modified the slot set.
func (s Selection) Changed() bool {
	return s.Action != models.SelectionIgnored
}

// Select applies a raw drag selection. The selection is snapped to whole
// hours and stretched to at least one hour. A selection starting before now
// is ignored. If it overlaps retained slots they are all removed; otherwise
// it is added.
func (e *Editor) Select(start, end, now time.Time) Selection {
	if start.Before(now) {
		return Selection{Action: models.SelectionIgnored}
	}
	s, en := NormalizeSelection(start, end)

	var kept, removed []models.AvailabilitySlot
	for _, slot := range e.slots {
		if Overlaps(s, en, slot.Start, slot.End) {
			removed = append(removed, slot)
			continue
		}
		kept = append(kept, slot)
	}
	if len(removed) > 0 {
		e.slots = kept
		return Selection{Action: models.SelectionRemoved, Removed: removed}
	}

	slot := models.NewAvailabilitySlot(s, en)
	e.slots = append(e.slots, slot)
	e.sort()
	return Selection{Action: models.SelectionAdded, Added: &slot}
}

// Remove deletes the slot with the given ID. It reports whether one existed.
func (e *Editor) Remove(id string) bool {
	for i, slot := range e.slots {
		if slot.ID == id {
			e.slots = append(e.slots[:i], e.slots[i+1:]...)
			return true
		}
	}
	return false
}

// add inserts a slot unless it overlaps a retained one.
func (e *Editor) add(slot models.AvailabilitySlot) bool {
	for _, existing := range e.slots {
		if Overlaps(slot.Start, slot.End, existing.Start, existing.End) {
			return false
		}
	}
	e.slots = append(e.slots, slot)
	e.sort()
	return true
}

// NormalizeSelection floors start and ceils end to whole hours in the
// selection's location, then guarantees end is at least one hour after start.
func NormalizeSelection(start, end time.Time) (time.Time, time.Time) {
	s := floorHour(start)
	en := ceilHour(end)
	if en.Sub(s) < time.Hour {
		en = s.Add(time.Hour)
	}
	return s, en
}

// Overlaps reports whether candidate [s,e) intersects existing [es,ee).
func Overlaps(s, e, es, ee time.Time) bool {
	startInside := !s.Before(es) && s.Before(ee)
	endInside := e.After(es) && !e.After(ee)
	contains := !s.After(es) && !e.Before(ee)
	return startInside || endInside || contains
}

func floorHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

func ceilHour(t time.Time) time.Time {
	f := floorHour(t)
	if f.Equal(t) {
		return f
	}
	return f.Add(time.Hour)
}
