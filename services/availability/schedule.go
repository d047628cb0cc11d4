package availability

import (
	"sort"
	"time"

	"neighborly/models"
)

const dateLayout = "2006-01-02"

// ExpandToBuckets splits every slot into one-hour buckets and groups them by
// calendar date in loc. A three-hour slot yields three buckets.
func ExpandToBuckets(slots []models.AvailabilitySlot, loc *time.Location) models.DaySchedule {
	schedule := models.DaySchedule{}
	for _, slot := range slots {
		for t := slot.Start; t.Before(slot.End); t = t.Add(time.Hour) {
			end := t.Add(time.Hour)
			if end.After(slot.End) {
				end = slot.End
			}
			day := t.In(loc).Format(dateLayout)
			schedule[day] = append(schedule[day], models.HourBucket{
				StartTime: t.Unix(),
				EndTime:   end.Unix(),
			})
		}
	}
	for day := range schedule {
		buckets := schedule[day]
		sort.Slice(buckets, func(i, j int) bool { return buckets[i].StartTime < buckets[j].StartTime })
	}
	return schedule
}

// SlotsFromSchedule turns stored buckets back into slots, one per bucket.
// Buckets that are malformed, start before now, or overlap an earlier bucket
// are dropped.
func SlotsFromSchedule(schedule models.DaySchedule, now time.Time, loc *time.Location) []models.AvailabilitySlot {
	var buckets []models.HourBucket
	for _, day := range schedule {
		buckets = append(buckets, day...)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].StartTime < buckets[j].StartTime })

	e := &Editor{}
	for _, b := range buckets {
		if b.EndTime <= b.StartTime {
			continue
		}
		start := time.Unix(b.StartTime, 0).In(loc)
		if start.Before(now) {
			continue
		}
		e.add(models.NewAvailabilitySlot(start, time.Unix(b.EndTime, 0).In(loc)))
	}
	return e.Slots()
}
