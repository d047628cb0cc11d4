package tasks

import (
	"math"
	"sort"
	"strings"

	"neighborly/models"
)

const earthRadiusKm = 6371.0

// DistanceKm is the great-circle (haversine) distance between a and b.
func DistanceKm(a, b models.Location) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Matches reports whether t passes every constraint set on f.
func Matches(t models.Task, f models.TaskFilter) bool {
	if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(t.Status, f.Status) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if f.MinBudget > 0 && t.Budget < f.MinBudget {
		return false
	}
	if f.MaxBudget > 0 && t.Budget > f.MaxBudget {
		return false
	}
	if f.Near != nil && f.RadiusKm > 0 {
		if t.Location == nil || DistanceKm(*f.Near, *t.Location) > f.RadiusKm {
			return false
		}
	}
	return true
}

// Apply filters tasks and sorts the result. The input slice is not modified.
func Apply(tasks []models.Task, f models.TaskFilter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, f) {
			out = append(out, t)
		}
	}

	var less func(a, b models.Task) bool
	switch f.Sort {
	case models.SortBudgetAsc:
		less = func(a, b models.Task) bool { return a.Budget < b.Budget }
	case models.SortBudgetDesc:
		less = func(a, b models.Task) bool { return a.Budget > b.Budget }
	case models.SortDue:
		// Tasks without a due date go last.
		less = func(a, b models.Task) bool {
			if a.DueAt.IsZero() != b.DueAt.IsZero() {
				return b.DueAt.IsZero()
			}
			return a.DueAt.Before(b.DueAt)
		}
	default:
		less = func(a, b models.Task) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ParseSort maps a query value to a TaskSort, defaulting to newest first.
func ParseSort(s string) models.TaskSort {
	switch models.TaskSort(strings.ToLower(s)) {
	case models.SortBudgetAsc:
		return models.SortBudgetAsc
	case models.SortBudgetDesc:
		return models.SortBudgetDesc
	case models.SortDue:
		return models.SortDue
	}
	return models.SortNewest
}
