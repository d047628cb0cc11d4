package models

import "time"

// Task statuses.
const (
	TaskOpen       = "open"
	TaskAssigned   = "assigned"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskCancelled  = "cancelled"
)

// Location is a geocoded point with an optional display address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Task is a posted job a neighbor can accept and fulfill.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Budget      float64   `json:"budget"`
	PosterID    string    `json:"posterId"`
	NeighborID  string    `json:"neighborId,omitempty"`
	Location    *Location `json:"location,omitempty"`
	DueAt       time.Time `json:"dueAt,omitzero"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TaskSort orders a filtered task list.
type TaskSort string

const (
	SortNewest     TaskSort = "newest"
	SortBudgetAsc  TaskSort = "budget_asc"
	SortBudgetDesc TaskSort = "budget_desc"
	SortDue        TaskSort = "due"
)

// TaskFilter narrows the browse list. Zero values mean "no constraint".
type TaskFilter struct {
	Category  string
	Status    string
	Query     string
	MinBudget float64
	MaxBudget float64
	Near      *Location
	RadiusKm  float64
	Sort      TaskSort
}
