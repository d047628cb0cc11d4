package models

// UserStatusUpdate is sent by the admin screen to (un)suspend an account.
type UserStatusUpdate struct {
	Status string `json:"status"`
}

// AdminOverview is the landing data of the admin screen.
type AdminOverview struct {
	Users []User `json:"users"`
	Tasks []Task `json:"tasks"`
}

// LegalSection is one policy document shown from the settings screen.
type LegalSection struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Audience string `json:"audience"` // a role, or AudienceAll
	Version  string `json:"version"`
	Updated  string `json:"updated"`
}

// AudienceAll marks a legal section every role must accept.
const AudienceAll = "all"
