package models

import (
	"strings"
	"time"
)

// FormError is an inline validation failure tied to one form field.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string {
	return e.Field + ": " + e.Message
}

// SignupForm is the signup screen.
type SignupForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginForm is the login screen.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OTPForm carries the emailed one-time password.
type OTPForm struct {
	Code string `json:"otp"`
}

// PasswordChangeForm is the security section of the settings screen.
type PasswordChangeForm struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// TaskForm is the "post a task" screen. Build it with NewTaskForm.
type TaskForm struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Budget      float64   `json:"budget"`
	Location    *Location `json:"location,omitempty"`
	DueAt       time.Time `json:"dueAt,omitzero"`
}

// TaskFormBuilder assembles a TaskForm field by field.
type TaskFormBuilder struct {
	form TaskForm
}

// NewTaskForm starts a task form with its title.
func NewTaskForm(title string) *TaskFormBuilder {
	return &TaskFormBuilder{form: TaskForm{Title: strings.TrimSpace(title)}}
}

func (b *TaskFormBuilder) WithDescription(d string) *TaskFormBuilder {
	b.form.Description = strings.TrimSpace(d)
	return b
}

func (b *TaskFormBuilder) WithCategory(c string) *TaskFormBuilder {
	b.form.Category = strings.ToLower(strings.TrimSpace(c))
	return b
}

func (b *TaskFormBuilder) WithBudget(amount float64) *TaskFormBuilder {
	b.form.Budget = amount
	return b
}

func (b *TaskFormBuilder) WithLocation(loc *Location) *TaskFormBuilder {
	b.form.Location = loc
	return b
}

func (b *TaskFormBuilder) WithDueAt(t time.Time) *TaskFormBuilder {
	b.form.DueAt = t
	return b
}

// Build validates the required fields and returns the form.
func (b *TaskFormBuilder) Build() (TaskForm, error) {
	f := b.form
	switch {
	case f.Title == "":
		return TaskForm{}, &FormError{Field: "title", Message: "title is required"}
	case len(f.Title) > 120:
		return TaskForm{}, &FormError{Field: "title", Message: "title must be at most 120 characters"}
	case f.Description == "":
		return TaskForm{}, &FormError{Field: "description", Message: "description is required"}
	case f.Category == "":
		return TaskForm{}, &FormError{Field: "category", Message: "category is required"}
	case f.Budget <= 0:
		return TaskForm{}, &FormError{Field: "budget", Message: "budget must be positive"}
	}
	return f, nil
}

// ProfileUpdate is a partial profile change; nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Address   *string `json:"address,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// NewProfileUpdate starts an empty partial update.
func NewProfileUpdate() *ProfileUpdate {
	return &ProfileUpdate{}
}

func trimmed(s string) *string {
	s = strings.TrimSpace(s)
	return &s
}

func (u *ProfileUpdate) WithName(name string) *ProfileUpdate {
	u.Name = trimmed(name)
	return u
}

func (u *ProfileUpdate) WithPhone(phone string) *ProfileUpdate {
	u.Phone = trimmed(phone)
	return u
}

func (u *ProfileUpdate) WithBio(bio string) *ProfileUpdate {
	u.Bio = trimmed(bio)
	return u
}

func (u *ProfileUpdate) WithAddress(addr string) *ProfileUpdate {
	u.Address = trimmed(addr)
	return u
}

func (u *ProfileUpdate) WithAvatarURL(url string) *ProfileUpdate {
	u.AvatarURL = trimmed(url)
	return u
}

// Empty reports whether the update changes nothing.
func (u *ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Phone == nil && u.Bio == nil && u.Address == nil && u.AvatarURL == nil
}

// Validate checks the fields that are set.
func (u *ProfileUpdate) Validate() error {
	if u.Empty() {
		return &FormError{Field: "profile", Message: "nothing to update"}
	}
	if u.Name != nil && *u.Name == "" {
		return &FormError{Field: "name", Message: "name cannot be empty"}
	}
	if u.Bio != nil && len(*u.Bio) > 500 {
		return &FormError{Field: "bio", Message: "bio must be at most 500 characters"}
	}
	return nil
}
