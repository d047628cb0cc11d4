package session

import (
	"net/mail"
	"strings"

	"neighborly/models"
	"neighborly/services/user"
)

func formError(field, msg string) error {
	return &models.FormError{Field: field, Message: msg}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}

// ValidateSignup normalizes form in place and reports the first invalid field.
func ValidateSignup(form *models.SignupForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	form.Phone = strings.TrimSpace(form.Phone)
	form.Role = strings.ToLower(strings.TrimSpace(form.Role))

	if form.Name == "" {
		return formError("name", "name is required")
	}
	if form.Email == "" {
		return formError("email", "email is required")
	}
	if !validEmail(form.Email) {
		return formError("email", "enter a valid email address")
	}
	if form.Phone == "" {
		return formError("phone", "phone number is required")
	}
	if err := user.VerifyPasswordComplexity(form.Password); err != nil {
		return formError("password", err.Error())
	}
	switch form.Role {
	case models.RolePoster, models.RoleNeighbor:
	case "":
		return formError("role", "choose whether you post tasks or help neighbors")
	default:
		return formError("role", "role must be poster or neighbor")
	}
	return nil
}

// ValidateLogin normalizes form in place.
func ValidateLogin(form *models.LoginForm) error {
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	if form.Email == "" || !validEmail(form.Email) {
		return formError("email", "enter a valid email address")
	}
	if form.Password == "" {
		return formError("password", "password is required")
	}
	return nil
}
