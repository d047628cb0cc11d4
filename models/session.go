package models

import "time"

// AppContext is the client state of one signed-in browser: who the user is
// and whether their email is verified. It replaces the SPA's persisted store.
type AppContext struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId,omitempty" json:"userId,omitempty"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Role      string    `bson:"role,omitempty" json:"role,omitempty"`
	Token     string    `bson:"token,omitempty" json:"-"`
	Verified  bool      `bson:"verified" json:"verified"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Authenticated reports whether the context carries a backend token.
func (a *AppContext) Authenticated() bool {
	return a != nil && a.Token != ""
}

// Expired reports whether the context is past its expiry at now.
func (a *AppContext) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}

// Signup flow codes returned to the client.
const (
	FlowOTPPending  = 100
	FlowOTPVerified = 101
	FlowComplete    = 102
)

// FlowResponse tells the client where it is in a multi-step auth flow.
type FlowResponse struct {
	Code      int         `json:"code"`
	SessionID string      `json:"sessionId"`
	Message   string      `json:"message,omitempty"`
	Context   *AppContext `json:"context,omitempty"`
}
