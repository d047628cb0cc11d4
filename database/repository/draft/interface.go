// File: database/repository/draft/interface.go
package draftRepo

import (
	"context"
	"errors"
	"time"

	"neighborly/models"

	"github.com/go-redis/redis/v8"
)

// ErrDraftNotFound is returned when a provider has no pending calendar draft.
var ErrDraftNotFound = errors.New("availability draft not found")

// ErrDraftContention is returned when optimistic updates keep colliding.
var ErrDraftContention = errors.New("availability draft is being edited concurrently")

// MutateFunc edits a draft in place. Returning false skips the write.
type MutateFunc func(draft *models.AvailabilityDraft) (bool, error)

type DraftRepository interface {
	Get(ctx context.Context, providerID string) (*models.AvailabilityDraft, error)
	Put(ctx context.Context, draft *models.AvailabilityDraft) error
	Update(ctx context.Context, providerID string, fn MutateFunc) (*models.AvailabilityDraft, error)
	Delete(ctx context.Context, providerID string) error
}

type redisDraftRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDraftRepo stores drafts as JSON under draft:<providerID>, expiring after ttl.
func NewRedisDraftRepo(client *redis.Client, ttl time.Duration) DraftRepository {
	return &redisDraftRepo{client: client, ttl: ttl}
}
