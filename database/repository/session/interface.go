package sessionRepo

import (
	"context"
	"errors"
	"time"

	"neighborly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSessionNotFound is returned when no context exists for the given ID.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists application contexts.
type SessionRepository interface {
	GetByID(ctx context.Context, id string) (*models.AppContext, error)
	Upsert(ctx context.Context, appCtx *models.AppContext) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoSessionRepo implements SessionRepository on the sessions collection.
type MongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo binds the repository to db.sessions.
func NewMongoSessionRepo(db *mongo.Database) SessionRepository {
	return &MongoSessionRepo{coll: db.Collection("sessions")}
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}
