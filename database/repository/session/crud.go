package sessionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neighborly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoSessionRepo) GetByID(ctx context.Context, id string) (*models.AppContext, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var appCtx models.AppContext
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appCtx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return &appCtx, nil
}

// Upsert writes the context. CreatedAt is only set when the document is
// first inserted, so a stale or zero value from the caller never rewinds it.
func (r *MongoSessionRepo) Upsert(ctx context.Context, appCtx *models.AppContext) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update, err := upsertUpdate(appCtx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", appCtx.ID, err)
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": appCtx.ID}, update, opts); err != nil {
		return fmt.Errorf("failed to save session %s: %w", appCtx.ID, err)
	}
	return nil
}

func upsertUpdate(appCtx *models.AppContext, now time.Time) (bson.M, error) {
	if appCtx.CreatedAt.IsZero() {
		appCtx.CreatedAt = now
	}
	appCtx.UpdatedAt = now

	raw, err := bson.Marshal(appCtx)
	if err != nil {
		return nil, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	delete(fields, "createdAt")
	return bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"createdAt": appCtx.CreatedAt},
	}, nil
}

func (r *MongoSessionRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteByUser drops every context signed in as userID.
func (r *MongoSessionRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions for user %s: %w", userID, err)
	}
	return result.DeletedCount, nil
}
