// File: database/repository/draft/crud.go
package draftRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"neighborly/models"
	"neighborly/utils"

	"github.com/go-redis/redis/v8"
)

const (
	maxUpdateAttempts = 8
	updateRetryWait   = 2 * time.Millisecond
)

// retryBackoff doubles per attempt and adds up to the same again as jitter.
func retryBackoff(attempt int) time.Duration {
	wait := updateRetryWait << attempt
	return wait + time.Duration(rand.Int63n(int64(wait)))
}

func draftKey(providerID string) string {
	return utils.DraftPrefix + providerID
}

func decodeDraft(data []byte) (*models.AvailabilityDraft, error) {
	var d models.AvailabilityDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &d, nil
}

func (r *redisDraftRepo) Get(ctx context.Context, providerID string) (*models.AvailabilityDraft, error) {
	data, err := r.client.Get(ctx, draftKey(providerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	return decodeDraft(data)
}

func (r *redisDraftRepo) Put(ctx context.Context, draft *models.AvailabilityDraft) error {
	draft.UpdatedAt = time.Now()
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := r.client.Set(ctx, draftKey(draft.ProviderID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Update runs fn inside a WATCH/MULTI transaction and retries when another
// writer touched the draft in between.
func (r *redisDraftRepo) Update(ctx context.Context, providerID string, fn MutateFunc) (*models.AvailabilityDraft, error) {
	key := draftKey(providerID)
	var result *models.AvailabilityDraft

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrDraftNotFound
			}
			return err
		}
		draft, err := decodeDraft(data)
		if err != nil {
			return err
		}
		changed, err := fn(draft)
		if err != nil {
			return err
		}
		if !changed {
			result = draft
			return nil
		}
		draft.Version++
		draft.Dirty = true
		draft.UpdatedAt = time.Now()
		out, err := json.Marshal(draft)
		if err != nil {
			return fmt.Errorf("failed to marshal draft: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, r.ttl)
			return nil
		})
		if err == nil {
			result = draft
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
		if attempt == maxUpdateAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBackoff(attempt)):
		}
	}
	return nil, ErrDraftContention
}

func (r *redisDraftRepo) Delete(ctx context.Context, providerID string) error {
	if err := r.client.Del(ctx, draftKey(providerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
