package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/mo"

	"relaybackend/core"
	"relaybackend/models"
)

const dmListKeyPrefix = "dmlist"

// RedisDMListsRepository stores one DM-list document per owner as an opaque
// JSON blob keyed by the owner's user id. Writes overwrite the whole
// document; there is no version token, so concurrent writers race with
// last-write-wins semantics.
type RedisDMListsRepository struct {
	cli *redis.Client
}

func NewRedisDMListsRepository(cli *redis.Client) *RedisDMListsRepository {
	return &RedisDMListsRepository{cli: cli}
}

func dmListKey(ownerID string) string {
	return fmt.Sprintf("%s:%s", dmListKeyPrefix, ownerID)
}

// GetDMList fetches the stored list document for an owner. Returns None
// when no document exists yet.
func (r *RedisDMListsRepository) GetDMList(ctx context.Context, ownerID string) (mo.Option[*models.DMList], error) {
	raw, err := r.cli.Get(ctx, dmListKey(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return mo.None[*models.DMList](), nil
	}
	if err != nil {
		return mo.None[*models.DMList](), fmt.Errorf("%w: failed to get dm list for %s: %v", core.ErrUpstream, ownerID, err)
	}

	var list models.DMList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return mo.None[*models.DMList](), fmt.Errorf("%w: failed to decode dm list for %s: %v", core.ErrUpstream, ownerID, err)
	}
	return mo.Some(&list), nil
}

// PutDMList overwrites the owner's list document
func (r *RedisDMListsRepository) PutDMList(ctx context.Context, list *models.DMList) error {
	list.UpdatedAt = time.Now().UnixMilli()

	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode dm list for %s: %w", list.OwnerUserID, err)
	}

	if err := r.cli.Set(ctx, dmListKey(list.OwnerUserID), raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to put dm list for %s: %v", core.ErrUpstream, list.OwnerUserID, err)
	}
	return nil
}
