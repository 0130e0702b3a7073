package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/samber/mo"

	"relaybackend/core"
	"relaybackend/models"
)

const messageKeyPrefix = "messages"

// RedisMessagesRepository stores each message as a JSON document keyed by
// channel and message id, with a per-channel sorted set scored by the
// message timestamp acting as the channel index.
type RedisMessagesRepository struct {
	cli *redis.Client
}

func NewRedisMessagesRepository(cli *redis.Client) *RedisMessagesRepository {
	return &RedisMessagesRepository{cli: cli}
}

func channelIndexKey(channelID string) string {
	return fmt.Sprintf("%s:%s", messageKeyPrefix, channelID)
}

func messageKey(channelID, messageID string) string {
	return fmt.Sprintf("%s:%s:%s", messageKeyPrefix, channelID, messageID)
}

// InsertMessage writes the message document and adds it to the channel
// index in one transaction
func (r *RedisMessagesRepository) InsertMessage(ctx context.Context, msg *models.Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
	}

	_, err = r.cli.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, messageKey(msg.ChannelID, msg.ID), raw, 0)
		pipe.ZAdd(ctx, channelIndexKey(msg.ChannelID), redis.Z{
			Score:  float64(msg.Timestamp),
			Member: msg.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: failed to insert message %s: %v", core.ErrUpstream, msg.ID, err)
	}
	return nil
}

// ListMessagesSince returns the channel's messages with timestamp strictly
// greater than since, ordered ascending. since == 0 returns everything.
func (r *RedisMessagesRepository) ListMessagesSince(ctx context.Context, channelID string, since int64) ([]*models.Message, error) {
	min := "-inf"
	if since > 0 {
		min = fmt.Sprintf("(%d", since)
	}

	ids, err := r.cli.ZRangeByScore(ctx, channelIndexKey(channelID), &redis.ZRangeBy{
		Min: min,
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to range channel %s: %v", core.ErrUpstream, channelID, err)
	}
	if len(ids) == 0 {
		return []*models.Message{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = messageKey(channelID, id)
	}
	vals, err := r.cli.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch messages for %s: %v", core.ErrUpstream, channelID, err)
	}

	out := make([]*models.Message, 0, len(vals))
	for _, val := range vals {
		raw, ok := val.(string)
		if !ok {
			// Index entry without a document; skip rather than fail the read
			continue
		}
		var msg models.Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return nil, fmt.Errorf("%w: failed to decode message in %s: %v", core.ErrUpstream, channelID, err)
		}
		out = append(out, &msg)
	}
	return out, nil
}

// GetMessage fetches a single message document. Returns None when the
// message does not exist.
func (r *RedisMessagesRepository) GetMessage(ctx context.Context, channelID, messageID string) (mo.Option[*models.Message], error) {
	raw, err := r.cli.Get(ctx, messageKey(channelID, messageID)).Result()
	if errors.Is(err, redis.Nil) {
		return mo.None[*models.Message](), nil
	}
	if err != nil {
		return mo.None[*models.Message](), fmt.Errorf("%w: failed to get message %s: %v", core.ErrUpstream, messageID, err)
	}

	var msg models.Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return mo.None[*models.Message](), fmt.Errorf("%w: failed to decode message %s: %v", core.ErrUpstream, messageID, err)
	}
	return mo.Some(&msg), nil
}

// UpdateMessage overwrites an existing message document. Only the
// reactions field ever changes after creation, so the index entry is
// left untouched.
func (r *RedisMessagesRepository) UpdateMessage(ctx context.Context, msg *models.Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
	}
	if err := r.cli.Set(ctx, messageKey(msg.ChannelID, msg.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to update message %s: %v", core.ErrUpstream, msg.ID, err)
	}
	return nil
}

// ClearAllMessages deletes every message document and channel index.
// Administrative operation; scans the keyspace in batches.
func (r *RedisMessagesRepository) ClearAllMessages(ctx context.Context) error {
	var cursor uint64
	pattern := messageKeyPrefix + ":*"
	for {
		keys, next, err := r.cli.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return fmt.Errorf("%w: failed to scan message keys: %v", core.ErrUpstream, err)
		}
		if len(keys) > 0 {
			if err := r.cli.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: failed to delete message keys: %v", core.ErrUpstream, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
