package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crewair/booking-assistant/internal/agent/model"
	errx "github.com/crewair/booking-assistant/internal/core/error"
	logx "github.com/crewair/booking-assistant/pkg/logger"
)

// RedisSessionStore keeps sessions in Redis with a sliding TTL.
type RedisSessionStore struct {
	rdb      redis.Cmdable
	ttl      time.Duration
	maxTurns int
}

func NewRedisSessionStore(rdb redis.Cmdable, ttl time.Duration, maxTurns int) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl, maxTurns: maxTurns}
}

func (r *RedisSessionStore) turnsKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s:turns", conversationID)
}

func (r *RedisSessionStore) stateKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s:state", conversationID)
}

func (r *RedisSessionStore) LoadHistory(ctx context.Context, conversationID string) (model.History, error) {
	key := r.turnsKey(conversationID)

	start := int64(0)
	if r.maxTurns > 0 {
		start = -int64(r.maxTurns)
	}
	rows, err := r.rdb.LRange(ctx, key, start, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation history from redis")
		return nil, errx.WrapRedis(err)
	}

	history := make(model.History, 0, len(rows))
	for i, s := range rows {
		var t model.Turn
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			logx.Error().Err(err).Str("conversation_id", conversationID).Int("index", i).Msg("failed to unmarshal turn")
			return nil, fmt.Errorf("unmarshal turn at index %d: %w", i, err)
		}
		history = append(history, t)
	}
	return history, nil
}

func (r *RedisSessionStore) AppendTurn(ctx context.Context, conversationID string, turn model.Turn) error {
	b, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	key := r.turnsKey(conversationID)

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, b)
		if r.maxTurns > 0 {
			pipe.LTrim(ctx, key, -int64(r.maxTurns), -1)
		}
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push turn to redis")
		return errx.WrapRedis(err)
	}
	return r.touch(ctx, conversationID)
}

func (r *RedisSessionStore) LoadState(ctx context.Context, conversationID string) (*model.BookingState, error) {
	key := r.stateKey(conversationID)
	data, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return model.NewBookingStateFor(conversationID), nil
	}
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to load booking state from redis")
		return nil, errx.WrapRedis(err)
	}

	var state model.BookingState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("unmarshal booking state: %w", err)
	}
	return &state, nil
}

func (r *RedisSessionStore) SaveState(ctx context.Context, state *model.BookingState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal booking state: %w", err)
	}
	key := r.stateKey(state.ConversationID)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save booking state to redis")
		return errx.WrapRedis(err)
	}
	return r.touch(ctx, state.ConversationID)
}

func (r *RedisSessionStore) Clear(ctx context.Context, conversationID string) error {
	if err := r.rdb.Del(ctx, r.turnsKey(conversationID), r.stateKey(conversationID)).Err(); err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to delete conversation from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

// touch extends the TTL of both conversation keys so they expire together.
// Missing keys are not an error.
func (r *RedisSessionStore) touch(ctx context.Context, conversationID string) error {
	if r.ttl <= 0 {
		return nil
	}
	for _, key := range []string{r.turnsKey(conversationID), r.stateKey(conversationID)} {
		if err := r.rdb.Expire(ctx, key, r.ttl).Err(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		}
	}
	return nil
}

var _ model.SessionStore = (*RedisSessionStore)(nil)
