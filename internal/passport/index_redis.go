package passport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	platformredis "verifyhr/internal/platform/redis"
	"verifyhr/pkg/platform/sentinel"
)

const redisKeyPrefix = "vhr:candidate:"

// RedisIndex implements IndexStore on Redis. Records are stored as JSON under
// a per-asset key with no TTL; candidate data outlives any cache window.
type RedisIndex struct {
	client *platformredis.Client
}

// NewRedisIndex constructs a Redis-backed candidate index.
func NewRedisIndex(client *platformredis.Client) *RedisIndex {
	return &RedisIndex{client: client}
}

func redisKey(assetID uint64) string {
	return fmt.Sprintf("%s%d", redisKeyPrefix, assetID)
}

func (s *RedisIndex) FindByKey(ctx context.Context, assetID uint64) (*HolderRecord, error) {
	raw, err := s.client.Get(ctx, redisKey(assetID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("candidate %d: %w", assetID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get candidate: %w", err)
	}

	var rec HolderRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode candidate %d: %w", assetID, err)
	}
	return &rec, nil
}

func (s *RedisIndex) Save(ctx context.Context, rec *HolderRecord) error {
	if rec == nil || rec.AssetID == 0 {
		return fmt.Errorf("candidate record needs an asset id: %w", sentinel.ErrInvalidState)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode candidate %d: %w", rec.AssetID, err)
	}
	if err := s.client.Set(ctx, redisKey(rec.AssetID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set candidate: %w", err)
	}
	return nil
}
