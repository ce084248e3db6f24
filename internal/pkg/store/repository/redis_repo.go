package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
)

type RedisStoreAdapter struct {
	client *redis.Client
}

func NewRedisStoreAdapter(client *redis.Client) *RedisStoreAdapter {
	return &RedisStoreAdapter{client: client}
}

func (a *RedisStoreAdapter) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return a.client.Set(ctx, key, value, expiration).Err()
}

func (a *RedisStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	return a.client.Get(ctx, key).Bytes()
}

func (a *RedisStoreAdapter) Delete(ctx context.Context, key string) error {
	return a.client.Del(ctx, key).Err()
}

func (a *RedisStoreAdapter) Exists(ctx context.Context, key string) (bool, error) {
	val, err := a.client.Exists(ctx, key).Result()
	return val > 0, err
}

func (a *RedisStoreAdapter) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return a.client.Expire(ctx, key, expiration).Result()
}

func (a *RedisStoreAdapter) TTL(ctx context.Context, key string) (time.Duration, error) {
	return a.client.TTL(ctx, key).Result()
}

func yearDataKey(clientID string, category consts.BillCategory, fiscalYear int) string {
	return fmt.Sprintf(consts.YearDataKeyFormat, clientID, category, fiscalYear)
}

// SaveYearSummary caches the denormalized year view. The cache is a pure
// read-through copy; every writer deletes the key instead of patching it.
func (a *RedisStoreAdapter) SaveYearSummary(
	ctx context.Context,
	clientID string,
	category consts.BillCategory,
	fiscalYear int,
	summary interface{},
) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal year summary: %w", err)
	}
	return a.Set(ctx, yearDataKey(clientID, category, fiscalYear), data, consts.YearDataTTL)
}

func (a *RedisStoreAdapter) GetYearSummary(
	ctx context.Context,
	clientID string,
	category consts.BillCategory,
	fiscalYear int,
) ([]byte, error) {
	return a.Get(ctx, yearDataKey(clientID, category, fiscalYear))
}

func (a *RedisStoreAdapter) InvalidateYearData(
	ctx context.Context,
	clientID string,
	category consts.BillCategory,
	fiscalYear int,
) error {
	return a.Delete(ctx, yearDataKey(clientID, category, fiscalYear))
}

// AcquireSettlementKey claims a settlement reference. Returns false when the
// reference was already processed.
func (a *RedisStoreAdapter) AcquireSettlementKey(ctx context.Context, clientID, reference string) (bool, error) {
	key := fmt.Sprintf(consts.SettlementDedupeKeyFormat, clientID, reference)
	return a.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), consts.SettlementDedupeTTL).Result()
}
