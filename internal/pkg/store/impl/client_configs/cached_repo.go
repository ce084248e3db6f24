package client_configs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
)

// CachedClientConfigRepository fronts the Mongo repository with a Redis copy.
// Client configs change rarely; a stale read self-heals when the TTL lapses.
type CachedClientConfigRepository struct {
	inner interfaces.ClientConfigRepositoryInterface
	cache interfaces.RedisStoreOperations
}

func NewCachedClientConfigRepository(
	inner interfaces.ClientConfigRepositoryInterface,
	cache interfaces.RedisStoreOperations,
) *CachedClientConfigRepository {
	return &CachedClientConfigRepository{inner: inner, cache: cache}
}

func (r *CachedClientConfigRepository) GetClientConfig(ctx context.Context, clientID string) (*models.ClientConfig, error) {
	key := fmt.Sprintf(consts.ClientConfigKeyFormat, clientID)

	if data, err := r.cache.Get(ctx, key); err == nil && len(data) > 0 {
		var cfg models.ClientConfig
		if err := json.Unmarshal(data, &cfg); err == nil {
			return &cfg, nil
		}
		logger.CtxWarn(ctx, "Corrupt cached client config, refetching", slog.String("client_id", clientID))
	}

	cfg, err := r.inner.GetClientConfig(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cfg); err == nil {
		if err := r.cache.Set(ctx, key, data, consts.ClientConfigTTL); err != nil {
			logger.CtxWarn(ctx, "Failed to cache client config", slog.String("client_id", clientID))
		}
	}
	return cfg, nil
}
